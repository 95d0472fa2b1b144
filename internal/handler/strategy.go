package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/brand-strategist/internal/brand"
	"github.com/angeloszaimis/brand-strategist/internal/metrics"
	"github.com/angeloszaimis/brand-strategist/internal/middleware"
	"github.com/angeloszaimis/brand-strategist/internal/upstream"
	"github.com/angeloszaimis/brand-strategist/pkg/logger"
)

const (
	msgMethodNotAllowed  = "Method Not Allowed"
	msgMissingCredential = "OPENAI_API_KEY is not set"
	msgInvalidBody       = "Invalid JSON body"
	msgUpstreamError     = "OpenAI API error"
	msgInvalidContent    = "Failed to parse JSON from OpenAI"
)

// ErrorResponse is the body of every JSON error answer. Detail is only set for
// upstream failures and may be an empty string.
type ErrorResponse struct {
	Error  string  `json:"error"`
	Detail *string `json:"detail,omitempty"`
}

type StrategyHandler struct {
	logger           *slog.Logger
	completer        upstream.Completer
	apiKey           string
	metricsCollector *metrics.Collector
}

// NewStrategyHandler builds the handler. apiKey may be empty, in which case
// every POST is answered with a configuration error. collector may be nil.
func NewStrategyHandler(logger *slog.Logger, completer upstream.Completer, apiKey string, collector *metrics.Collector) *StrategyHandler {
	return &StrategyHandler{
		logger:           logger,
		completer:        completer,
		apiKey:           apiKey,
		metricsCollector: collector,
	}
}

// Generate handles one strategy request from method check to response.
func (h *StrategyHandler) Generate(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.logger)
	h.metricsCollector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})

	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, msgMethodNotAllowed)
		h.complete(metrics.OutcomeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if h.apiKey == "" {
		log.Error("Upstream credential missing")
		h.fail(c, metrics.OutcomeMissingCredential, http.StatusInternalServerError, ErrorResponse{Error: msgMissingCredential})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn("Failed to read request body", slog.String("error", err.Error()))
		h.fail(c, metrics.OutcomeInvalidBody, http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	profile, err := brand.DecodeProfile(body)
	if errors.Is(err, brand.ErrNullProfile) {
		log.Error("Unexpected error", slog.String("error", err.Error()))
		h.fail(c, metrics.OutcomeUnexpectedError, http.StatusInternalServerError, ErrorResponse{Error: middleware.UnexpectedErrorMessage})
		return
	}
	if err != nil {
		log.Warn("Invalid request body", slog.String("error", err.Error()))
		h.fail(c, metrics.OutcomeInvalidBody, http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	log.Info("Generating brand strategy",
		slog.String("store", profile.StoreName),
		slog.String("category", profile.Category))

	content, err := h.callUpstream(c, log, brand.BuildPrompt(profile))
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			log.Error("OpenAI API error",
				slog.Int("status", statusErr.StatusCode),
				slog.String("detail", statusErr.Body))
			detail := statusErr.Body
			h.fail(c, metrics.OutcomeUpstreamError, http.StatusInternalServerError, ErrorResponse{Error: msgUpstreamError, Detail: &detail})
			return
		}

		log.Error("Unexpected error", slog.String("error", err.Error()))
		h.fail(c, metrics.OutcomeUnexpectedError, http.StatusInternalServerError, ErrorResponse{Error: middleware.UnexpectedErrorMessage})
		return
	}

	strategy, err := brand.ParseStrategy(content)
	if err != nil {
		log.Error("Failed to parse JSON from OpenAI", slog.String("content", content))
		h.fail(c, metrics.OutcomeInvalidContent, http.StatusInternalServerError, ErrorResponse{Error: msgInvalidContent})
		return
	}

	if missing := brand.MissingKeys(strategy); len(missing) > 0 {
		log.Warn("Strategy is missing expected keys", slog.Any("missing", missing))
	}

	c.Data(http.StatusOK, "application/json", strategy)
	h.complete(metrics.OutcomeSuccess, http.StatusOK)
}

func (h *StrategyHandler) callUpstream(c *gin.Context, log *slog.Logger, prompt brand.Prompt) (string, error) {
	start := time.Now()
	content, err := h.completer.Complete(c.Request.Context(), h.apiKey, prompt)
	duration := time.Since(start)

	status := http.StatusOK
	if err != nil {
		status = 0
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			status = statusErr.StatusCode
		}
	}

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventUpstreamCompleted,
		Duration:   duration,
		StatusCode: status,
	})
	log.Debug("Upstream call finished",
		slog.Int("status", status),
		slog.Duration("duration", duration))

	return content, err
}

func (h *StrategyHandler) fail(c *gin.Context, outcome metrics.Outcome, status int, body ErrorResponse) {
	c.JSON(status, body)
	h.complete(outcome, status)
}

func (h *StrategyHandler) complete(outcome metrics.Outcome, status int) {
	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventRequestCompleted,
		Outcome:    outcome,
		StatusCode: status,
	})
}
