package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/angeloszaimis/brand-strategist/internal/brand"
)

const (
	Model       = "gpt-4.1-mini"
	Temperature = 0.7
)

// Completer sends one prompt pair and returns the first choice's content.
type Completer interface {
	Complete(ctx context.Context, apiKey string, prompt brand.Prompt) (string, error)
}

// StatusError is returned when the upstream answers with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// OpenAIClient implements Completer on top of the official OpenAI SDK.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client for baseURL. A nil httpClient uses the SDK default.
func NewOpenAIClient(baseURL string, httpClient *http.Client) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, prompt brand.Prompt) (string, error) {
	capture := &errorBodyCapture{}

	completion, err := c.client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Model: openai.ChatModel(Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(prompt.System),
				openai.UserMessage(prompt.User),
			},
			Temperature: openai.Float(Temperature),
		},
		option.WithAPIKey(apiKey),
		option.WithMiddleware(capture.middleware),
	)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.StatusCode, Body: capture.body}
		}
		if capture.captured {
			return "", &StatusError{StatusCode: capture.status, Body: capture.body}
		}
		return "", fmt.Errorf("chat completion request: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// errorBodyCapture keeps the raw body of a non-2xx response. The body is
// restored so the SDK can still build its own error from it.
type errorBodyCapture struct {
	captured bool
	status   int
	body     string
}

func (e *errorBodyCapture) middleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil || res == nil {
		return res, err
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}

	defer res.Body.Close()
	data, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read upstream error body: %w", readErr)
	}

	e.captured = true
	e.status = res.StatusCode
	e.body = string(data)
	res.Body = io.NopCloser(bytes.NewReader(data))

	return res, nil
}
