package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angeloszaimis/brand-strategist/config"
	"github.com/angeloszaimis/brand-strategist/internal/handler"
	"github.com/angeloszaimis/brand-strategist/internal/httpserver"
	"github.com/angeloszaimis/brand-strategist/internal/metrics"
	"github.com/angeloszaimis/brand-strategist/internal/upstream"
	"github.com/angeloszaimis/brand-strategist/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("err", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)
	if cfg.Server.Environment == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Upstream.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; strategy requests will fail until it is configured")
	}

	registry := prometheus.NewRegistry()
	metricsCollector := metrics.NewCollector(cfg.Metrics.BufferSize, registry, log)
	metricsCollector.Start(ctx)

	client := upstream.NewOpenAIClient(cfg.Upstream.BaseURL, nil)
	strategyHandler := handler.NewStrategyHandler(log, client, cfg.Upstream.APIKey, metricsCollector)

	read, write, idle := cfg.Server.Timeouts()
	srv, err := httpserver.New(cfg.Server.Address,
		setupRouter(log, strategyHandler, metricsCollector, registry),
		httpserver.Timeouts{Read: read, Write: write, Idle: idle})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		log.Info("Brand strategist listening", slog.String("addr", srv.Addr()))
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
