package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angeloszaimis/brand-strategist/internal/handler"
	"github.com/angeloszaimis/brand-strategist/internal/metrics"
	"github.com/angeloszaimis/brand-strategist/internal/middleware"
)

var strategyPaths = []string{"/generate-strategy", "/api/generate-strategy"}

func setupRouter(log *slog.Logger, strategyHandler *handler.StrategyHandler, metricsCollector *metrics.Collector, registry *prometheus.Registry) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(log),
		middleware.AccessLog(log),
		middleware.Recovery(log),
	)

	// Method enforcement lives in the handler so non-POST requests get the
	// plain-text 405 body. Any only covers the standard methods; everything
	// else (PURGE, PROPFIND, ...) reaches the handler through NoRoute.
	for _, path := range strategyPaths {
		router.Any(path, strategyHandler.Generate)
	}
	router.NoRoute(func(c *gin.Context) {
		for _, path := range strategyPaths {
			if c.Request.URL.Path == path {
				strategyHandler.Generate(c)
				return
			}
		}
	})

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/stats", metricsCollector.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return router
}
