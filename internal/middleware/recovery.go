package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/brand-strategist/pkg/logger"
)

// UnexpectedErrorMessage is the body text for failures nothing else classified.
const UnexpectedErrorMessage = "Unexpected server error"

// Recovery turns a panic into a 500 with the generic error body.
func Recovery(fallback *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContext(c.Request.Context(), fallback).Error("Unexpected error",
					slog.String("error", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", c.Request.URL.Path))

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": UnexpectedErrorMessage})
			}
		}()

		c.Next()
	}
}
