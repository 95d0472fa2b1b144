package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the in-memory snapshot as JSON.
func (c *Collector) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.metrics.Snapshot())
	}
}
