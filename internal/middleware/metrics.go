package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"weddingbudget/internal/metrics"
)

// RequestMetrics records request counts and latency per matched route.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
