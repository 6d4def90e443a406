package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weddingbudget/internal/logger"
)

// Context keys read by RequestLogging.
const (
	RequestIDKey     = "requestID"
	CalculationIDKey = "calculationID"
	EfficiencyKey    = "efficiency"
)

// RequestLogging logs one line per request. An incoming X-Request-ID is
// kept when it is a UUID, otherwise a new one is generated. The user and
// any calculation the handler touched are added when present.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		for _, key := range []string{"userID", CalculationIDKey, EfficiencyKey} {
			if v := c.GetString(key); v != "" {
				fields = append(fields, logField(key), v)
			}
		}
		logger.Get().Infow("request", fields...)
	}
}

func logField(key string) string {
	switch key {
	case "userID":
		return "user_id"
	case CalculationIDKey:
		return "calculation_id"
	default:
		return key
	}
}
