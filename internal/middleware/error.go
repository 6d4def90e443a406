package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "weddingbudget/internal/errors"
	"weddingbudget/internal/logger"
)

// ErrorHandler renders the last error attached to the gin context, for
// handlers that report failures with c.Error instead of writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		if last.IsType(gin.ErrorTypeBind) {
			RespondError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, last.Error()))
			return
		}
		RespondError(c, last.Err)
	}
}

// RespondError writes {"error":{"code","message"}}. AppErrors keep their
// status and code; anything else is logged and reported as an internal error
// so details never reach the client.
func RespondError(c *gin.Context, err error) {
	fields := []interface{}{
		"request_id", c.GetString(RequestIDKey),
		"route", c.FullPath(),
		"method", c.Request.Method,
	}

	appErr := apperrors.ErrInternalServer
	var target *apperrors.AppError
	if errors.As(err, &target) {
		appErr = target
		if appErr.Internal != nil {
			logger.Get().Errorw("app error", append(fields,
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
			)...)
		}
	} else {
		logger.Get().Errorw("unexpected error", append(fields, "error", err.Error())...)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
