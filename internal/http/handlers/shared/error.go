package shared

import (
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger carrying the request_id
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError writes an error response and logs the original error when one
// is present
func RespondError(c *gin.Context, status int, msg string, err error) {
	appErr := response.WrapError(status, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"status", appErr.Status,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Status, appErr.Message)
}
