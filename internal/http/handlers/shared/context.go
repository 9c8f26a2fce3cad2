package shared

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetContextUint reads a uint value stored by middleware. Missing values
// respond 401, malformed values 500.
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, http.StatusInternalServerError, "invalid context value", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, http.StatusInternalServerError, "invalid context value", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, http.StatusInternalServerError, "invalid context value", nil)
		return 0, false
	}
}
