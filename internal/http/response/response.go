package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody error payload shape
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes the payload with HTTP 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error writes {"error": msg} with a real HTTP status
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}
