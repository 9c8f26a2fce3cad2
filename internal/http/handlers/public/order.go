package public

import (
	"net/http"
	"strings"

	"github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetGuestOrder returns a guest order addressed by order number
func (h *Handler) GetGuestOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		shared.RespondError(c, http.StatusBadRequest, "order number required", nil)
		return
	}
	accessToken := strings.TrimSpace(c.GetHeader("X-Order-Access-Token"))
	if accessToken == "" {
		shared.RespondError(c, http.StatusUnauthorized, "order access token required", nil)
		return
	}

	order, err := h.checkout.GetGuestOrder(orderNo, accessToken)
	if err != nil {
		respondGuestOrderError(c, err)
		return
	}
	response.Success(c, order)
}
