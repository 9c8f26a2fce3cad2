package public

import (
	"net/http"
	"strings"

	"github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntent opens a payment intent for a logged-in buyer's order
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := shared.GetContextUint(c, "user_id")
	if !ok {
		return
	}

	var req service.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.checkout.CreatePaymentIntent(c.Request.Context(), userID, "", req)
	if err != nil {
		respondPaymentIntentError(c, err)
		return
	}
	response.Success(c, result)
}

// CreateGuestPaymentIntent opens a payment intent for a guest order. The
// access token comes from the X-Order-Access-Token header or the body.
func (h *Handler) CreateGuestPaymentIntent(c *gin.Context) {
	var req service.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	accessToken := strings.TrimSpace(c.GetHeader("X-Order-Access-Token"))
	if accessToken == "" {
		accessToken = strings.TrimSpace(req.OrderAccessToken)
	}
	if accessToken == "" {
		shared.RespondError(c, http.StatusUnauthorized, "order access token required", nil)
		return
	}

	result, err := h.checkout.CreatePaymentIntent(c.Request.Context(), 0, accessToken, req)
	if err != nil {
		respondPaymentIntentError(c, err)
		return
	}
	response.Success(c, result)
}

// Quote re-prices a cart without reserving stock
func (h *Handler) Quote(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.checkout.Quote(c.Request.Context(), req)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, result)
}
