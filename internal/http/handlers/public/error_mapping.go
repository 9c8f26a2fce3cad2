package public

import (
	"errors"
	"net/http"

	"github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service sentinel to an HTTP response
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondError(c, rule.status, rule.msg, nil)
			return
		}
	}
	shared.RespondError(c, fallbackStatus, fallbackMsg, err)
}

var cartPricingErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPaymentMethod, status: http.StatusBadRequest, msg: "invalid payment method"},
	{target: service.ErrInvalidInstallments, status: http.StatusBadRequest, msg: "invalid installment count"},
	{target: service.ErrProductUnavailable, status: http.StatusBadRequest, msg: "product unavailable"},
	{target: service.ErrPricingConfigMissing, status: http.StatusInternalServerError, msg: "pricing configuration unavailable"},
	{target: service.ErrPricingConfigInvalid, status: http.StatusInternalServerError, msg: "pricing configuration unavailable"},
}

var paymentIntentErrorRules = append([]mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrOrderAccessDenied, status: http.StatusForbidden, msg: "order access denied"},
	{target: service.ErrOrderNotPayable, status: http.StatusBadRequest, msg: "order is not awaiting payment"},
	{target: service.ErrPriceDivergence, status: http.StatusBadRequest, msg: "order amount diverges from server pricing"},
	{target: service.ErrStockInsufficient, status: http.StatusBadRequest, msg: "insufficient stock"},
	{target: service.ErrGatewayFailed, status: http.StatusBadRequest, msg: "payment gateway request failed"},
}, cartPricingErrorRules...)

var guestOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrOrderAccessDenied, status: http.StatusForbidden, msg: "order access denied"},
}

func respondPaymentIntentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentIntentErrorRules, http.StatusInternalServerError, "payment intent creation failed")
}

func respondQuoteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartPricingErrorRules, http.StatusInternalServerError, "quote failed")
}

func respondGuestOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, guestOrderErrorRules, http.StatusInternalServerError, "order lookup failed")
}
