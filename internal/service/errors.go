package service

import "errors"

// Checkout and pricing sentinel errors. Handlers match these with errors.Is
// to pick the HTTP status and client-facing message.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAccessDenied    = errors.New("order access denied")
	ErrOrderNotPayable      = errors.New("order is not awaiting payment")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidInstallments  = errors.New("invalid installment count")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrPriceDivergence      = errors.New("order amount diverges from server pricing")
	ErrStockInsufficient    = errors.New("insufficient stock")
	ErrGatewayFailed        = errors.New("payment gateway request failed")
	ErrPricingConfigMissing = errors.New("no active pricing configuration")
	ErrPricingConfigInvalid = errors.New("pricing configuration invalid")
)
