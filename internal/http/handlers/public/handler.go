package public

import (
	"github.com/vitrine-next/internal/service"
)

// Handler storefront-facing HTTP handlers
type Handler struct {
	checkout       *service.CheckoutService
	pricingConfigs *service.PricingConfigService
}

// NewHandler creates the public handler set
func NewHandler(checkout *service.CheckoutService, pricingConfigs *service.PricingConfigService) *Handler {
	return &Handler{
		checkout:       checkout,
		pricingConfigs: pricingConfigs,
	}
}
