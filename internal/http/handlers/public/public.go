package public

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// publicPricingConfig sanitized view of the active pricing configuration,
// without operator-only fields
type publicPricingConfig struct {
	MaxInstallments               int          `json:"max_installments"`
	InterestFreeInstallments      int          `json:"interest_free_installments"`
	SaleInterestFreeInstallments  int          `json:"sale_interest_free_installments"`
	PixDiscountPct                models.Money `json:"pix_discount_pct"`
	CashDiscountPct               models.Money `json:"cash_discount_pct"`
	PixDiscountAppliesToSaleItems bool         `json:"pix_discount_applies_to_sale_items"`
	MinInstallmentValue           models.Money `json:"min_installment_value"`
}

// InstallmentPlans lists the card installment table for an amount
func (h *Handler) InstallmentPlans(c *gin.Context) {
	rawAmount := strings.TrimSpace(c.Query("amount"))
	if rawAmount == "" {
		shared.RespondError(c, http.StatusBadRequest, "amount is required", nil)
		return
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		shared.RespondError(c, http.StatusBadRequest, "amount is invalid", nil)
		return
	}
	hasSaleItems, _ := strconv.ParseBool(strings.TrimSpace(c.Query("has_sale_items")))

	rules, err := h.pricingConfigs.GetActiveRules(c.Request.Context())
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, gin.H{
		"amount":  models.NewMoneyFromDecimal(amount),
		"options": service.ListInstallmentOptions(rules, amount, hasSaleItems),
	})
}

// PricingConfig returns the public view of the active pricing configuration
func (h *Handler) PricingConfig(c *gin.Context) {
	cfg, err := h.pricingConfigs.GetActive(c.Request.Context())
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, publicPricingConfig{
		MaxInstallments:               cfg.MaxInstallments,
		InterestFreeInstallments:      cfg.InterestFreeInstallments,
		SaleInterestFreeInstallments:  cfg.SaleInterestFreeInstallments,
		PixDiscountPct:                cfg.PixDiscountPct,
		CashDiscountPct:               cfg.CashDiscountPct,
		PixDiscountAppliesToSaleItems: cfg.PixDiscountAppliesToSaleItems,
		MinInstallmentValue:           cfg.MinInstallmentValue,
	})
}
