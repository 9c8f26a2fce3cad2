package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricingRules validated, engine-ready view of the active pricing
// configuration. Percentages stay in percent form (5 means 5%).
type PricingRules struct {
	MaxInstallments               int
	InterestFreeInstallments      int
	SaleInterestFreeInstallments  int
	PixDiscountPct                decimal.Decimal
	CashDiscountPct               decimal.Decimal
	PixDiscountAppliesToSaleItems bool
	InterestMode                  string
	MonthlyRateFixed              decimal.Decimal
	MonthlyRates                  map[int]decimal.Decimal
	MinInstallmentValue           decimal.Decimal
	RoundingMode                  string
}

// ParsePricingRules converts a stored config row into engine rules,
// rejecting rows that violate the configuration invariants.
func ParsePricingRules(cfg *models.PricingConfig) (*PricingRules, error) {
	if cfg == nil {
		return nil, ErrPricingConfigMissing
	}
	if cfg.MaxInstallments < 1 {
		return nil, fmt.Errorf("%w: max_installments must be >= 1", ErrPricingConfigInvalid)
	}
	if cfg.InterestFreeInstallments < 1 || cfg.InterestFreeInstallments > cfg.MaxInstallments {
		return nil, fmt.Errorf("%w: interest_free_installments out of range", ErrPricingConfigInvalid)
	}
	if cfg.SaleInterestFreeInstallments < 0 || cfg.SaleInterestFreeInstallments > cfg.MaxInstallments {
		return nil, fmt.Errorf("%w: sale_interest_free_installments out of range", ErrPricingConfigInvalid)
	}
	if cfg.PixDiscountPct.IsNegative() || cfg.PixDiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: pix_discount_pct out of range", ErrPricingConfigInvalid)
	}
	if cfg.CashDiscountPct.IsNegative() || cfg.CashDiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: cash_discount_pct out of range", ErrPricingConfigInvalid)
	}
	switch cfg.InterestMode {
	case constants.InterestModeFixed, constants.InterestModeByInstallment:
	default:
		return nil, fmt.Errorf("%w: unknown interest_mode %q", ErrPricingConfigInvalid, cfg.InterestMode)
	}
	switch cfg.RoundingMode {
	case constants.RoundingModeAdjustLast, constants.RoundingModeTruncate:
	default:
		return nil, fmt.Errorf("%w: unknown rounding_mode %q", ErrPricingConfigInvalid, cfg.RoundingMode)
	}
	if cfg.MonthlyRateFixed.IsNegative() {
		return nil, fmt.Errorf("%w: monthly_rate_fixed is negative", ErrPricingConfigInvalid)
	}
	if cfg.MinInstallmentValue.IsNegative() {
		return nil, fmt.Errorf("%w: min_installment_value is negative", ErrPricingConfigInvalid)
	}

	rates, err := parseMonthlyRates(cfg.MonthlyRatesJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly_rates: %v", ErrPricingConfigInvalid, err)
	}

	return &PricingRules{
		MaxInstallments:               cfg.MaxInstallments,
		InterestFreeInstallments:      cfg.InterestFreeInstallments,
		SaleInterestFreeInstallments:  cfg.SaleInterestFreeInstallments,
		PixDiscountPct:                cfg.PixDiscountPct.Decimal,
		CashDiscountPct:               cfg.CashDiscountPct.Decimal,
		PixDiscountAppliesToSaleItems: cfg.PixDiscountAppliesToSaleItems,
		InterestMode:                  cfg.InterestMode,
		MonthlyRateFixed:              cfg.MonthlyRateFixed.Decimal,
		MonthlyRates:                  rates,
		MinInstallmentValue:           cfg.MinInstallmentValue.Decimal,
		RoundingMode:                  cfg.RoundingMode,
	}, nil
}

// MonthlyRate returns the monthly interest rate in percent for a given
// installment count. In by_installment mode a missing entry falls back to
// the fixed rate.
func (r *PricingRules) MonthlyRate(installments int) decimal.Decimal {
	if r.InterestMode == constants.InterestModeByInstallment {
		if rate, ok := r.MonthlyRates[installments]; ok {
			return rate
		}
	}
	return r.MonthlyRateFixed
}

// EffectiveInterestFree returns the interest-free threshold for a cart,
// honoring the sale-cart override when one is configured.
func (r *PricingRules) EffectiveInterestFree(hasSaleItems bool) int {
	if hasSaleItems && r.SaleInterestFreeInstallments > 0 {
		return r.SaleInterestFreeInstallments
	}
	return r.InterestFreeInstallments
}

func parseMonthlyRates(raw string) (map[int]decimal.Decimal, error) {
	rates := map[int]decimal.Decimal{}
	if raw == "" {
		return rates, nil
	}
	var parsed map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	for key, rate := range parsed {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid installment key %q", key)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("negative rate for %d installments", n)
		}
		rates[n] = rate
	}
	return rates, nil
}
