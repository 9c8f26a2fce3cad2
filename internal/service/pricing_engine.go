package service

import (
	"fmt"

	"github.com/vitrine-next/internal/constants"

	"github.com/shopspring/decimal"
)

// CartLine one resolved order line entering the pricing engine
type CartLine struct {
	VariantID uint
	Quantity  int
	UnitPrice decimal.Decimal
	IsOnSale  bool
}

// AuthorizeInput pricing engine input
type AuthorizeInput struct {
	Lines          []CartLine
	ShippingCost   decimal.Decimal
	CouponDiscount decimal.Decimal
	PaymentMethod  string
	Installments   int
}

// Authorization pricing engine output. Total carries the single final
// rounding; intermediate values are kept exact.
type Authorization struct {
	Subtotal              decimal.Decimal
	SubtotalFullPrice     decimal.Decimal
	CouponDiscount        decimal.Decimal
	MethodDiscount        decimal.Decimal
	ShippingCost          decimal.Decimal
	Total                 decimal.Decimal
	Installments          int
	InstallmentValues     []decimal.Decimal
	MonthlyRate           decimal.Decimal
	HasSaleItems          bool
	EffectiveInterestFree int
}

// InstallmentOption one entry of the public installment table
type InstallmentOption struct {
	Installments     int             `json:"installments"`
	InstallmentValue decimal.Decimal `json:"installment_value"`
	Total            decimal.Decimal `json:"total"`
	InterestFree     bool            `json:"interest_free"`
}

var oneHundred = decimal.NewFromInt(100)

// AuthorizeTotal computes the authoritative total for a cart. It is pure:
// every price, rate and flag arrives through rules and input.
func AuthorizeTotal(rules *PricingRules, input AuthorizeInput) (*Authorization, error) {
	if rules == nil {
		return nil, ErrPricingConfigMissing
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: empty cart", ErrProductUnavailable)
	}

	subtotal := decimal.Zero
	subtotalFull := decimal.Zero
	hasSaleItems := false
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid quantity for variant %d", ErrProductUnavailable, line.VariantID)
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		if line.IsOnSale {
			hasSaleItems = true
		} else {
			subtotalFull = subtotalFull.Add(lineTotal)
		}
	}

	coupon := clampDiscount(input.CouponDiscount, subtotal)
	shipping := input.ShippingCost
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}
	base := subtotal.Sub(coupon)

	result := &Authorization{
		Subtotal:          subtotal,
		SubtotalFullPrice: subtotalFull,
		CouponDiscount:    coupon,
		ShippingCost:      shipping,
		HasSaleItems:      hasSaleItems,
	}

	switch input.PaymentMethod {
	case constants.PaymentMethodPix:
		result.MethodDiscount = methodDiscount(base, subtotal, subtotalFull, rules.PixDiscountPct, rules.PixDiscountAppliesToSaleItems || !hasSaleItems)
		result.Total = base.Sub(result.MethodDiscount).Add(shipping).Round(2)
		result.Installments = 1
		result.InstallmentValues = []decimal.Decimal{result.Total}
	case constants.PaymentMethodCash:
		result.MethodDiscount = base.Mul(rules.CashDiscountPct).Div(oneHundred)
		result.Total = base.Sub(result.MethodDiscount).Add(shipping).Round(2)
		result.Installments = 1
		result.InstallmentValues = []decimal.Decimal{result.Total}
	case constants.PaymentMethodCard:
		n := input.Installments
		if n == 0 {
			n = 1
		}
		if n < 1 || n > rules.MaxInstallments {
			return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidInstallments, n, rules.MaxInstallments)
		}
		result.Installments = n
		result.EffectiveInterestFree = rules.EffectiveInterestFree(hasSaleItems)
		cardBase := base.Add(shipping)
		rate := decimal.Zero
		if n > result.EffectiveInterestFree {
			rate = rules.MonthlyRate(n)
		}
		result.MonthlyRate = rate
		result.Total = cardTotal(cardBase, rate, n)
		if n > 1 && rules.MinInstallmentValue.IsPositive() {
			if result.Total.Div(decimal.NewFromInt(int64(n))).LessThan(rules.MinInstallmentValue) {
				return nil, fmt.Errorf("%w: installment below minimum of %s", ErrInvalidInstallments, rules.MinInstallmentValue.StringFixed(2))
			}
		}
		result.InstallmentValues = InstallmentPlan(result.Total, n, rules.RoundingMode)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, input.PaymentMethod)
	}

	if result.Total.IsNegative() {
		result.Total = decimal.Zero
	}
	result.MethodDiscount = result.MethodDiscount.Round(2)
	return result, nil
}

// cardTotal amortizes base over n installments at a monthly rate in percent.
// Zero rate or a single installment charges base exactly; otherwise
// total = round(pmt * n, 2) with pmt = base*i*(1+i)^n / ((1+i)^n - 1),
// rounded once at the end.
func cardTotal(base decimal.Decimal, monthlyRatePct decimal.Decimal, n int) decimal.Decimal {
	if n <= 1 || monthlyRatePct.IsZero() {
		return base.Round(2)
	}
	i := monthlyRatePct.Div(oneHundred)
	nDec := decimal.NewFromInt(int64(n))
	factor := decimal.NewFromInt(1).Add(i).Pow(nDec)
	pmt := base.Mul(i).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return pmt.Mul(nDec).Round(2)
}

// InstallmentPlan splits a rounded total into per-installment values.
// adjust_last puts the rounding remainder on the final installment so the
// plan sums to the total exactly; truncate floors every installment to two
// decimals and lets the gateway settle the difference.
func InstallmentPlan(total decimal.Decimal, n int, roundingMode string) []decimal.Decimal {
	if n < 1 {
		n = 1
	}
	values := make([]decimal.Decimal, n)
	nDec := decimal.NewFromInt(int64(n))
	if roundingMode == constants.RoundingModeTruncate {
		per := total.Div(nDec).RoundDown(2)
		for idx := range values {
			values[idx] = per
		}
		return values
	}
	per := total.Div(nDec).Round(2)
	for idx := 0; idx < n-1; idx++ {
		values[idx] = per
	}
	values[n-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	return values
}

// ListInstallmentOptions builds the public card installment table for a
// given base amount, filtered by the minimum installment value.
func ListInstallmentOptions(rules *PricingRules, base decimal.Decimal, hasSaleItems bool) []InstallmentOption {
	if rules == nil {
		return nil
	}
	effectiveFree := rules.EffectiveInterestFree(hasSaleItems)
	options := make([]InstallmentOption, 0, rules.MaxInstallments)
	for n := 1; n <= rules.MaxInstallments; n++ {
		rate := decimal.Zero
		if n > effectiveFree {
			rate = rules.MonthlyRate(n)
		}
		total := cardTotal(base, rate, n)
		per := total.Div(decimal.NewFromInt(int64(n))).Round(2)
		if n > 1 && rules.MinInstallmentValue.IsPositive() && per.LessThan(rules.MinInstallmentValue) {
			continue
		}
		options = append(options, InstallmentOption{
			Installments:     n,
			InstallmentValue: per,
			Total:            total,
			InterestFree:     rate.IsZero(),
		})
	}
	return options
}

// methodDiscount applies a percentage discount to the coupon-adjusted base.
// When sale items are excluded the discount covers only the full-price share
// of the cart, pro-rated by subtotal_full / subtotal.
func methodDiscount(base, subtotal, subtotalFull, pct decimal.Decimal, appliesToWholeCart bool) decimal.Decimal {
	if pct.IsZero() || base.IsZero() {
		return decimal.Zero
	}
	discountable := base
	if !appliesToWholeCart {
		if subtotal.IsZero() {
			return decimal.Zero
		}
		discountable = base.Mul(subtotalFull).Div(subtotal)
	}
	return discountable.Mul(pct).Div(oneHundred)
}

func clampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}
