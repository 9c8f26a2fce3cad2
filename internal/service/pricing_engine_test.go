package service

import (
	"errors"
	"testing"

	"github.com/vitrine-next/internal/constants"

	"github.com/shopspring/decimal"
)

func testRules() *PricingRules {
	return &PricingRules{
		MaxInstallments:               12,
		InterestFreeInstallments:      3,
		SaleInterestFreeInstallments:  0,
		PixDiscountPct:                decimal.NewFromInt(5),
		CashDiscountPct:               decimal.NewFromInt(3),
		PixDiscountAppliesToSaleItems: true,
		InterestMode:                  constants.InterestModeFixed,
		MonthlyRateFixed:              decimal.RequireFromString("1.99"),
		MonthlyRates:                  map[int]decimal.Decimal{},
		MinInstallmentValue:           decimal.Zero,
		RoundingMode:                  constants.RoundingModeAdjustLast,
	}
}

func singleLine(unitPrice string, qty int, onSale bool) []CartLine {
	return []CartLine{{
		VariantID: 1,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(unitPrice),
		IsOnSale:  onSale,
	}}
}

func TestAuthorizeTotalCardInterestFreeChargesExactBase(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  3,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !result.Total.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected 100.00, got %s", result.Total.String())
	}
	if !result.MonthlyRate.IsZero() {
		t.Fatalf("expected zero rate within the interest-free range, got %s", result.MonthlyRate.String())
	}
}

func TestAuthorizeTotalCardZeroRateChargesExactBase(t *testing.T) {
	rules := testRules()
	rules.MonthlyRateFixed = decimal.Zero
	result, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  6,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !result.Total.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected 100.00 for zero rate, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalCardAmortizedSixInstallments(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  6,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	// pmt = 100 * 0.0199 * 1.0199^6 / (1.0199^6 - 1), total = round(pmt*6, 2)
	if !result.Total.Equal(decimal.RequireFromString("107.08")) {
		t.Fatalf("expected 107.08, got %s", result.Total.String())
	}
	if len(result.InstallmentValues) != 6 {
		t.Fatalf("expected 6 installment values, got %d", len(result.InstallmentValues))
	}
	sum := decimal.Zero
	for _, v := range result.InstallmentValues {
		sum = sum.Add(v)
	}
	if !sum.Equal(result.Total) {
		t.Fatalf("adjust_last plan must sum to total, got %s vs %s", sum.String(), result.Total.String())
	}
}

func TestAuthorizeTotalCardByInstallmentRateWithFallback(t *testing.T) {
	rules := testRules()
	rules.InterestMode = constants.InterestModeByInstallment
	rules.MonthlyRates = map[int]decimal.Decimal{
		6: decimal.RequireFromString("1.49"),
	}

	withEntry, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  6,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !withEntry.MonthlyRate.Equal(decimal.RequireFromString("1.49")) {
		t.Fatalf("expected mapped rate 1.49, got %s", withEntry.MonthlyRate.String())
	}

	fallback, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  8,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !fallback.MonthlyRate.Equal(decimal.RequireFromString("1.99")) {
		t.Fatalf("expected fixed-rate fallback 1.99, got %s", fallback.MonthlyRate.String())
	}
}

func TestAuthorizeTotalCardRejectsInstallmentsOutOfRange(t *testing.T) {
	_, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  13,
	})
	if !errors.Is(err, ErrInvalidInstallments) {
		t.Fatalf("expected invalid installments, got: %v", err)
	}
}

func TestAuthorizeTotalCardRejectsInstallmentBelowMinimum(t *testing.T) {
	rules := testRules()
	rules.MinInstallmentValue = decimal.NewFromInt(20)
	_, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  12,
	})
	if !errors.Is(err, ErrInvalidInstallments) {
		t.Fatalf("expected invalid installments for value below minimum, got: %v", err)
	}
}

func TestAuthorizeTotalCardSaleOverrideShrinksInterestFree(t *testing.T) {
	rules := testRules()
	rules.SaleInterestFreeInstallments = 1
	result, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:         singleLine("100.00", 1, true),
		PaymentMethod: constants.PaymentMethodCard,
		Installments:  2,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if result.EffectiveInterestFree != 1 {
		t.Fatalf("expected effective interest-free 1, got %d", result.EffectiveInterestFree)
	}
	if result.MonthlyRate.IsZero() {
		t.Fatalf("expected interest on 2x sale cart with override 1")
	}
}

func TestAuthorizeTotalPixDiscount(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: constants.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !result.Total.Equal(decimal.RequireFromString("95.00")) {
		t.Fatalf("expected 95.00, got %s", result.Total.String())
	}
	if result.Installments != 1 {
		t.Fatalf("pix must settle in one installment, got %d", result.Installments)
	}
}

func TestAuthorizeTotalPixExcludesSaleItemsProRata(t *testing.T) {
	rules := testRules()
	rules.PixDiscountAppliesToSaleItems = false
	result, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines: []CartLine{
			{VariantID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("60.00"), IsOnSale: false},
			{VariantID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("40.00"), IsOnSale: true},
		},
		PaymentMethod: constants.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	// Discount covers only the full-price share: 100 * (60/100) * 5% = 3.00
	if !result.MethodDiscount.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("expected pro-rated discount 3.00, got %s", result.MethodDiscount.String())
	}
	if !result.Total.Equal(decimal.RequireFromString("97.00")) {
		t.Fatalf("expected 97.00, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalPixAllSaleCartGetsNoDiscount(t *testing.T) {
	rules := testRules()
	rules.PixDiscountAppliesToSaleItems = false
	result, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:          singleLine("80.00", 1, true),
		CouponDiscount: decimal.NewFromInt(10),
		ShippingCost:   decimal.RequireFromString("12.00"),
		PaymentMethod:  constants.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	// Every line is on sale, so the full-price share is zero and the
	// method discount collapses with it.
	if !result.MethodDiscount.IsZero() {
		t.Fatalf("expected no pix discount on an all-sale cart, got %s", result.MethodDiscount.String())
	}
	// 80 - 10 + 12, untouched by the method
	if !result.Total.Equal(decimal.RequireFromString("82.00")) {
		t.Fatalf("expected 82.00, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalPixDiscountAfterCouponBeforeShipping(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:          singleLine("100.00", 1, false),
		CouponDiscount: decimal.NewFromInt(20),
		ShippingCost:   decimal.RequireFromString("15.00"),
		PaymentMethod:  constants.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	// (100 - 20) * 0.95 + 15 = 91.00; shipping never discounted
	if !result.Total.Equal(decimal.RequireFromString("91.00")) {
		t.Fatalf("expected 91.00, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalCashDiscount(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("200.00", 1, false),
		PaymentMethod: constants.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !result.Total.Equal(decimal.RequireFromString("194.00")) {
		t.Fatalf("expected 194.00, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalClampsCouponToSubtotal(t *testing.T) {
	result, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:          singleLine("50.00", 1, false),
		CouponDiscount: decimal.NewFromInt(80),
		ShippingCost:   decimal.RequireFromString("10.00"),
		PaymentMethod:  constants.PaymentMethodCard,
		Installments:   1,
	})
	if err != nil {
		t.Fatalf("AuthorizeTotal error: %v", err)
	}
	if !result.CouponDiscount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected coupon clamped to 50, got %s", result.CouponDiscount.String())
	}
	if !result.Total.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected shipping-only total 10.00, got %s", result.Total.String())
	}
}

func TestAuthorizeTotalRejectsUnknownMethod(t *testing.T) {
	_, err := AuthorizeTotal(testRules(), AuthorizeInput{
		Lines:         singleLine("100.00", 1, false),
		PaymentMethod: "boleto",
	})
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected invalid payment method, got: %v", err)
	}
}

func TestAuthorizeTotalRejectsEmptyCart(t *testing.T) {
	_, err := AuthorizeTotal(testRules(), AuthorizeInput{
		PaymentMethod: constants.PaymentMethodPix,
	})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable, got: %v", err)
	}
}

func TestInstallmentPlanAdjustLast(t *testing.T) {
	values := InstallmentPlan(decimal.RequireFromString("100.00"), 3, constants.RoundingModeAdjustLast)
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if !values[0].Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("expected 33.33, got %s", values[0].String())
	}
	if !values[2].Equal(decimal.RequireFromString("33.34")) {
		t.Fatalf("expected remainder on last installment, got %s", values[2].String())
	}
}

func TestInstallmentPlanTruncate(t *testing.T) {
	values := InstallmentPlan(decimal.RequireFromString("100.00"), 3, constants.RoundingModeTruncate)
	for idx, v := range values {
		if !v.Equal(decimal.RequireFromString("33.33")) {
			t.Fatalf("expected 33.33 at index %d, got %s", idx, v.String())
		}
	}
}

func TestListInstallmentOptionsFiltersByMinimumValue(t *testing.T) {
	rules := testRules()
	rules.MinInstallmentValue = decimal.NewFromInt(25)
	options := ListInstallmentOptions(rules, decimal.RequireFromString("100.00"), false)
	for _, opt := range options {
		if opt.Installments > 1 && opt.InstallmentValue.LessThan(rules.MinInstallmentValue) {
			t.Fatalf("option %dx below minimum: %s", opt.Installments, opt.InstallmentValue.String())
		}
	}
	if len(options) == 0 || options[0].Installments != 1 {
		t.Fatalf("1x must always be offered, got %+v", options)
	}
	for _, opt := range options {
		if opt.Installments <= 3 && !opt.InterestFree {
			t.Fatalf("expected %dx interest free", opt.Installments)
		}
	}
}
