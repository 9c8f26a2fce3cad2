package service

import (
	"strings"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService coupon resolution
type CouponService struct {
	coupons repository.CouponRepository
}

// NewCouponService creates the coupon service
func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// ResolveDiscount resolves a coupon code into a discount over the subtotal.
// Unknown, inactive or expired codes never fail the checkout: they resolve
// to a zero discount with a warn log, and the normalized code is returned
// only when the coupon actually applied.
func (s *CouponService) ResolveDiscount(code string, subtotal decimal.Decimal) (decimal.Decimal, string) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return decimal.Zero, ""
	}

	coupon, err := s.coupons.GetByCode(normalized)
	if err != nil {
		logger.Warnw("coupon_lookup_failed", "code", normalized, "error", err)
		return decimal.Zero, ""
	}
	if coupon == nil {
		logger.Warnw("coupon_not_found", "code", normalized)
		return decimal.Zero, ""
	}
	if !coupon.IsActive {
		logger.Warnw("coupon_inactive", "code", normalized)
		return decimal.Zero, ""
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		logger.Warnw("coupon_expired", "code", normalized, "expired_at", coupon.ExpiresAt)
		return decimal.Zero, ""
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.CouponTypePercentage:
		discount = subtotal.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	case constants.CouponTypeFixed:
		discount = coupon.DiscountValue.Decimal
	default:
		logger.Warnw("coupon_type_unknown", "code", normalized, "type", coupon.DiscountType)
		return decimal.Zero, ""
	}

	// Clamp to [0, subtotal]
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, normalized
}
