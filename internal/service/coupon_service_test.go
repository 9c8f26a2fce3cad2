package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestResolveDiscountPercentage(t *testing.T) {
	db := newCouponTestDB(t, "coupon_pct")
	if err := db.Create(&models.Coupon{
		Code:          "DESCONTO10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:      true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, code := svc.ResolveDiscount("desconto10", decimal.NewFromInt(200))
	if !discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20, got %s", discount.String())
	}
	if code != "DESCONTO10" {
		t.Fatalf("expected normalized code, got %q", code)
	}
}

func TestResolveDiscountCaseInsensitiveLookup(t *testing.T) {
	db := newCouponTestDB(t, "coupon_case")
	if err := db.Create(&models.Coupon{
		Code:          "FRETE20",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		IsActive:      true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, code := svc.ResolveDiscount("  frete20  ", decimal.NewFromInt(100))
	if !discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20, got %s", discount.String())
	}
	if code != "FRETE20" {
		t.Fatalf("expected FRETE20, got %q", code)
	}
}

func TestResolveDiscountClampsFixedToSubtotal(t *testing.T) {
	db := newCouponTestDB(t, "coupon_clamp")
	if err := db.Create(&models.Coupon{
		Code:          "GRANDE",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		IsActive:      true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, _ := svc.ResolveDiscount("GRANDE", decimal.NewFromInt(80))
	if !discount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected clamp to subtotal 80, got %s", discount.String())
	}
}

func TestResolveDiscountUnknownCodeIsSilentZero(t *testing.T) {
	db := newCouponTestDB(t, "coupon_unknown")
	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, code := svc.ResolveDiscount("NAOEXISTE", decimal.NewFromInt(100))
	if !discount.IsZero() || code != "" {
		t.Fatalf("expected zero discount and no code, got %s / %q", discount.String(), code)
	}
}

func TestResolveDiscountInactiveCoupon(t *testing.T) {
	db := newCouponTestDB(t, "coupon_inactive")
	if err := db.Create(&models.Coupon{
		Code:          "PAUSADO",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:      false,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	// GORM omits zero-valued fields that carry a default tag on INSERT,
	// so force the flag off after create.
	if err := db.Model(&models.Coupon{}).
		Where("code = ?", "PAUSADO").
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate coupon failed: %v", err)
	}

	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, code := svc.ResolveDiscount("PAUSADO", decimal.NewFromInt(100))
	if !discount.IsZero() || code != "" {
		t.Fatalf("expected zero discount for inactive coupon, got %s / %q", discount.String(), code)
	}
}

func TestResolveDiscountExpiredCoupon(t *testing.T) {
	db := newCouponTestDB(t, "coupon_expired")
	expired := time.Now().Add(-time.Hour)
	if err := db.Create(&models.Coupon{
		Code:          "VENCIDO",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		ExpiresAt:     &expired,
		IsActive:      true,
	}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := NewCouponService(repository.NewCouponRepository(db))
	discount, code := svc.ResolveDiscount("VENCIDO", decimal.NewFromInt(100))
	if !discount.IsZero() || code != "" {
		t.Fatalf("expected zero discount for expired coupon, got %s / %q", discount.String(), code)
	}
}

func TestResolveDiscountEmptyCode(t *testing.T) {
	svc := NewCouponService(nil)
	discount, code := svc.ResolveDiscount("   ", decimal.NewFromInt(100))
	if !discount.IsZero() || code != "" {
		t.Fatalf("expected zero discount for blank code, got %s / %q", discount.String(), code)
	}
}
