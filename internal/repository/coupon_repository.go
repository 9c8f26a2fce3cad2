package repository

import (
	"errors"
	"strings"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// CouponRepository coupon data access interface
type CouponRepository interface {
	GetByCode(code string) (*models.Coupon, error)
	Create(item *models.Coupon) error
	Update(item *models.Coupon) error
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository GORM implementation
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates the coupon repository
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx binds a transaction
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByCode fetches a coupon. Codes are stored upper-case so lookup
// normalizes the same way, nil when unknown.
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errors.New("coupon code is empty")
	}
	var item models.Coupon
	if err := r.db.Where("code = ?", code).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create creates a coupon, code normalized upper-case
func (r *GormCouponRepository) Create(item *models.Coupon) error {
	if item == nil {
		return errors.New("coupon is nil")
	}
	item.Code = strings.ToUpper(strings.TrimSpace(item.Code))
	return r.db.Create(item).Error
}

// Update updates a coupon
func (r *GormCouponRepository) Update(item *models.Coupon) error {
	if item == nil {
		return errors.New("coupon is nil")
	}
	item.Code = strings.ToUpper(strings.TrimSpace(item.Code))
	return r.db.Save(item).Error
}
