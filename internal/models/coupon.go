package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount coupon table. Codes are stored upper-case.
type Coupon struct {
	ID            uint           `gorm:"primarykey" json:"id"`                             // primary key
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`                 // coupon code, upper-case
	DiscountType  string         `gorm:"not null" json:"discount_type"`                    // percentage / fixed
	DiscountValue Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"` // percentage points or fixed amount
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at"`                          // expiry time, nil = never
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`           // enabled flag
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                          // creation time
	UpdatedAt     time.Time      `json:"updated_at"`                                       // update time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                   // soft delete time
}

// TableName sets the table name
func (Coupon) TableName() string {
	return "coupons"
}
