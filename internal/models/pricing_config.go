package models

import (
	"time"

	"gorm.io/gorm"
)

// PricingConfig installment/discount pricing configuration. Exactly one row
// is active at a time; the active row drives every checkout authorization.
type PricingConfig struct {
	ID                             uint           `gorm:"primarykey" json:"id"`                                                   // primary key
	Label                          string         `gorm:"not null" json:"label"`                                                  // operator-facing label
	MaxInstallments                int            `gorm:"not null;default:1" json:"max_installments"`                             // card installment cap
	InterestFreeInstallments       int            `gorm:"not null;default:1" json:"interest_free_installments"`                   // interest-free threshold
	SaleInterestFreeInstallments   int            `gorm:"not null;default:0" json:"sale_interest_free_installments"`              // override when the cart has sale items (0 = no override)
	PixDiscountPct                 Money          `gorm:"type:decimal(20,2);not null;default:0" json:"pix_discount_pct"`          // PIX discount percentage
	CashDiscountPct                Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cash_discount_pct"`         // cash discount percentage
	PixDiscountAppliesToSaleItems  bool           `gorm:"not null;default:true" json:"pix_discount_applies_to_sale_items"`        // whether sale items share the PIX discount
	InterestMode                   string         `gorm:"type:varchar(20);not null;default:'fixed'" json:"interest_mode"`         // fixed / by_installment
	MonthlyRateFixed               Money          `gorm:"type:decimal(20,4);not null;default:0" json:"monthly_rate_fixed"`        // monthly rate %, fixed mode
	MonthlyRatesJSON               string         `gorm:"type:text" json:"monthly_rates"`                                         // JSON map installments -> monthly rate %
	MinInstallmentValue            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_installment_value"`     // minimum value per installment
	RoundingMode                   string         `gorm:"type:varchar(20);not null;default:'adjust_last'" json:"rounding_mode"`   // adjust_last / truncate
	IsActive                       bool           `gorm:"not null;default:false;index" json:"is_active"`                          // active row flag
	CreatedAt                      time.Time      `gorm:"index" json:"created_at"`                                                // creation time
	UpdatedAt                      time.Time      `json:"updated_at"`                                                             // update time
	DeletedAt                      gorm.DeletedAt `gorm:"index" json:"-"`                                                         // soft delete time
}

// TableName sets the table name
func (PricingConfig) TableName() string {
	return "pricing_configs"
}
