package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant sellable variant table (price + stock dimension)
type ProductVariant struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                              // primary key
	ProductID           uint           `gorm:"not null;index" json:"product_id"`                                  // parent product
	Name                string         `gorm:"not null" json:"name"`                                              // variant display name
	BasePriceAmount     *Money         `gorm:"type:decimal(20,2)" json:"base_price_amount,omitempty"`             // variant base price, overrides product price
	SalePriceAmount     *Money         `gorm:"type:decimal(20,2)" json:"sale_price_amount,omitempty"`             // variant sale price, highest priority
	PriceModifierAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_modifier_amount"` // delta on the product price when no variant price is set
	Stock               int            `gorm:"not null;default:0" json:"stock"`                                   // available units
	IsActive            bool           `gorm:"default:true;index" json:"is_active"`                               // sellable flag
	SortOrder           int            `gorm:"default:0;index" json:"sort_order"`                                 // sort weight
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                           // creation time
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                           // update time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                    // soft delete time

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // parent product
}

// TableName sets the table name
func (ProductVariant) TableName() string {
	return "product_variants"
}
