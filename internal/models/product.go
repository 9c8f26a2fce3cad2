package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog product table
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // primary key
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                               // unique handle
	Name            string         `gorm:"not null" json:"name"`                                           // display name
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`      // non-sale base price
	SalePriceAmount *Money         `gorm:"type:decimal(20,2)" json:"sale_price_amount,omitempty"`          // product-level sale price
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                            // listed flag
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                              // sort weight
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                        // creation time
	UpdatedAt       time.Time      `json:"updated_at"`                                                     // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                 // soft delete time

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // variant list
}

// TableName sets the table name
func (Product) TableName() string {
	return "products"
}
