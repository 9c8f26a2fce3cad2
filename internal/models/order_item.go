package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem order line snapshot
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // primary key
	OrderID         uint           `gorm:"not null;index" json:"order_id"`                               // parent order
	VariantID       uint           `gorm:"not null;index" json:"variant_id"`                             // variant reference
	Name            string         `gorm:"not null" json:"name"`                                         // display name at purchase time
	Quantity        int            `gorm:"not null;default:1" json:"quantity"`                           // units
	UnitPriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price_amount"` // resolved unit price
	TotalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`     // unit price x quantity
	IsOnSale        bool           `gorm:"not null;default:false" json:"is_on_sale"`                     // resolved below the product base price
	CreatedAt       time.Time      `json:"created_at"`                                                   // creation time
	UpdatedAt       time.Time      `json:"updated_at"`                                                   // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // soft delete time
}

// TableName sets the table name
func (OrderItem) TableName() string {
	return "order_items"
}
