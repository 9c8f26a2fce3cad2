package models

import (
	"time"
)

// StockReservation durable reservation ledger row. Written right after each
// successful stock decrement so a crash between decrement and compensation
// leaves a sweepable trace instead of silently leaked stock.
type StockReservation struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                 // primary key
	OrderID   uint       `gorm:"not null;index" json:"order_id"`                       // checkout order
	VariantID uint       `gorm:"not null;index" json:"variant_id"`                     // decremented variant
	Quantity  int        `gorm:"not null" json:"quantity"`                             // decremented units
	Status    string     `gorm:"type:varchar(20);not null;index" json:"status"`        // reserved / released / captured
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`                              // sweep deadline while still reserved
	CreatedAt time.Time  `gorm:"index" json:"created_at"`                              // creation time
	UpdatedAt time.Time  `json:"updated_at"`                                           // update time
}

// TableName sets the table name
func (StockReservation) TableName() string {
	return "stock_reservations"
}
