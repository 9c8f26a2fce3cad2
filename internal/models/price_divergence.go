package models

import (
	"time"
)

// PriceDivergence audit row for client/server total mismatches
type PriceDivergence struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                      // primary key
	OrderID       uint      `gorm:"not null;index" json:"order_id"`                            // offending order
	ClientAmount  Money     `gorm:"type:decimal(20,2);not null" json:"client_amount"`          // amount the client submitted
	ServerAmount  Money     `gorm:"type:decimal(20,2);not null" json:"server_amount"`          // amount the server recomputed
	Tolerance     Money     `gorm:"type:decimal(20,2);not null" json:"tolerance"`              // accepted band at the time
	PaymentMethod string    `gorm:"type:varchar(20)" json:"payment_method"`                    // requested method
	Installments  int       `gorm:"not null;default:0" json:"installments"`                    // requested installment count
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                   // creation time
}

// TableName sets the table name
func (PriceDivergence) TableName() string {
	return "price_divergences"
}
