package models

import (
	"time"

	"gorm.io/gorm"
)

// Order order table. Rows are created by the storefront checkout flow; the
// payment-intent path is the last writer of price and gateway fields.
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // primary key
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // order number
	UserID          uint           `gorm:"index;not null" json:"user_id,omitempty"`                       // owner user id (0 = guest)
	CustomerEmail   string         `gorm:"index" json:"customer_email,omitempty"`                         // customer email
	CustomerName    string         `json:"customer_name,omitempty"`                                       // customer name
	AccessTokenHash string         `gorm:"type:varchar(200)" json:"-"`                                    // bcrypt hash of the guest access token
	Status          string         `gorm:"index;not null" json:"status"`                                  // order status
	Currency        string         `gorm:"not null" json:"currency"`                                      // currency code
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // recomputed item subtotal
	ShippingCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`    // shipping amount
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // coupon discount
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // authorized total
	CouponCode      string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                 // applied coupon code
	Provider        string         `gorm:"type:varchar(32);index" json:"provider,omitempty"`              // payment gateway name
	TransactionID   string         `gorm:"type:varchar(128);index" json:"transaction_id,omitempty"`       // gateway intent/charge id
	PaymentMethod   string         `gorm:"type:varchar(20)" json:"payment_method,omitempty"`              // pix / card
	Installments    int            `gorm:"not null;default:0" json:"installments,omitempty"`              // card installment count
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                       // payment expiry
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                          // payment time
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // creation time
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // soft delete time

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // order lines
}

// TableName sets the table name
func (Order) TableName() string {
	return "orders"
}
