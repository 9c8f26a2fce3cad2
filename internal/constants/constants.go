package constants

// Order status constants
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCompleted      = "completed"
	OrderStatusCanceled       = "canceled"
)

// Payment method constants
const (
	PaymentMethodPix  = "pix"
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// Payment provider constants
const (
	PaymentProviderStripe      = "stripe"
	PaymentProviderMercadoPago = "mercadopago"
)

// Checkout attempt stage constants
const (
	CheckoutStagePricing              = "pricing"
	CheckoutStageStockReserved        = "stock_reserved"
	CheckoutStageGatewayIntentCreated = "gateway_intent_created"
	CheckoutStageOrderUpdated         = "order_updated"
	CheckoutStageFailedStock          = "failed_stock"
	CheckoutStageFailedGateway        = "failed_gateway"
)

// Stock reservation status constants
const (
	ReservationStatusReserved = "reserved"
	ReservationStatusReleased = "released"
	ReservationStatusCaptured = "captured"
)

// Coupon discount type constants
const (
	CouponTypeFixed      = "fixed"
	CouponTypePercentage = "percentage"
)

// Interest mode constants
const (
	InterestModeFixed         = "fixed"
	InterestModeByInstallment = "by_installment"
)

// Installment rounding mode constants
const (
	RoundingModeAdjustLast = "adjust_last"
	RoundingModeTruncate   = "truncate"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Queue constants
const (
	QueueDefault         = "default"
	TaskReservationSweep = "checkout:reservation_sweep"
)

// Cache constants
const (
	RedisPrefixDefault          = "vn"
	CacheKeyActivePricingConfig = "pricing_config:active"
)

// Currency constants
const (
	SiteCurrencyDefault = "BRL"
)
