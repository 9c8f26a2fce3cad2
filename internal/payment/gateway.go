package payment

import (
	"context"
	"strconv"
	"time"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/payment/mercadopago"
	"github.com/vitrine-next/internal/payment/stripe"

	"github.com/shopspring/decimal"
)

// IntentRequest gateway-agnostic payment intent input
type IntentRequest struct {
	OrderID        uint
	OrderNo        string
	Amount         decimal.Decimal
	Currency       string
	CustomerEmail  string
	CustomerName   string
	Installments   int
	CouponCode     string
	DiscountAmount decimal.Decimal
}

// IntentResult gateway-agnostic payment intent output. PIX fields stay
// empty for card intents and vice versa.
type IntentResult struct {
	Provider     string
	IntentID     string
	ClientSecret string
	PixQRURL     string
	PixEMV       string
	PixExpiresAt *time.Time
}

// Gateway creates payment intents with a provider
type Gateway interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*IntentResult, error)
}

// StripeCardGateway card intents via Stripe
type StripeCardGateway struct {
	cfg stripe.Config
}

// NewStripeCardGateway creates the Stripe card gateway
func NewStripeCardGateway(cfg config.StripeConfig) *StripeCardGateway {
	return &StripeCardGateway{cfg: stripe.Config{
		SecretKey:      cfg.SecretKey,
		PublishableKey: cfg.PublishableKey,
		APIBaseURL:     cfg.APIBaseURL,
	}}
}

// Name returns the provider name
func (g *StripeCardGateway) Name() string {
	return constants.PaymentProviderStripe
}

// CreateIntent creates a card payment intent
func (g *StripeCardGateway) CreateIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	result, err := stripe.CreateIntent(ctx, &g.cfg, stripe.CreateIntentInput{
		OrderID:        req.OrderID,
		OrderNo:        req.OrderNo,
		Amount:         req.Amount,
		Currency:       req.Currency,
		CustomerEmail:  req.CustomerEmail,
		Installments:   req.Installments,
		CouponCode:     req.CouponCode,
		DiscountAmount: req.DiscountAmount,
	})
	if err != nil {
		return nil, err
	}
	return &IntentResult{
		Provider:     g.Name(),
		IntentID:     result.ID,
		ClientSecret: result.ClientSecret,
	}, nil
}

// MercadoPagoPixGateway PIX charges via Mercado Pago
type MercadoPagoPixGateway struct {
	cfg              mercadopago.Config
	pixExpireMinutes int
}

// NewMercadoPagoPixGateway creates the Mercado Pago PIX gateway
func NewMercadoPagoPixGateway(cfg config.MercadoPagoConfig) *MercadoPagoPixGateway {
	expireMinutes := cfg.PixExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	return &MercadoPagoPixGateway{
		cfg: mercadopago.Config{
			AccessToken:     cfg.AccessToken,
			APIBaseURL:      cfg.APIBaseURL,
			NotificationURL: cfg.NotificationURL,
		},
		pixExpireMinutes: expireMinutes,
	}
}

// Name returns the provider name
func (g *MercadoPagoPixGateway) Name() string {
	return constants.PaymentProviderMercadoPago
}

// CreateIntent creates a PIX charge
func (g *MercadoPagoPixGateway) CreateIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	expiresAt := time.Now().Add(time.Duration(g.pixExpireMinutes) * time.Minute)
	result, err := mercadopago.CreatePixPayment(ctx, &g.cfg, mercadopago.CreatePixInput{
		OrderID:        req.OrderID,
		OrderNo:        req.OrderNo,
		Amount:         req.Amount,
		Description:    "Pedido " + req.OrderNo,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		CouponCode:     req.CouponCode,
		DiscountAmount: req.DiscountAmount,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return nil, err
	}
	intent := &IntentResult{
		Provider: g.Name(),
		IntentID: strconv.FormatInt(result.ID, 10),
		PixQRURL: result.TicketURL,
		PixEMV:   result.QRCode,
	}
	if result.ExpiresAt != nil {
		intent.PixExpiresAt = result.ExpiresAt
	} else {
		intent.PixExpiresAt = &expiresAt
	}
	return intent, nil
}
