package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/payment"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentIntentProduct one cart line as submitted by the client
type PaymentIntentProduct struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreatePaymentIntentRequest payment intent request body
type CreatePaymentIntentRequest struct {
	OrderID       uint                   `json:"order_id" binding:"required"`
	Amount        decimal.Decimal        `json:"amount" binding:"required"`
	PaymentMethod string                 `json:"payment_method" binding:"required"`
	Installments  int                    `json:"installments"`
	CustomerEmail string                 `json:"customer_email" binding:"required"`
	CustomerName  string                 `json:"customer_name" binding:"required"`
	Products      []PaymentIntentProduct `json:"products" binding:"required"`
	CouponCode    string                 `json:"coupon_code"`

	// OrderAccessToken authorizes guest orders in place of a bearer token
	OrderAccessToken string `json:"order_access_token"`
}

// PaymentIntentResponse payment intent response body
type PaymentIntentResponse struct {
	ClientSecret    string       `json:"client_secret,omitempty"`
	PaymentIntentID string       `json:"payment_intent_id"`
	Amount          models.Money `json:"amount"`
	PixQRURL        string       `json:"pix_qr_url,omitempty"`
	PixEMV          string       `json:"pix_emv,omitempty"`
	PixExpiresAt    *time.Time   `json:"pix_expires_at,omitempty"`
}

// QuoteRequest pricing preview request body
type QuoteRequest struct {
	Products   []PaymentIntentProduct `json:"products" binding:"required"`
	CouponCode string                 `json:"coupon_code"`
	Shipping   decimal.Decimal        `json:"shipping"`
}

// QuoteResult pricing preview for a cart before any order is touched
type QuoteResult struct {
	Subtotal       models.Money        `json:"subtotal"`
	CouponDiscount models.Money        `json:"coupon_discount"`
	CouponCode     string              `json:"coupon_code,omitempty"`
	ShippingCost   models.Money        `json:"shipping_cost"`
	PixTotal       models.Money        `json:"pix_total"`
	CashTotal      models.Money        `json:"cash_total"`
	HasSaleItems   bool                `json:"has_sale_items"`
	CardOptions    []InstallmentOption `json:"card_options"`
}

// CheckoutService re-prices carts, reserves stock and opens gateway intents
type CheckoutService struct {
	orders         repository.OrderRepository
	variants       repository.VariantRepository
	reservations   repository.ReservationRepository
	divergences    repository.DivergenceRepository
	pricingConfigs *PricingConfigService
	coupons        *CouponService
	gateways       map[string]payment.Gateway
	queue          *queue.Client
	reservationTTL time.Duration
}

// NewCheckoutService creates the checkout service. gateways is keyed by
// payment method.
func NewCheckoutService(
	orders repository.OrderRepository,
	variants repository.VariantRepository,
	reservations repository.ReservationRepository,
	divergences repository.DivergenceRepository,
	pricingConfigs *PricingConfigService,
	coupons *CouponService,
	gateways map[string]payment.Gateway,
	queueClient *queue.Client,
	reservationTTL time.Duration,
) *CheckoutService {
	if reservationTTL <= 0 {
		reservationTTL = 15 * time.Minute
	}
	return &CheckoutService{
		orders:         orders,
		variants:       variants,
		reservations:   reservations,
		divergences:    divergences,
		pricingConfigs: pricingConfigs,
		coupons:        coupons,
		gateways:       gateways,
		queue:          queueClient,
		reservationTTL: reservationTTL,
	}
}

// CreatePaymentIntent runs the full checkout authorization: re-price the
// cart from the database, reconcile the client amount, reserve stock line by
// line, open the gateway intent and write the result back to the order.
// Every stock decrement taken before a later failure is compensated in
// reverse order before the error is returned.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, userID uint, accessToken string, req CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	order, err := s.loadAuthorizedOrder(req.OrderID, userID, accessToken)
	if err != nil {
		return nil, err
	}

	switch req.PaymentMethod {
	case constants.PaymentMethodPix:
		req.Installments = 1
	case constants.PaymentMethodCard:
		if req.Installments == 0 {
			req.Installments = 1
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	lines, err := s.resolveCartLines(req.Products)
	if err != nil {
		return nil, err
	}

	rules, err := s.pricingConfigs.GetActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	couponDiscount, couponCode := s.coupons.ResolveDiscount(req.CouponCode, subtotal)

	auth, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:          lines,
		ShippingCost:   order.ShippingCost.Decimal,
		CouponDiscount: couponDiscount,
		PaymentMethod:  req.PaymentMethod,
		Installments:   req.Installments,
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("checkout_stage",
		"order_no", order.OrderNo,
		"stage", constants.CheckoutStagePricing,
		"total", auth.Total.StringFixed(2),
	)

	if err := s.reconcileAmount(order, req, auth.Total); err != nil {
		return nil, err
	}

	reserved, err := s.reserveStock(order, lines)
	if err != nil {
		return nil, err
	}
	logger.Infow("checkout_stage",
		"order_no", order.OrderNo,
		"stage", constants.CheckoutStageStockReserved,
		"reservations", len(reserved),
	)

	gateway, ok := s.gateways[req.PaymentMethod]
	if !ok || gateway == nil {
		s.releaseReservations(order.OrderNo, reserved)
		return nil, fmt.Errorf("%w: no gateway for method %q", ErrGatewayFailed, req.PaymentMethod)
	}
	intent, err := gateway.CreateIntent(ctx, payment.IntentRequest{
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		Amount:         auth.Total,
		Currency:       order.Currency,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		Installments:   auth.Installments,
		CouponCode:     couponCode,
		DiscountAmount: auth.CouponDiscount,
	})
	if err != nil {
		logger.Warnw("checkout_stage",
			"order_no", order.OrderNo,
			"stage", constants.CheckoutStageFailedGateway,
			"error", err,
		)
		s.releaseReservations(order.OrderNo, reserved)
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}
	logger.Infow("checkout_stage",
		"order_no", order.OrderNo,
		"stage", constants.CheckoutStageGatewayIntentCreated,
		"provider", intent.Provider,
		"intent_id", intent.IntentID,
	)

	fields := map[string]interface{}{
		"provider":        intent.Provider,
		"transaction_id":  intent.IntentID,
		"payment_method":  req.PaymentMethod,
		"installments":    auth.Installments,
		"subtotal":        models.NewMoneyFromDecimal(auth.Subtotal),
		"discount_amount": models.NewMoneyFromDecimal(auth.CouponDiscount),
		"total_amount":    models.NewMoneyFromDecimal(auth.Total),
		"coupon_code":     couponCode,
		"customer_email":  req.CustomerEmail,
		"customer_name":   req.CustomerName,
	}
	if intent.PixExpiresAt != nil {
		fields["expires_at"] = intent.PixExpiresAt
	}
	if err := s.orders.UpdateFields(order.ID, fields); err != nil {
		// The gateway intent exists but the order row is stale. Keep the
		// reservations and surface the error; the sweep handles the hold.
		logger.Errorw("checkout_order_update_failed", "order_no", order.OrderNo, "error", err)
		return nil, err
	}
	logger.Infow("checkout_stage",
		"order_no", order.OrderNo,
		"stage", constants.CheckoutStageOrderUpdated,
	)

	if err := s.queue.EnqueueReservationSweep(queue.ReservationSweepPayload{OrderID: order.ID}, s.reservationTTL); err != nil {
		logger.Warnw("reservation_sweep_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}

	return &PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.IntentID,
		Amount:          models.NewMoneyFromDecimal(auth.Total),
		PixQRURL:        intent.PixQRURL,
		PixEMV:          intent.PixEMV,
		PixExpiresAt:    intent.PixExpiresAt,
	}, nil
}

// Quote re-prices a cart without touching stock or any gateway
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	lines, err := s.resolveCartLines(req.Products)
	if err != nil {
		return nil, err
	}
	rules, err := s.pricingConfigs.GetActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	hasSaleItems := false
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		if line.IsOnSale {
			hasSaleItems = true
		}
	}
	couponDiscount, couponCode := s.coupons.ResolveDiscount(req.CouponCode, subtotal)

	pixAuth, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:          lines,
		ShippingCost:   req.Shipping,
		CouponDiscount: couponDiscount,
		PaymentMethod:  constants.PaymentMethodPix,
	})
	if err != nil {
		return nil, err
	}
	cashAuth, err := AuthorizeTotal(rules, AuthorizeInput{
		Lines:          lines,
		ShippingCost:   req.Shipping,
		CouponDiscount: couponDiscount,
		PaymentMethod:  constants.PaymentMethodCash,
	})
	if err != nil {
		return nil, err
	}

	shipping := req.Shipping
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}
	cardBase := clampDiscount(couponDiscount, subtotal)
	cardBase = subtotal.Sub(cardBase).Add(shipping)

	return &QuoteResult{
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		CouponDiscount: models.NewMoneyFromDecimal(couponDiscount),
		CouponCode:     couponCode,
		ShippingCost:   models.NewMoneyFromDecimal(shipping),
		PixTotal:       models.NewMoneyFromDecimal(pixAuth.Total),
		CashTotal:      models.NewMoneyFromDecimal(cashAuth.Total),
		HasSaleItems:   hasSaleItems,
		CardOptions:    ListInstallmentOptions(rules, cardBase, hasSaleItems),
	}, nil
}

// GetGuestOrder returns an order addressed by order number after verifying
// the guest access token
func (s *CheckoutService) GetGuestOrder(orderNo string, accessToken string) (*models.Order, error) {
	order, err := s.orders.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !VerifyOrderAccessToken(order.AccessTokenHash, accessToken) {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *CheckoutService) loadAuthorizedOrder(orderID uint, userID uint, accessToken string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != 0 {
		if userID == 0 || order.UserID != userID {
			return nil, ErrOrderAccessDenied
		}
	} else if !VerifyOrderAccessToken(order.AccessTokenHash, accessToken) {
		return nil, ErrOrderAccessDenied
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderNotPayable
	}
	return order, nil
}

// resolveCartLines loads variants and resolves the effective unit price:
// variant sale price first, then variant base price, then product price plus
// the variant modifier. A line is on sale when the resolved price is below
// its full price.
func (s *CheckoutService) resolveCartLines(products []PaymentIntentProduct) ([]CartLine, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: empty cart", ErrProductUnavailable)
	}
	ids := make([]uint, 0, len(products))
	for _, item := range products {
		if item.VariantID == 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid cart line", ErrProductUnavailable)
		}
		ids = append(ids, item.VariantID)
	}
	variants, err := s.variants.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.ProductVariant, len(variants))
	for idx := range variants {
		byID[variants[idx].ID] = &variants[idx]
	}

	lines := make([]CartLine, 0, len(products))
	for _, item := range products {
		variant, ok := byID[item.VariantID]
		if !ok || !variant.IsActive || variant.Product == nil || !variant.Product.IsActive {
			return nil, fmt.Errorf("%w: variant %d", ErrProductUnavailable, item.VariantID)
		}
		unit, onSale := resolveVariantPrice(variant)
		lines = append(lines, CartLine{
			VariantID: variant.ID,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			IsOnSale:  onSale,
		})
	}
	return lines, nil
}

func resolveVariantPrice(variant *models.ProductVariant) (unit decimal.Decimal, onSale bool) {
	fullPrice := variant.Product.PriceAmount.Decimal.Add(variant.PriceModifierAmount.Decimal)
	if variant.BasePriceAmount != nil {
		fullPrice = variant.BasePriceAmount.Decimal
	}
	switch {
	case variant.SalePriceAmount != nil:
		unit = variant.SalePriceAmount.Decimal
	case variant.BasePriceAmount != nil:
		unit = variant.BasePriceAmount.Decimal
	case variant.Product.SalePriceAmount != nil:
		unit = variant.Product.SalePriceAmount.Decimal.Add(variant.PriceModifierAmount.Decimal)
	default:
		unit = fullPrice
	}
	return unit, unit.LessThan(fullPrice)
}

// reconcileAmount compares the client-submitted amount with the recomputed
// total. Outside the tolerance band the request is rejected and the
// divergence is recorded; the client amount is never adopted.
func (s *CheckoutService) reconcileAmount(order *models.Order, req CreatePaymentIntentRequest, serverTotal decimal.Decimal) error {
	tolerance := decimal.Max(decimal.NewFromFloat(0.10), serverTotal.Mul(decimal.NewFromFloat(0.01)))
	diff := req.Amount.Sub(serverTotal).Abs()
	if diff.LessThanOrEqual(tolerance) {
		return nil
	}

	logger.Warnw("checkout_price_divergence",
		"order_no", order.OrderNo,
		"client_amount", req.Amount.StringFixed(2),
		"server_amount", serverTotal.StringFixed(2),
		"tolerance", tolerance.StringFixed(2),
		"payment_method", req.PaymentMethod,
		"installments", req.Installments,
	)
	record := &models.PriceDivergence{
		OrderID:       order.ID,
		ClientAmount:  models.NewMoneyFromDecimal(req.Amount),
		ServerAmount:  models.NewMoneyFromDecimal(serverTotal),
		Tolerance:     models.NewMoneyFromDecimal(tolerance),
		PaymentMethod: req.PaymentMethod,
		Installments:  req.Installments,
	}
	if err := s.divergences.Create(record); err != nil {
		logger.Errorw("price_divergence_record_failed", "order_no", order.OrderNo, "error", err)
	}
	return ErrPriceDivergence
}

// reserveStock takes stock line by line with conditional decrements. On the
// first insufficient line every prior decrement is compensated in reverse
// order and ErrStockInsufficient is returned.
func (s *CheckoutService) reserveStock(order *models.Order, lines []CartLine) ([]*models.StockReservation, error) {
	expiresAt := time.Now().Add(s.reservationTTL)
	reserved := make([]*models.StockReservation, 0, len(lines))
	for _, line := range lines {
		affected, err := s.variants.DecrementStock(line.VariantID, line.Quantity)
		if err == nil && affected == 0 {
			err = fmt.Errorf("%w: variant %d", ErrStockInsufficient, line.VariantID)
		}
		if err != nil {
			logger.Warnw("checkout_stage",
				"order_no", order.OrderNo,
				"stage", constants.CheckoutStageFailedStock,
				"variant_id", line.VariantID,
				"quantity", line.Quantity,
				"error", err,
			)
			s.releaseReservations(order.OrderNo, reserved)
			return nil, err
		}

		reservation := &models.StockReservation{
			OrderID:   order.ID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			Status:    constants.ReservationStatusReserved,
			ExpiresAt: &expiresAt,
		}
		if err := s.reservations.Create(reservation); err != nil {
			logger.Errorw("reservation_record_failed",
				"order_no", order.OrderNo,
				"variant_id", line.VariantID,
				"error", err,
			)
			if _, incErr := s.variants.IncrementStock(line.VariantID, line.Quantity); incErr != nil {
				logger.Errorw("stock_release_failed",
					"order_no", order.OrderNo,
					"variant_id", line.VariantID,
					"error", incErr,
				)
			}
			s.releaseReservations(order.OrderNo, reserved)
			return nil, err
		}
		reserved = append(reserved, reservation)
	}
	return reserved, nil
}

// releaseReservations compensates completed decrements in reverse order.
// The ledger row is flipped before the stock increment so a racing sweep
// cannot return the same units twice.
func (s *CheckoutService) releaseReservations(orderNo string, reservations []*models.StockReservation) {
	for idx := len(reservations) - 1; idx >= 0; idx-- {
		reservation := reservations[idx]
		if err := s.reservations.MarkReleased(reservation.ID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Errorw("reservation_release_failed",
					"order_no", orderNo,
					"reservation_id", reservation.ID,
					"error", err,
				)
			}
			continue
		}
		if _, err := s.variants.IncrementStock(reservation.VariantID, reservation.Quantity); err != nil {
			logger.Errorw("stock_release_failed",
				"order_no", orderNo,
				"variant_id", reservation.VariantID,
				"quantity", reservation.Quantity,
				"error", err,
			)
		}
	}
}
