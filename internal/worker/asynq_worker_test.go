package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/provider"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type sweepTestEnv struct {
	db       *gorm.DB
	consumer *Consumer
	order    models.Order
	variant  models.ProductVariant
}

func newSweepTestEnv(t *testing.T, name string) *sweepTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockReservation{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	product := models.Product{
		Slug:        fmt.Sprintf("product-%d", time.Now().UnixNano()),
		Name:        "Produto",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := models.ProductVariant{
		ProductID: product.ID,
		Name:      "Padrão",
		Stock:     8, // two units held by the reservation below
		IsActive:  true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	order := models.Order{
		OrderNo:  fmt.Sprintf("SWEEP-%d", time.Now().UnixNano()),
		Status:   constants.OrderStatusPendingPayment,
		Currency: constants.SiteCurrencyDefault,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	container := &provider.Container{
		OrderRepo:       repository.NewOrderRepository(db),
		VariantRepo:     repository.NewVariantRepository(db),
		ReservationRepo: repository.NewReservationRepository(db),
	}
	return &sweepTestEnv{
		db:       db,
		consumer: NewConsumer(container),
		order:    order,
		variant:  variant,
	}
}

func (env *sweepTestEnv) createReservation(t *testing.T, quantity int, expiresAt *time.Time) models.StockReservation {
	t.Helper()
	item := models.StockReservation{
		OrderID:   env.order.ID,
		VariantID: env.variant.ID,
		Quantity:  quantity,
		Status:    constants.ReservationStatusReserved,
		ExpiresAt: expiresAt,
	}
	if err := env.db.Create(&item).Error; err != nil {
		t.Fatalf("create reservation failed: %v", err)
	}
	return item
}

func (env *sweepTestEnv) sweepTask(t *testing.T) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.ReservationSweepPayload{OrderID: env.order.ID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskReservationSweep, payload)
}

func (env *sweepTestEnv) variantStock(t *testing.T) int {
	t.Helper()
	var variant models.ProductVariant
	if err := env.db.First(&variant, env.variant.ID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	return variant.Stock
}

func TestHandleReservationSweepReleasesUnpaidOrder(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_release")
	reservation := env.createReservation(t, 2, nil)

	if err := env.consumer.handleReservationSweep(context.Background(), env.sweepTask(t)); err != nil {
		t.Fatalf("handleReservationSweep error: %v", err)
	}

	if got := env.variantStock(t); got != 10 {
		t.Fatalf("expected stock returned to 10, got %d", got)
	}
	var settled models.StockReservation
	if err := env.db.First(&settled, reservation.ID).Error; err != nil {
		t.Fatalf("load reservation failed: %v", err)
	}
	if settled.Status != constants.ReservationStatusReleased {
		t.Fatalf("expected released, got %s", settled.Status)
	}
}

func TestHandleReservationSweepCapturesPaidOrder(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_capture")
	reservation := env.createReservation(t, 2, nil)
	if err := env.db.Model(&models.Order{}).
		Where("id = ?", env.order.ID).
		UpdateColumn("status", constants.OrderStatusPaid).Error; err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	if err := env.consumer.handleReservationSweep(context.Background(), env.sweepTask(t)); err != nil {
		t.Fatalf("handleReservationSweep error: %v", err)
	}

	// Paid orders keep the stock; the hold just settles as captured.
	if got := env.variantStock(t); got != 8 {
		t.Fatalf("expected stock untouched at 8, got %d", got)
	}
	var settled models.StockReservation
	if err := env.db.First(&settled, reservation.ID).Error; err != nil {
		t.Fatalf("load reservation failed: %v", err)
	}
	if settled.Status != constants.ReservationStatusCaptured {
		t.Fatalf("expected captured, got %s", settled.Status)
	}
}

func TestHandleReservationSweepIdempotent(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_idempotent")
	env.createReservation(t, 2, nil)

	if err := env.consumer.handleReservationSweep(context.Background(), env.sweepTask(t)); err != nil {
		t.Fatalf("first sweep error: %v", err)
	}
	if err := env.consumer.handleReservationSweep(context.Background(), env.sweepTask(t)); err != nil {
		t.Fatalf("second sweep error: %v", err)
	}

	// The status guard must keep the second run from returning stock again.
	if got := env.variantStock(t); got != 10 {
		t.Fatalf("expected stock 10 after repeated sweeps, got %d", got)
	}
}

func TestHandleReservationSweepNoOpenReservations(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_empty")
	if err := env.consumer.handleReservationSweep(context.Background(), env.sweepTask(t)); err != nil {
		t.Fatalf("expected no-op for order without holds, got: %v", err)
	}
}

func TestSweepExpiredReservations(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_orphan")
	expired := time.Now().Add(-time.Minute)
	env.createReservation(t, 2, &expired)

	env.consumer.sweepExpiredReservations(time.Now())

	if got := env.variantStock(t); got != 10 {
		t.Fatalf("expected orphaned hold released to 10, got %d", got)
	}
}

func TestSweepExpiredReservationsLeavesFutureHolds(t *testing.T) {
	env := newSweepTestEnv(t, "sweep_future")
	future := time.Now().Add(time.Hour)
	reservation := env.createReservation(t, 2, &future)

	env.consumer.sweepExpiredReservations(time.Now())

	if got := env.variantStock(t); got != 8 {
		t.Fatalf("expected live hold untouched at 8, got %d", got)
	}
	var open models.StockReservation
	if err := env.db.First(&open, reservation.ID).Error; err != nil {
		t.Fatalf("load reservation failed: %v", err)
	}
	if open.Status != constants.ReservationStatusReserved {
		t.Fatalf("expected still reserved, got %s", open.Status)
	}
}
