package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newReservationTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.StockReservation{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestMarkReleased(t *testing.T) {
	db := newReservationTestDB(t, "reservation_release")
	repo := NewReservationRepository(db)

	item := &models.StockReservation{
		OrderID:   1,
		VariantID: 2,
		Quantity:  3,
		Status:    constants.ReservationStatusReserved,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := repo.MarkReleased(item.ID); err != nil {
		t.Fatalf("MarkReleased error: %v", err)
	}

	var got models.StockReservation
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("load reservation failed: %v", err)
	}
	if got.Status != constants.ReservationStatusReleased {
		t.Fatalf("expected released, got %s", got.Status)
	}
}

func TestMarkReleasedGuardsAgainstDoubleRelease(t *testing.T) {
	db := newReservationTestDB(t, "reservation_double")
	repo := NewReservationRepository(db)

	item := &models.StockReservation{
		OrderID:   1,
		VariantID: 2,
		Quantity:  1,
		Status:    constants.ReservationStatusReserved,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := repo.MarkReleased(item.ID); err != nil {
		t.Fatalf("first MarkReleased error: %v", err)
	}
	// A second caller must see the settled row and back off.
	if err := repo.MarkReleased(item.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found on double release, got: %v", err)
	}
}

func TestMarkReleasedSkipsCapturedRows(t *testing.T) {
	db := newReservationTestDB(t, "reservation_captured")
	repo := NewReservationRepository(db)

	item := &models.StockReservation{
		OrderID:   1,
		VariantID: 2,
		Quantity:  1,
		Status:    constants.ReservationStatusCaptured,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := repo.MarkReleased(item.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected captured row to be untouchable, got: %v", err)
	}
}

func TestMarkCapturedByOrder(t *testing.T) {
	db := newReservationTestDB(t, "reservation_capture")
	repo := NewReservationRepository(db)

	for i := 0; i < 2; i++ {
		if err := repo.Create(&models.StockReservation{
			OrderID:   5,
			VariantID: uint(i + 1),
			Quantity:  1,
			Status:    constants.ReservationStatusReserved,
		}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if err := repo.Create(&models.StockReservation{
		OrderID:   5,
		VariantID: 3,
		Quantity:  1,
		Status:    constants.ReservationStatusReleased,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := repo.MarkCapturedByOrder(5); err != nil {
		t.Fatalf("MarkCapturedByOrder error: %v", err)
	}

	var captured int64
	if err := db.Model(&models.StockReservation{}).
		Where("order_id = ? AND status = ?", 5, constants.ReservationStatusCaptured).
		Count(&captured).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if captured != 2 {
		t.Fatalf("expected 2 captured rows, got %d", captured)
	}

	var released int64
	if err := db.Model(&models.StockReservation{}).
		Where("order_id = ? AND status = ?", 5, constants.ReservationStatusReleased).
		Count(&released).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if released != 1 {
		t.Fatalf("released row must stay released, got %d", released)
	}
}

func TestListExpiredReserved(t *testing.T) {
	db := newReservationTestDB(t, "reservation_expired")
	repo := NewReservationRepository(db)

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	fixtures := []models.StockReservation{
		{OrderID: 1, VariantID: 1, Quantity: 1, Status: constants.ReservationStatusReserved, ExpiresAt: &past},
		{OrderID: 2, VariantID: 2, Quantity: 1, Status: constants.ReservationStatusReserved, ExpiresAt: &future},
		{OrderID: 3, VariantID: 3, Quantity: 1, Status: constants.ReservationStatusReleased, ExpiresAt: &past},
		{OrderID: 4, VariantID: 4, Quantity: 1, Status: constants.ReservationStatusReserved},
	}
	for idx := range fixtures {
		if err := repo.Create(&fixtures[idx]); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	items, err := repo.ListExpiredReserved(now, 0)
	if err != nil {
		t.Fatalf("ListExpiredReserved error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 expired row, got %d", len(items))
	}
	if items[0].OrderID != 1 {
		t.Fatalf("expected order 1, got %d", items[0].OrderID)
	}
}

func TestListReservedByOrder(t *testing.T) {
	db := newReservationTestDB(t, "reservation_by_order")
	repo := NewReservationRepository(db)

	if err := repo.Create(&models.StockReservation{
		OrderID: 9, VariantID: 1, Quantity: 2, Status: constants.ReservationStatusReserved,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := repo.Create(&models.StockReservation{
		OrderID: 9, VariantID: 2, Quantity: 1, Status: constants.ReservationStatusCaptured,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	items, err := repo.ListReservedByOrder(9)
	if err != nil {
		t.Fatalf("ListReservedByOrder error: %v", err)
	}
	if len(items) != 1 || items[0].VariantID != 1 {
		t.Fatalf("expected only the open row, got %+v", items)
	}
}
