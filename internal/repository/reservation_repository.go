package repository

import (
	"errors"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// ReservationRepository stock reservation ledger access interface
type ReservationRepository interface {
	Create(item *models.StockReservation) error
	MarkReleased(id uint) error
	MarkCapturedByOrder(orderID uint) error
	ListReservedByOrder(orderID uint) ([]models.StockReservation, error)
	ListExpiredReserved(now time.Time, limit int) ([]models.StockReservation, error)
	WithTx(tx *gorm.DB) ReservationRepository
}

// GormReservationRepository GORM implementation
type GormReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates the reservation repository
func NewReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// WithTx binds a transaction
func (r *GormReservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	if tx == nil {
		return r
	}
	return &GormReservationRepository{db: tx}
}

// Create records one successful stock decrement
func (r *GormReservationRepository) Create(item *models.StockReservation) error {
	if item == nil {
		return errors.New("reservation is nil")
	}
	return r.db.Create(item).Error
}

// MarkReleased flips a reserved row to released. The status guard keeps the
// sweep and the in-request compensation from releasing the same row twice.
func (r *GormReservationRepository) MarkReleased(id uint) error {
	if id == 0 {
		return errors.New("invalid reservation id")
	}
	result := r.db.Model(&models.StockReservation{}).
		Where("id = ? AND status = ?", id, constants.ReservationStatusReserved).
		Update("status", constants.ReservationStatusReleased)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkCapturedByOrder settles every still reserved row of an order
func (r *GormReservationRepository) MarkCapturedByOrder(orderID uint) error {
	if orderID == 0 {
		return errors.New("invalid order id")
	}
	return r.db.Model(&models.StockReservation{}).
		Where("order_id = ? AND status = ?", orderID, constants.ReservationStatusReserved).
		Update("status", constants.ReservationStatusCaptured).Error
}

// ListReservedByOrder lists open rows of an order
func (r *GormReservationRepository) ListReservedByOrder(orderID uint) ([]models.StockReservation, error) {
	if orderID == 0 {
		return nil, errors.New("invalid order id")
	}
	var items []models.StockReservation
	err := r.db.Where("order_id = ? AND status = ?", orderID, constants.ReservationStatusReserved).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListExpiredReserved lists open rows whose deadline passed
func (r *GormReservationRepository) ListExpiredReserved(now time.Time, limit int) ([]models.StockReservation, error) {
	if limit <= 0 {
		limit = 100
	}
	var items []models.StockReservation
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", constants.ReservationStatusReserved, now).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
