package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// DivergenceRepository price divergence audit access interface
type DivergenceRepository interface {
	Create(item *models.PriceDivergence) error
	ListByOrder(orderID uint) ([]models.PriceDivergence, error)
	WithTx(tx *gorm.DB) DivergenceRepository
}

// GormDivergenceRepository GORM implementation
type GormDivergenceRepository struct {
	db *gorm.DB
}

// NewDivergenceRepository creates the divergence repository
func NewDivergenceRepository(db *gorm.DB) *GormDivergenceRepository {
	return &GormDivergenceRepository{db: db}
}

// WithTx binds a transaction
func (r *GormDivergenceRepository) WithTx(tx *gorm.DB) DivergenceRepository {
	if tx == nil {
		return r
	}
	return &GormDivergenceRepository{db: tx}
}

// Create records one rejected client amount
func (r *GormDivergenceRepository) Create(item *models.PriceDivergence) error {
	if item == nil {
		return errors.New("divergence is nil")
	}
	return r.db.Create(item).Error
}

// ListByOrder lists divergences of an order
func (r *GormDivergenceRepository) ListByOrder(orderID uint) ([]models.PriceDivergence, error) {
	if orderID == 0 {
		return nil, errors.New("invalid order id")
	}
	var items []models.PriceDivergence
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
