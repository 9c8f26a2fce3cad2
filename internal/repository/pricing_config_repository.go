package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// PricingConfigRepository pricing configuration data access interface
type PricingConfigRepository interface {
	GetActive() (*models.PricingConfig, error)
	GetByID(id uint) (*models.PricingConfig, error)
	Create(item *models.PricingConfig) error
	Activate(id uint) error
	WithTx(tx *gorm.DB) PricingConfigRepository
}

// GormPricingConfigRepository GORM implementation
type GormPricingConfigRepository struct {
	db *gorm.DB
}

// NewPricingConfigRepository creates the pricing config repository
func NewPricingConfigRepository(db *gorm.DB) *GormPricingConfigRepository {
	return &GormPricingConfigRepository{db: db}
}

// WithTx binds a transaction
func (r *GormPricingConfigRepository) WithTx(tx *gorm.DB) PricingConfigRepository {
	if tx == nil {
		return r
	}
	return &GormPricingConfigRepository{db: tx}
}

// GetActive fetches the single active row, nil when none is active
func (r *GormPricingConfigRepository) GetActive() (*models.PricingConfig, error) {
	var item models.PricingConfig
	err := r.db.Where("is_active = ?", true).Order("id DESC").First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByID fetches a config row
func (r *GormPricingConfigRepository) GetByID(id uint) (*models.PricingConfig, error) {
	if id == 0 {
		return nil, errors.New("invalid pricing config id")
	}
	var item models.PricingConfig
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create creates a config row
func (r *GormPricingConfigRepository) Create(item *models.PricingConfig) error {
	if item == nil {
		return errors.New("pricing config is nil")
	}
	return r.db.Create(item).Error
}

// Activate flips the given row active and every other row inactive in one
// transaction, keeping the singleton invariant
func (r *GormPricingConfigRepository) Activate(id uint) error {
	if id == 0 {
		return errors.New("invalid pricing config id")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PricingConfig{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.PricingConfig{}).
			Where("id = ?", id).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
