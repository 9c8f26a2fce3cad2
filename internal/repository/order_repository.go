package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository order data access interface
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	Create(item *models.Order) error
	Update(item *models.Order) error
	UpdateFields(id uint, fields map[string]interface{}) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM implementation
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds a transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// GetByID fetches an order with its items
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, errors.New("invalid order id")
	}
	var item models.Order
	if err := r.db.Preload("Items").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByOrderNo fetches an order by public order number
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	if orderNo == "" {
		return nil, errors.New("order no is empty")
	}
	var item models.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create creates an order
func (r *GormOrderRepository) Create(item *models.Order) error {
	if item == nil {
		return errors.New("order is nil")
	}
	return r.db.Create(item).Error
}

// Update updates an order
func (r *GormOrderRepository) Update(item *models.Order) error {
	if item == nil {
		return errors.New("order is nil")
	}
	return r.db.Save(item).Error
}

// UpdateFields updates selected columns only
func (r *GormOrderRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 {
		return errors.New("invalid order id")
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}
