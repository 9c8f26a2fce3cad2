package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository product data access interface
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	ListActive() ([]models.Product, error)
	Create(item *models.Product) error
	Update(item *models.Product) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM implementation
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds a transaction
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID fetches a product with its variants
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product id")
	}
	var item models.Product
	if err := r.db.Preload("Variants").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug fetches a product by slug
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	if slug == "" {
		return nil, errors.New("slug is empty")
	}
	var item models.Product
	if err := r.db.Preload("Variants").Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListActive lists sellable products
func (r *GormProductRepository) ListActive() ([]models.Product, error) {
	var items []models.Product
	err := r.db.Preload("Variants", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("sort_order DESC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create creates a product
func (r *GormProductRepository) Create(item *models.Product) error {
	if item == nil {
		return errors.New("product is nil")
	}
	return r.db.Create(item).Error
}

// Update updates a product
func (r *GormProductRepository) Update(item *models.Product) error {
	if item == nil {
		return errors.New("product is nil")
	}
	return r.db.Save(item).Error
}
