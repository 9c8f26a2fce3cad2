package repository

import (
	"errors"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// VariantRepository product variant data access interface
type VariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	Create(item *models.ProductVariant) error
	Update(item *models.ProductVariant) error
	DecrementStock(variantID uint, quantity int) (int64, error)
	IncrementStock(variantID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository GORM implementation
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository creates the variant repository
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx binds a transaction
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// GetByID fetches a variant with its parent product
func (r *GormVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var item models.ProductVariant
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByIDs fetches variants in batch, parent products preloaded
func (r *GormVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}
	var items []models.ProductVariant
	if err := r.db.Preload("Product").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByProduct lists variants of a product
func (r *GormVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var items []models.ProductVariant
	if err := query.Order("sort_order DESC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create creates a variant
func (r *GormVariantRepository) Create(item *models.ProductVariant) error {
	if item == nil {
		return errors.New("variant is nil")
	}
	return r.db.Create(item).Error
}

// Update updates a variant
func (r *GormVariantRepository) Update(item *models.ProductVariant) error {
	if item == nil {
		return errors.New("variant is nil")
	}
	return r.db.Save(item).Error
}

// DecrementStock atomically takes stock. RowsAffected 0 means insufficient
// stock; the conditional update is the sole concurrency control point for
// racing checkouts.
func (r *GormVariantRepository) DecrementStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock returns stock taken by DecrementStock
func (r *GormVariantRepository) IncrementStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
