package repository

import (
	"errors"
	"strings"

	"github.com/vitrine-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(item *models.User) error
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM implementation
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the user repository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx binds a transaction
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID fetches a user
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user id")
	}
	var item models.User
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByEmail fetches a user by email
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is empty")
	}
	var item models.User
	if err := r.db.Where("email = ?", email).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create creates a user
func (r *GormUserRepository) Create(item *models.User) error {
	if item == nil {
		return errors.New("user is nil")
	}
	item.Email = strings.ToLower(strings.TrimSpace(item.Email))
	return r.db.Create(item).Error
}
