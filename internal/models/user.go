package models

import (
	"time"

	"gorm.io/gorm"
)

// User storefront account backing bearer authentication
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                      // primary key
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`                         // login email
	Name      string         `json:"name"`                                                      // display name
	Status    string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`  // active / disabled
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                   // creation time
	UpdatedAt time.Time      `json:"updated_at"`                                                // update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                            // soft delete time
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}
