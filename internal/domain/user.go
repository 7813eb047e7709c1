package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`            // Primary key (UUID)
	Name         string    `gorm:"size:100;not null"`             // Display name
	Email        string    `gorm:"size:255;uniqueIndex;not null"` // Normalized, globally unique email
	PasswordHash string    `gorm:"not null"`                      // bcrypt hash, never serialized
	CreatedAt    time.Time // Timestamp of creation
	UpdatedAt    time.Time // Timestamp of last update
}

// BeforeCreate assigns a UUID when none was set
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
