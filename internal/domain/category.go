package domain

import (
	"strings" // Name normalization
	"time"    // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Defaults applied when a category is created without icon or color
const (
	DefaultCategoryIcon  = "briefcase"
	DefaultCategoryColor = "green"
)

// Category Model
type Category struct {
	ID          string    `gorm:"primaryKey;size:36"`                                         // Primary key (UUID)
	UserID      string    `gorm:"size:36;not null;index;uniqueIndex:idx_category_owner_name"` // Owning user
	Name        string    `gorm:"size:50;not null"`                                           // Name as entered
	NameKey     string    `gorm:"size:50;not null;uniqueIndex:idx_category_owner_name"`       // Lower-cased name for per-owner uniqueness
	Description *string   `gorm:"size:255"`                                                   // Optional description
	Icon        string    `gorm:"size:30;not null"`                                           // Icon name
	Color       string    `gorm:"size:30;not null"`                                           // Color name
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`              // Owner relation
	CreatedAt   time.Time // Timestamp of creation
	UpdatedAt   time.Time // Timestamp of last update
}

// BeforeCreate assigns a UUID when none was set
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryNameKey is the form category names are compared in
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
