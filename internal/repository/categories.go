package repository

import (
	"context"                         // Request-scoped queries
	"finance_tracker/internal/domain" // Importing domain models
	"strings"                         // Name trimming

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association skipping
)

const (
	msgCategoryNotFound = "Category not found"
	msgCategoryExists   = "Category with this name already exists"
)

// CategoryInput describes a new category.
type CategoryInput struct {
	Name        string  // Required, unique per owner
	Description *string // Optional
	Icon        string  // Empty means the default icon
	Color       string  // Empty means the default color
}

// CategoryPatch changes only the fields that are non-nil. An empty
// Description clears it.
type CategoryPatch struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

// ListCategories returns the user's categories, newest first.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	var cats []domain.Category
	if err := owned(s.conn(ctx), userID).Order("created_at desc").Find(&cats).Error; err != nil {
		return nil, storeError(err, "")
	}
	return cats, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	return getCategory(s.conn(ctx), userID, id)
}

func getCategory(tx *gorm.DB, userID, id string) (*domain.Category, error) {
	var c domain.Category
	if err := owned(tx, userID).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFoundOr(err, msgCategoryNotFound)
	}
	return &c, nil
}

// nameTaken checks the (owner, name) scope, ignoring excludeID.
func nameTaken(tx *gorm.DB, userID, nameKey, excludeID string) (bool, error) {
	q := owned(tx.Model(&domain.Category{}), userID).Where("name_key = ?", nameKey)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID) // A rename may keep its own name
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, storeError(err, "")
	}
	return count > 0, nil
}

// CreateCategory inserts a category for userID. Names are unique per owner,
// compared case-insensitively.
func (s *Store) CreateCategory(ctx context.Context, userID string, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	key := domain.CategoryNameKey(name)
	taken, err := nameTaken(s.conn(ctx), userID, key, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict(msgCategoryExists)
	}
	c := &domain.Category{
		UserID:      userID,
		Name:        name,
		NameKey:     key,
		Description: emptyToNil(in.Description),
		Icon:        orDefault(in.Icon, domain.DefaultCategoryIcon),   // Default icon
		Color:       orDefault(in.Color, domain.DefaultCategoryColor), // Default color
	}
	// The unique index is the final word if a concurrent create won the race
	if err := s.conn(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, storeError(err, msgCategoryExists)
	}
	return c, nil
}

// UpdateCategory applies patch to a category the user owns.
func (s *Store) UpdateCategory(ctx context.Context, userID, id string, patch CategoryPatch) (*domain.Category, error) {
	var out *domain.Category
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getCategory(tx, userID, id)
		if err != nil {
			return err
		}
		updates := map[string]any{} // Only the fields present in the patch
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			key := domain.CategoryNameKey(name)
			taken, err := nameTaken(tx, userID, key, c.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.Conflict(msgCategoryExists)
			}
			updates["name"] = name
			updates["name_key"] = key
		}
		if patch.Description != nil {
			updates["description"] = emptyToNil(patch.Description) // Empty clears it
		}
		if patch.Icon != nil {
			updates["icon"] = orDefault(*patch.Icon, c.Icon)
		}
		if patch.Color != nil {
			updates["color"] = orDefault(*patch.Color, c.Color)
		}
		if len(updates) > 0 {
			if err := owned(tx.Model(c), userID).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return storeError(err, msgCategoryExists)
			}
		}
		out, err = getCategory(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, storeError(err, msgCategoryExists)
	}
	return out, nil
}

// DeleteCategory removes a category the user owns together with its
// transactions, so no transaction is left pointing at a missing category.
func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getCategory(tx, userID, id)
		if err != nil {
			return err
		}
		if err := owned(tx, userID).Where("category_id = ?", c.ID).Delete(&domain.Transaction{}).Error; err != nil {
			return err
		}
		return owned(tx, userID).Where("id = ?", c.ID).Delete(&domain.Category{}).Error
	})
	return storeError(err, "")
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func orDefault(s, def string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return def
}
