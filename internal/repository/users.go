package repository

import (
	"context"                         // Request-scoped queries
	"finance_tracker/internal/domain" // Importing domain models
	"strings"                         // Email normalization
)

const (
	msgUserNotFound = "User not found"
	msgEmailTaken   = "Email already in use"
)

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailExists reports whether any user already holds email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&domain.User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, storeError(err, "")
	}
	return count > 0, nil
}

// CreateUser inserts a user. A concurrent registration of the same email
// that slipped past EmailExists is reported as Conflict by the unique index.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Name:         strings.TrimSpace(name), // Display name
		Email:        NormalizeEmail(email),   // Stored lower-cased
		PasswordHash: passwordHash,            // bcrypt hash
	}
	if err := s.conn(ctx).Create(u).Error; err != nil {
		return nil, storeError(err, msgEmailTaken)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.conn(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFoundOr(err, msgUserNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.conn(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFoundOr(err, msgUserNotFound)
	}
	return &u, nil
}

// UpdateUserName changes the display name. Email is immutable.
func (s *Store) UpdateUserName(ctx context.Context, id, name string) (*domain.User, error) {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// MySQL reports unchanged rows as unaffected, so existence is checked above rather than via RowsAffected
	name = strings.TrimSpace(name)
	if err := s.conn(ctx).Model(u).Update("name", name).Error; err != nil {
		return nil, storeError(err, "")
	}
	u.Name = name
	return u, nil
}
