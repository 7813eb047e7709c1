// Package repository is the only code that reads or writes users, categories
// and transactions. Category and transaction access always carries the
// caller's user id; a row owned by someone else behaves exactly like a row
// that does not exist.
package repository

import (
	"context"                         // Request-scoped queries
	"errors"                          // Error inspection
	"finance_tracker/internal/domain" // Typed errors

	"gorm.io/gorm" // GORM ORM library
)

// Store wraps a gorm handle. It is safe for concurrent use.
type Store struct {
	db *gorm.DB // Shared handle, opened with TranslateError
}

// New returns a Store over db. db should be opened with TranslateError so
// unique violations arrive as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// owned scopes a query to rows belonging to userID.
func owned(tx *gorm.DB, userID string) *gorm.DB {
	return tx.Where("user_id = ?", userID)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// storeError converts a raw gorm error. conflictMsg is used when the store
// rejected a write on a unique index.
func storeError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var typed *domain.Error
	if errors.As(err, &typed) {
		return err // Already classified
	}
	if conflictMsg != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict(conflictMsg)
	}
	return domain.Internal(err)
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(msg)
	}
	return storeError(err, "")
}
