package repository

import (
	"context"                         // Request-scoped queries
	"finance_tracker/internal/domain" // Importing domain models
	"strings"                         // Description trimming

	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Association skipping
)

const msgTransactionNotFound = "Transaction not found"

// TransactionInput describes a new transaction.
type TransactionInput struct {
	Description string                 // Free text
	Amount      decimal.Decimal        // Positive, already rounded to cents
	Type        domain.TransactionType // income or expense
	CategoryID  string                 // Must belong to the same user
}

// TransactionPatch changes only the fields that are non-nil.
type TransactionPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *domain.TransactionType
	CategoryID  *string
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter";
// Limit <= 0 means no limit.
type TransactionFilter struct {
	Type       domain.TransactionType
	CategoryID string
	Limit      int
	Offset     int
}

// ListTransactions returns the user's transactions newest first, with their
// category loaded, and the total number matching the filter.
func (s *Store) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]domain.Transaction, int64, error) {
	q := owned(s.conn(ctx).Model(&domain.Transaction{}), userID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type) // Filter by type
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID) // Filter by category
	}
	q = q.Session(&gorm.Session{}) // Reused for count and page
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "")
	}
	page := q.Preload("Category").Order("created_at desc")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}
	var txs []domain.Transaction
	if err := page.Find(&txs).Error; err != nil {
		return nil, 0, storeError(err, "")
	}
	return txs, total, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return getTransaction(s.conn(ctx), userID, id)
}

func getTransaction(tx *gorm.DB, userID, id string) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := owned(tx, userID).Preload("Category").Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFoundOr(err, msgTransactionNotFound)
	}
	return &t, nil
}

// CreateTransaction inserts a transaction after confirming the category is
// owned by the same user. A foreign category is reported as NotFound and
// nothing is written.
func (s *Store) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := getCategory(tx, userID, in.CategoryID)
		if err != nil {
			return err
		}
		t := &domain.Transaction{
			UserID:      userID,
			CategoryID:  cat.ID,
			Description: strings.TrimSpace(in.Description),
			Amount:      in.Amount,
			Type:        in.Type,
		}
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		t.Category = *cat // Returned with its category like every read
		out = t
		return nil
	})
	if err != nil {
		return nil, storeError(err, "")
	}
	return out, nil
}

// UpdateTransaction applies patch to a transaction the user owns. A new
// category is validated in the same database transaction as the write, so a
// bad category leaves the row untouched.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch TransactionPatch) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTransaction(tx, userID, id)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if patch.CategoryID != nil && *patch.CategoryID != t.CategoryID {
			cat, err := getCategory(tx, userID, *patch.CategoryID)
			if err != nil {
				return err
			}
			updates["category_id"] = cat.ID
		}
		if patch.Description != nil {
			updates["description"] = strings.TrimSpace(*patch.Description)
		}
		if patch.Amount != nil {
			updates["amount"] = *patch.Amount
		}
		if patch.Type != nil {
			updates["type"] = *patch.Type
		}
		if len(updates) > 0 {
			if err := owned(tx.Model(t), userID).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		out, err = getTransaction(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, storeError(err, "")
	}
	return out, nil
}

// DeleteTransaction removes a transaction the user owns.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res := owned(s.conn(ctx), userID).Where("id = ?", id).Delete(&domain.Transaction{})
	if res.Error != nil {
		return storeError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(msgTransactionNotFound) // Missing or owned by someone else
	}
	return nil
}
