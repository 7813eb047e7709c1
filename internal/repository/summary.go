package repository

import (
	"context"                         // Request-scoped queries
	"finance_tracker/internal/domain" // Importing domain models
	"time"                            // Date range bounds

	"github.com/shopspring/decimal" // Exact money amounts
)

// TypeTotals holds summed amounts per transaction type.
type TypeTotals struct {
	Income  decimal.Decimal // Sum of income amounts
	Expense decimal.Decimal // Sum of expense amounts
}

// Balance is income minus expense.
func (t TypeTotals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// CategoryTotal is one category's share of the user's transactions.
type CategoryTotal struct {
	CategoryID string          // Category ID
	Name       string          // Category name
	Icon       string          // Icon name
	Color      string          // Color name
	Count      int64           // Number of transactions
	Total      decimal.Decimal // Sum of amounts
}

// SumByType totals the user's transactions created in [from, to). Zero
// bounds are open.
func (s *Store) SumByType(ctx context.Context, userID string, from, to time.Time) (TypeTotals, error) {
	q := owned(s.conn(ctx).Model(&domain.Transaction{}), userID)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from) // Inclusive lower bound
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to) // Exclusive upper bound
	}
	var rows []struct {
		Type  domain.TransactionType
		Total decimal.Decimal
	}
	if err := q.Select("type, COALESCE(SUM(amount), 0) AS total").Group("type").Scan(&rows).Error; err != nil {
		return TypeTotals{}, storeError(err, "")
	}
	var out TypeTotals
	for _, r := range rows {
		switch r.Type {
		case domain.TransactionIncome:
			out.Income = r.Total.Round(2)
		case domain.TransactionExpense:
			out.Expense = r.Total.Round(2)
		}
	}
	return out, nil
}

// TopCategories returns up to limit categories that have transactions,
// largest total first.
func (s *Store) TopCategories(ctx context.Context, userID string, limit int) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.conn(ctx).Table("transactions AS t").
		Select("c.id AS category_id, c.name AS name, c.icon AS icon, c.color AS color, COUNT(t.id) AS count, COALESCE(SUM(t.amount), 0) AS total").
		Joins("JOIN categories AS c ON c.id = t.category_id AND c.user_id = t.user_id").
		Where("t.user_id = ?", userID).
		Group("c.id, c.name, c.icon, c.color").
		Order("total DESC, c.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err, "")
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}
