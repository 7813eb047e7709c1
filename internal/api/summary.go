package api

import (
	"finance_tracker/internal/repository" // Ownership-scoped persistence
	"finance_tracker/internal/utils"      // Cache helpers
	"net/http"                            // HTTP status codes
	"time"                                // Month boundaries

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/sync/errgroup" // Concurrent aggregate queries
)

// Dashboard limits
const (
	recentTransactionsLimit = 5
	topCategoriesLimit      = 5
)

// CategoryStat is one category's totals on the dashboard
type CategoryStat struct {
	ID    string  `json:"id"`    // Category ID
	Name  string  `json:"name"`  // Name
	Icon  string  `json:"icon"`  // Icon name
	Color string  `json:"color"` // Color name
	Count int64   `json:"count"` // Number of transactions
	Total float64 `json:"total"` // Sum of amounts
}

// SummaryResponse aggregates the caller's finances
type SummaryResponse struct {
	Balance            float64               `json:"balance"`             // All-time income minus expense
	MonthlyIncome      float64               `json:"monthly_income"`      // Income this month
	MonthlyExpenses    float64               `json:"monthly_expenses"`    // Expenses this month
	MonthlyBalance     float64               `json:"monthly_balance"`     // Income minus expenses this month
	RecentTransactions []TransactionResponse `json:"recent_transactions"` // Newest transactions
	Categories         []CategoryStat        `json:"categories"`          // Largest categories
}

// SummaryHandler returns balances, monthly totals, recent activity and top categories
func SummaryHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.SummaryCacheKey(userID) // Per-user cache key
		var cached SummaryResponse
		found, err := utils.GetCache(ctx, env.Cache, cacheKey, &cached) // Try to get from cache
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Summary cache read failed") // Fall through to the DB
		}
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"summary": cached, "cached": true})
			return
		}

		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var (
			allTime, month repository.TypeTotals
			recent         []TransactionResponse
			top            []repository.CategoryTotal
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			allTime, err = env.Store.SumByType(gctx, userID, time.Time{}, time.Time{})
			return err
		})
		g.Go(func() error {
			var err error
			month, err = env.Store.SumByType(gctx, userID, monthStart, monthEnd)
			return err
		})
		g.Go(func() error {
			txs, _, err := env.Store.ListTransactions(gctx, userID, repository.TransactionFilter{Limit: recentTransactionsLimit})
			if err != nil {
				return err
			}
			recent = make([]TransactionResponse, len(txs))
			for i := range txs {
				recent[i] = newTransactionResponse(&txs[i])
			}
			return nil
		})
		g.Go(func() error {
			var err error
			top, err = env.Store.TopCategories(gctx, userID, topCategoriesLimit)
			return err
		})
		if err := g.Wait(); err != nil {
			respondError(c, err)
			return
		}

		resp := SummaryResponse{
			Balance:            allTime.Balance().InexactFloat64(),
			MonthlyIncome:      month.Income.InexactFloat64(),
			MonthlyExpenses:    month.Expense.InexactFloat64(),
			MonthlyBalance:     month.Balance().InexactFloat64(),
			RecentTransactions: recent,
			Categories:         make([]CategoryStat, len(top)),
		}
		for i, t := range top {
			resp.Categories[i] = CategoryStat{
				ID:    t.CategoryID,
				Name:  t.Name,
				Icon:  t.Icon,
				Color: t.Color,
				Count: t.Count,
				Total: t.Total.InexactFloat64(),
			}
		}
		// Cache the result for future requests
		if err := utils.SetCache(ctx, env.Cache, cacheKey, resp, env.CacheTTL); err != nil {
			logrus.WithField("error", err.Error()).Warn("Summary cache write failed")
		}
		c.JSON(http.StatusOK, gin.H{"summary": resp, "cached": false})
	}
}
