package api

import (
	"finance_tracker/internal/domain"     // Typed errors
	"finance_tracker/internal/repository" // Ownership-scoped persistence
	"math"                                // Page cap
	"net/http"                            // HTTP status codes
	"strconv"                             // String conversion
	"strings"                             // String manipulation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// maxAmount keeps amounts inside the decimal(14,2) column
var maxAmount = decimal.New(1, 12)

// CreateTransactionRequest is the body of POST /transactions
type CreateTransactionRequest struct {
	Description string          `json:"description" binding:"required,max=200"` // Description
	Amount      decimal.Decimal `json:"amount"`                                 // Must be positive
	Type        string          `json:"type" binding:"required"`                // income or expense
	CategoryID  string          `json:"category_id" binding:"required"`         // Caller's category
}

// UpdateTransactionRequest is the body of PATCH /transactions/:id; absent fields are left alone
type UpdateTransactionRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=200"` // New description
	Amount      *decimal.Decimal `json:"amount"`                                  // New amount
	Type        *string          `json:"type"`                                    // New type
	CategoryID  *string          `json:"category_id"`                             // New category, re-validated
}

// parseAmount rounds to cents and rejects non-positive or oversized amounts
func parseAmount(d decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(2)
	if !d.IsPositive() {
		return d, domain.BadInput("Amount must be greater than zero")
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return d, domain.BadInput("Amount is too large")
	}
	return d, nil
}

func parseType(s string) (domain.TransactionType, error) {
	t, ok := domain.ParseTransactionType(s)
	if !ok {
		return "", domain.BadInput("Type must be income or expense")
	}
	return t, nil
}

// ListTransactionsHandler returns the caller's transactions, newest first, paginated
func ListTransactionsHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		if maxPage := math.MaxInt32 / pageSize; page > maxPage {
			page = maxPage // Keep the offset from overflowing
		}
		filter := repository.TransactionFilter{
			CategoryID: c.Query("category_id"), // Optional category filter
			Limit:      pageSize,               // Page size
			Offset:     (page - 1) * pageSize,  // Calculate offset
		}
		if t := c.Query("type"); t != "" {
			txType, err := parseType(t)
			if err != nil {
				respondError(c, err)
				return
			}
			filter.Type = txType // Optional type filter
		}
		txs, total, err := env.Store.ListTransactions(c.Request.Context(), userID, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]TransactionResponse, len(txs)) // Map transactions to response format
		for i := range txs {
			resp[i] = newTransactionResponse(&txs[i])
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": resp,                                   // Page of transactions
			"page":         page,                                   // Current page
			"page_size":    pageSize,                               // Page size
			"total":        total,                                  // Total matching transactions
			"total_pages":  (int(total) + pageSize - 1) / pageSize, // Total pages
		})
	}
}

// GetTransactionHandler returns one of the caller's transactions
func GetTransactionHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		tx, err := env.Store.GetTransaction(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(tx)})
	}
}

// CreateTransactionHandler records a transaction against one of the caller's categories
func CreateTransactionHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Description) == "" {
			respondError(c, domain.BadInput("Invalid transaction data"))
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		txType, err := parseType(req.Type)
		if err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		tx, err := env.Store.CreateTransaction(ctx, userID, repository.TransactionInput{
			Description: req.Description,
			Amount:      amount,
			Type:        txType,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			respondError(c, err) // A foreign category is NotFound
			return
		}
		invalidateSummary(ctx, env, userID)
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,             // Owner
			"transaction_id": tx.ID,              // New transaction
			"category_id":    tx.CategoryID,      // Category
			"amount":         tx.Amount.String(), // Amount
			"type":           tx.Type,            // Transaction type
		}).Info("Transaction created")
		c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(tx)})
	}
}

// UpdateTransactionHandler applies a partial update to one of the caller's transactions
func UpdateTransactionHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req UpdateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, domain.BadInput("Invalid transaction data"))
			return
		}
		patch := repository.TransactionPatch{CategoryID: req.CategoryID}
		if req.Description != nil {
			if strings.TrimSpace(*req.Description) == "" {
				respondError(c, domain.BadInput("Description must not be blank"))
				return
			}
			patch.Description = req.Description
		}
		if req.Amount != nil {
			amount, err := parseAmount(*req.Amount)
			if err != nil {
				respondError(c, err)
				return
			}
			patch.Amount = &amount
		}
		if req.Type != nil {
			txType, err := parseType(*req.Type)
			if err != nil {
				respondError(c, err)
				return
			}
			patch.Type = &txType
		}
		ctx := c.Request.Context()
		tx, err := env.Store.UpdateTransaction(ctx, userID, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateSummary(ctx, env, userID)
		c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(tx)})
	}
}

// DeleteTransactionHandler deletes one of the caller's transactions
func DeleteTransactionHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")
		if err := env.Store.DeleteTransaction(ctx, userID, id); err != nil {
			respondError(c, err)
			return
		}
		invalidateSummary(ctx, env, userID)
		logrus.WithFields(logrus.Fields{
			"user_id":        userID, // Owner
			"transaction_id": id,     // Deleted transaction
		}).Info("Transaction deleted")
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
