package api

import (
	"finance_tracker/internal/domain" // Importing domain models
	"time"                            // Timestamps
)

// UserResponse is the public view of a user; the password hash never leaves the server
type UserResponse struct {
	ID        string    `json:"id"`         // User ID
	Name      string    `json:"name"`       // Display name
	Email     string    `json:"email"`      // Email
	CreatedAt time.Time `json:"created_at"` // Creation time
	UpdatedAt time.Time `json:"updated_at"` // Last update time
}

// AuthResponse bundles a fresh token with the user it identifies
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  UserResponse `json:"user"`  // Authenticated user
}

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID          string    `json:"id"`          // Category ID
	Name        string    `json:"name"`        // Name
	Description *string   `json:"description"` // Optional description
	Icon        string    `json:"icon"`        // Icon name
	Color       string    `json:"color"`       // Color name
	UserID      string    `json:"user_id"`     // Owner
	CreatedAt   time.Time `json:"created_at"`  // Creation time
	UpdatedAt   time.Time `json:"updated_at"`  // Last update time
}

// TransactionResponse is the public view of a transaction with its category
type TransactionResponse struct {
	ID          string           `json:"id"`          // Transaction ID
	Description string           `json:"description"` // Description
	Amount      float64          `json:"amount"`      // Positive amount
	Type        string           `json:"type"`        // income or expense
	CategoryID  string           `json:"category_id"` // Category ID
	Category    CategoryResponse `json:"category"`    // Category details
	UserID      string           `json:"user_id"`     // Owner
	CreatedAt   time.Time        `json:"created_at"`  // Creation time
	UpdatedAt   time.Time        `json:"updated_at"`  // Last update time
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func newCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.InexactFloat64(),
		Type:        string(t.Type),
		CategoryID:  t.CategoryID,
		Category:    newCategoryResponse(&t.Category),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
