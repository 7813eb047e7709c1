package domain

import (
	"strings" // Type parsing
	"time"    // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// TransactionType is the direction of a transaction
type TransactionType string

// Transaction types
const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// ParseTransactionType accepts the canonical names and the legacy entrada/saida aliases
func ParseTransactionType(s string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "entrada":
		return TransactionIncome, true
	case "expense", "saida":
		return TransactionExpense, true
	}
	return "", false
}

// Transaction Model
type Transaction struct {
	ID          string          `gorm:"primaryKey;size:36"`                                                  // Primary key (UUID)
	UserID      string          `gorm:"size:36;not null;index"`                                              // Owning user
	CategoryID  string          `gorm:"size:36;not null;index"`                                              // Category, same owner
	Description string          `gorm:"size:200;not null"`                                                   // Free text
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`                                         // Positive magnitude
	Type        TransactionType `gorm:"size:10;not null;index"`                                              // income or expense
	Category    Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Referenced category
	User        User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`                       // Owner relation
	CreatedAt   time.Time       `gorm:"index"`                                                               // Timestamp of creation
	UpdatedAt   time.Time       // Timestamp of last update
}

// BeforeCreate assigns a UUID when none was set
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
