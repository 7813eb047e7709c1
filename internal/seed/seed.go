// Package seed loads a demo account with categories and a month of activity.
package seed

import (
	"context"                             // Seed runs under the caller's context
	"errors"                              // Not-found checks
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/repository" // Email normalization
	"finance_tracker/internal/utils"      // Password hashing
	"fmt"                                 // Error wrapping
	"time"                                // Backdated timestamps

	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Association skipping
)

// Demo account credentials
const (
	DemoName     = "Demo"
	DemoEmail    = "demo@financy.com"
	DemoPassword = "demo123"
)

type categorySeed struct {
	name, description, icon, color string
}

var categories = []categorySeed{
	{"Food", "Restaurants, delivery and meals", "food", "blue"},
	{"Transport", "Fuel, public transport and travel", "car", "purple"},
	{"Groceries", "Supermarket and household supplies", "shopping", "orange"},
	{"Investments", "Deposits and returns", "briefcase", "green"},
	{"Entertainment", "Cinema, games and leisure", "ticket", "pink"},
	{"Utilities", "Power, water, internet and phone", "home", "yellow"},
	{"Salary", "Monthly income and bonuses", "briefcase", "green"},
	{"Health", "Medicine, appointments and exams", "heart", "red"},
}

type transactionSeed struct {
	description string
	amount      string
	txType      domain.TransactionType
	category    string
	daysAgo     int
}

var transactions = []transactionSeed{
	{"Restaurant dinner", "89.50", domain.TransactionExpense, "Food", 35},
	{"Gas station", "100.00", domain.TransactionExpense, "Transport", 34},
	{"Weekly groceries", "156.80", domain.TransactionExpense, "Groceries", 33},
	{"Investment return", "340.25", domain.TransactionIncome, "Investments", 31},
	{"Rent", "1700.00", domain.TransactionExpense, "Utilities", 30},
	{"Freelance", "2500.00", domain.TransactionIncome, "Salary", 29},
	{"Dinner shopping", "150.00", domain.TransactionExpense, "Groceries", 28},
	{"Cinema", "88.00", domain.TransactionExpense, "Entertainment", 27},
	{"Health plan", "420.00", domain.TransactionExpense, "Health", 26},
	{"Power bill", "240.50", domain.TransactionExpense, "Utilities", 25},
	{"Salary", "4800.00", domain.TransactionIncome, "Salary", 24},
	{"Internet", "120.00", domain.TransactionExpense, "Utilities", 23},
	{"Supermarket", "286.70", domain.TransactionExpense, "Groceries", 22},
	{"Streaming", "50.00", domain.TransactionExpense, "Entertainment", 21},
	{"Savings yield", "39.40", domain.TransactionIncome, "Investments", 20},
	{"Taxi", "35.20", domain.TransactionExpense, "Transport", 19},
	{"Lunch", "45.90", domain.TransactionExpense, "Food", 18},
	{"Doctor appointment", "280.00", domain.TransactionExpense, "Health", 17},
	{"Bonus", "600.00", domain.TransactionIncome, "Salary", 15},
	{"Bakery", "26.40", domain.TransactionExpense, "Food", 14},
	{"Ride share", "22.70", domain.TransactionExpense, "Transport", 13},
	{"Farmers market", "98.10", domain.TransactionExpense, "Groceries", 12},
	{"3D cinema", "74.00", domain.TransactionExpense, "Entertainment", 11},
	{"Electricity", "210.00", domain.TransactionExpense, "Utilities", 10},
	{"Treasury bonds", "300.00", domain.TransactionIncome, "Investments", 9},
	{"Specialist visit", "310.00", domain.TransactionExpense, "Health", 8},
	{"Big grocery run", "126.50", domain.TransactionExpense, "Groceries", 7},
	{"Snack", "32.90", domain.TransactionExpense, "Food", 6},
	{"Bus", "9.80", domain.TransactionExpense, "Transport", 5},
}

// Result reports what Run wrote.
type Result struct {
	UserID       string // Demo user ID
	Categories   int    // Categories upserted
	Transactions int    // Transactions inserted
}

// Run upserts the demo user and its categories, then replaces its
// transactions with the sample set dated relative to now.
func Run(ctx context.Context, db *gorm.DB, passwords *utils.PasswordCodec, now time.Time) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := upsertUser(tx, passwords)
		if err != nil {
			return err
		}
		res.UserID = user.ID

		byName := make(map[string]string, len(categories))
		for _, cs := range categories {
			id, err := upsertCategory(tx, user.ID, cs)
			if err != nil {
				return err
			}
			byName[cs.name] = id
		}
		res.Categories = len(byName)

		// Replace previous demo activity so reruns do not pile up duplicates
		if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Transaction{}).Error; err != nil {
			return fmt.Errorf("clear demo transactions: %w", err)
		}
		for _, ts := range transactions {
			created := now.AddDate(0, 0, -ts.daysAgo) // Spread over the last five weeks
			t := &domain.Transaction{
				UserID:      user.ID,
				CategoryID:  byName[ts.category],
				Description: ts.description,
				Amount:      decimal.RequireFromString(ts.amount),
				Type:        ts.txType,
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
				return fmt.Errorf("insert %q: %w", ts.description, err)
			}
			res.Transactions++
		}
		return nil
	})
	return res, err
}

func upsertUser(tx *gorm.DB, passwords *utils.PasswordCodec) (*domain.User, error) {
	var user domain.User
	err := tx.Where("email = ?", repository.NormalizeEmail(DemoEmail)).First(&user).Error
	if err == nil {
		return &user, nil // Already seeded, keep its password
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find demo user: %w", err)
	}
	hash, err := passwords.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	user = domain.User{Name: DemoName, Email: repository.NormalizeEmail(DemoEmail), PasswordHash: hash}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	return &user, nil
}

func upsertCategory(tx *gorm.DB, userID string, cs categorySeed) (string, error) {
	desc := cs.description
	var c domain.Category
	err := tx.Where("user_id = ? AND name_key = ?", userID, domain.CategoryNameKey(cs.name)).First(&c).Error
	switch {
	case err == nil:
		err = tx.Model(&c).Updates(map[string]any{"description": desc, "icon": cs.icon, "color": cs.color}).Error
		if err != nil {
			return "", fmt.Errorf("update category %q: %w", cs.name, err)
		}
		return c.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		c = domain.Category{
			UserID:      userID,
			Name:        cs.name,
			NameKey:     domain.CategoryNameKey(cs.name),
			Description: &desc,
			Icon:        cs.icon,
			Color:       cs.color,
		}
		if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
			return "", fmt.Errorf("create category %q: %w", cs.name, err)
		}
		return c.ID, nil
	default:
		return "", fmt.Errorf("find category %q: %w", cs.name, err)
	}
}
