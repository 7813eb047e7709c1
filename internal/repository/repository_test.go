package repository

import (
	"context"
	"testing"
	"time"

	"finance_tracker/internal/db"
	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreTestSuite struct {
	suite.Suite
	gdb   *gorm.DB
	store *Store
	ctx   context.Context
	alice *domain.User
	bob   *domain.User
}

func (s *StoreTestSuite) SetupTest() {
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(s.T(), err)
	require.NoError(s.T(), db.Migrate(gdb))
	s.gdb = gdb
	s.store = New(gdb)
	s.ctx = context.Background()

	s.alice, err = s.store.CreateUser(s.ctx, "Alice", "alice@example.com", "hash-a")
	require.NoError(s.T(), err)
	s.bob, err = s.store.CreateUser(s.ctx, "Bob", "bob@example.com", "hash-b")
	require.NoError(s.T(), err)
}

func (s *StoreTestSuite) TearDownTest() {
	sqlDB, err := s.gdb.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) category(userID, name string) *domain.Category {
	c, err := s.store.CreateCategory(s.ctx, userID, CategoryInput{Name: name})
	s.Require().NoError(err)
	return c
}

func (s *StoreTestSuite) transaction(userID, categoryID, amount string, typ domain.TransactionType) *domain.Transaction {
	t, err := s.store.CreateTransaction(s.ctx, userID, TransactionInput{
		Description: "tx " + amount,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		CategoryID:  categoryID,
	})
	s.Require().NoError(err)
	return t
}

func (s *StoreTestSuite) countTransactions() int64 {
	var n int64
	s.Require().NoError(s.gdb.Model(&domain.Transaction{}).Count(&n).Error)
	return n
}

func (s *StoreTestSuite) TestUsers() {
	u, err := s.store.GetUserByEmail(s.ctx, "  ALICE@example.com ")
	s.Require().NoError(err)
	s.Equal(s.alice.ID, u.ID)
	s.Equal("alice@example.com", u.Email)

	exists, err := s.store.EmailExists(s.ctx, "Bob@Example.com")
	s.Require().NoError(err)
	s.True(exists)

	_, err = s.store.CreateUser(s.ctx, "Alice Again", "Alice@Example.com", "hash")
	s.ErrorIs(err, domain.ErrConflict)

	_, err = s.store.GetUserByID(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)

	updated, err := s.store.UpdateUserName(s.ctx, s.alice.ID, "  Alice Liddell ")
	s.Require().NoError(err)
	s.Equal("Alice Liddell", updated.Name)
	s.Equal("alice@example.com", updated.Email)

	// Same name again must not look like a missing user
	_, err = s.store.UpdateUserName(s.ctx, s.alice.ID, "Alice Liddell")
	s.NoError(err)
}

func (s *StoreTestSuite) TestCreateCategoryDefaults() {
	c := s.category(s.alice.ID, "  Groceries ")
	s.Equal("Groceries", c.Name)
	s.Equal(domain.DefaultCategoryIcon, c.Icon)
	s.Equal(domain.DefaultCategoryColor, c.Color)
	s.Nil(c.Description)
	s.Equal(s.alice.ID, c.UserID)
	s.NotEmpty(c.ID)

	desc := "Weekly shop"
	c2, err := s.store.CreateCategory(s.ctx, s.alice.ID, CategoryInput{Name: "Food", Description: &desc, Icon: "food", Color: "blue"})
	s.Require().NoError(err)
	s.Equal("food", c2.Icon)
	s.Equal("blue", c2.Color)
	s.Require().NotNil(c2.Description)
	s.Equal("Weekly shop", *c2.Description)
}

func (s *StoreTestSuite) TestCategoryNamesUniquePerOwner() {
	s.category(s.alice.ID, "Food")

	_, err := s.store.CreateCategory(s.ctx, s.alice.ID, CategoryInput{Name: "food"})
	s.ErrorIs(err, domain.ErrConflict)
	s.Equal("Category with this name already exists", domain.PublicMessage(err))

	// Another owner may use the same name
	c := s.category(s.bob.ID, "Food")
	s.Equal(s.bob.ID, c.UserID)
}

func (s *StoreTestSuite) TestUniqueIndexReportsConflict() {
	s.category(s.alice.ID, "Food")

	// A row that skipped the name check, as a concurrent create would
	dup := &domain.Category{
		UserID:  s.alice.ID,
		Name:    "FOOD",
		NameKey: domain.CategoryNameKey("FOOD"),
		Icon:    domain.DefaultCategoryIcon,
		Color:   domain.DefaultCategoryColor,
	}
	err := storeError(s.gdb.Omit(clause.Associations).Create(dup).Error, msgCategoryExists)
	s.ErrorIs(err, domain.ErrConflict)
	s.Equal("Category with this name already exists", domain.PublicMessage(err))

	// Same key under another owner is a different index entry
	other := &domain.Category{UserID: s.bob.ID, Name: "Food", NameKey: "food", Icon: "x", Color: "y"}
	s.NoError(s.gdb.Omit(clause.Associations).Create(other).Error)
}

func (s *StoreTestSuite) TestCreateUserDuplicateEmail() {
	// CreateUser has no pre-check of its own, so the unique index alone decides
	_, err := s.store.CreateUser(s.ctx, "Imposter", " BOB@example.com", "hash")
	s.ErrorIs(err, domain.ErrConflict)
	s.Equal("Email already in use", domain.PublicMessage(err))

	var n int64
	s.Require().NoError(s.gdb.Model(&domain.User{}).Where("email = ?", "bob@example.com").Count(&n).Error)
	s.Equal(int64(1), n)
}

func (s *StoreTestSuite) TestCategoryIsolation() {
	c := s.category(s.alice.ID, "Groceries")

	_, err := s.store.GetCategory(s.ctx, s.bob.ID, c.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	name := "Stolen"
	_, err = s.store.UpdateCategory(s.ctx, s.bob.ID, c.ID, CategoryPatch{Name: &name})
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(s.store.DeleteCategory(s.ctx, s.bob.ID, c.ID), domain.ErrNotFound)

	got, err := s.store.GetCategory(s.ctx, s.alice.ID, c.ID)
	s.Require().NoError(err)
	s.Equal("Groceries", got.Name)

	bobs, err := s.store.ListCategories(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(bobs)
}

func (s *StoreTestSuite) TestUpdateCategory() {
	desc := "old"
	c, err := s.store.CreateCategory(s.ctx, s.alice.ID, CategoryInput{Name: "Food", Description: &desc, Icon: "food"})
	s.Require().NoError(err)
	s.category(s.alice.ID, "Travel")

	color := "red"
	got, err := s.store.UpdateCategory(s.ctx, s.alice.ID, c.ID, CategoryPatch{Color: &color})
	s.Require().NoError(err)
	s.Equal("Food", got.Name)
	s.Equal("food", got.Icon)
	s.Equal("red", got.Color)
	s.Require().NotNil(got.Description)
	s.Equal("old", *got.Description)

	taken := "TRAVEL"
	_, err = s.store.UpdateCategory(s.ctx, s.alice.ID, c.ID, CategoryPatch{Name: &taken})
	s.ErrorIs(err, domain.ErrConflict)

	// Renaming to its own name in another case is allowed
	same := "FOOD"
	got, err = s.store.UpdateCategory(s.ctx, s.alice.ID, c.ID, CategoryPatch{Name: &same})
	s.Require().NoError(err)
	s.Equal("FOOD", got.Name)

	empty := ""
	got, err = s.store.UpdateCategory(s.ctx, s.alice.ID, c.ID, CategoryPatch{Description: &empty})
	s.Require().NoError(err)
	s.Nil(got.Description)
}

func (s *StoreTestSuite) TestDeleteCategoryCascades() {
	food := s.category(s.alice.ID, "Food")
	rent := s.category(s.alice.ID, "Rent")
	s.transaction(s.alice.ID, food.ID, "10.00", domain.TransactionExpense)
	s.transaction(s.alice.ID, food.ID, "12.50", domain.TransactionExpense)
	kept := s.transaction(s.alice.ID, rent.ID, "900.00", domain.TransactionExpense)

	s.Require().NoError(s.store.DeleteCategory(s.ctx, s.alice.ID, food.ID))

	_, err := s.store.GetCategory(s.ctx, s.alice.ID, food.ID)
	s.ErrorIs(err, domain.ErrNotFound)
	txs, total, err := s.store.ListTransactions(s.ctx, s.alice.ID, TransactionFilter{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(txs, 1)
	s.Equal(kept.ID, txs[0].ID)
}

func (s *StoreTestSuite) TestCreateTransaction() {
	c := s.category(s.alice.ID, "Groceries")
	t := s.transaction(s.alice.ID, c.ID, "4.50", domain.TransactionExpense)
	s.Equal(s.alice.ID, t.UserID)
	s.Equal(c.ID, t.CategoryID)
	s.Equal("Groceries", t.Category.Name)
	s.True(decimal.RequireFromString("4.5").Equal(t.Amount))

	got, err := s.store.GetTransaction(s.ctx, s.alice.ID, t.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("4.50").Equal(got.Amount))
	s.Equal(domain.TransactionExpense, got.Type)
	s.Equal("Groceries", got.Category.Name)
}

func (s *StoreTestSuite) TestCreateTransactionForeignCategory() {
	c := s.category(s.alice.ID, "Groceries")
	before := s.countTransactions()

	_, err := s.store.CreateTransaction(s.ctx, s.bob.ID, TransactionInput{
		Description: "Milk",
		Amount:      decimal.RequireFromString("4.50"),
		Type:        domain.TransactionExpense,
		CategoryID:  c.ID,
	})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal("Category not found", domain.PublicMessage(err))
	s.Equal(before, s.countTransactions())
}

func (s *StoreTestSuite) TestTransactionIsolation() {
	c := s.category(s.alice.ID, "Groceries")
	t := s.transaction(s.alice.ID, c.ID, "4.50", domain.TransactionExpense)

	_, err := s.store.GetTransaction(s.ctx, s.bob.ID, t.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	desc := "hijacked"
	_, err = s.store.UpdateTransaction(s.ctx, s.bob.ID, t.ID, TransactionPatch{Description: &desc})
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(s.store.DeleteTransaction(s.ctx, s.bob.ID, t.ID), domain.ErrNotFound)

	txs, total, err := s.store.ListTransactions(s.ctx, s.bob.ID, TransactionFilter{})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(txs)

	got, err := s.store.GetTransaction(s.ctx, s.alice.ID, t.ID)
	s.Require().NoError(err)
	s.Equal("tx 4.50", got.Description)
}

func (s *StoreTestSuite) TestUpdateTransaction() {
	food := s.category(s.alice.ID, "Food")
	rent := s.category(s.alice.ID, "Rent")
	t := s.transaction(s.alice.ID, food.ID, "10.00", domain.TransactionExpense)

	amount := decimal.RequireFromString("11.25")
	got, err := s.store.UpdateTransaction(s.ctx, s.alice.ID, t.ID, TransactionPatch{Amount: &amount})
	s.Require().NoError(err)
	s.True(amount.Equal(got.Amount))
	s.Equal("tx 10.00", got.Description)
	s.Equal(domain.TransactionExpense, got.Type)

	income := domain.TransactionIncome
	got, err = s.store.UpdateTransaction(s.ctx, s.alice.ID, t.ID, TransactionPatch{Type: &income, CategoryID: &rent.ID})
	s.Require().NoError(err)
	s.Equal(domain.TransactionIncome, got.Type)
	s.Equal(rent.ID, got.CategoryID)
	s.Equal("Rent", got.Category.Name)
}

func (s *StoreTestSuite) TestUpdateTransactionBadCategoryLeavesRow() {
	food := s.category(s.alice.ID, "Food")
	bobs := s.category(s.bob.ID, "Bob's")
	t := s.transaction(s.alice.ID, food.ID, "10.00", domain.TransactionExpense)

	amount := decimal.RequireFromString("99.00")
	_, err := s.store.UpdateTransaction(s.ctx, s.alice.ID, t.ID, TransactionPatch{Amount: &amount, CategoryID: &bobs.ID})
	s.ErrorIs(err, domain.ErrNotFound)

	got, err := s.store.GetTransaction(s.ctx, s.alice.ID, t.ID)
	s.Require().NoError(err)
	s.Equal(food.ID, got.CategoryID)
	s.True(decimal.RequireFromString("10").Equal(got.Amount))
}

func (s *StoreTestSuite) TestDeleteTransaction() {
	c := s.category(s.alice.ID, "Food")
	t := s.transaction(s.alice.ID, c.ID, "10.00", domain.TransactionExpense)

	s.Require().NoError(s.store.DeleteTransaction(s.ctx, s.alice.ID, t.ID))
	s.ErrorIs(s.store.DeleteTransaction(s.ctx, s.alice.ID, t.ID), domain.ErrNotFound)
	_, err := s.store.GetCategory(s.ctx, s.alice.ID, c.ID)
	s.NoError(err)
}

func (s *StoreTestSuite) TestListTransactionsFilters() {
	food := s.category(s.alice.ID, "Food")
	salary := s.category(s.alice.ID, "Salary")
	for i := 0; i < 3; i++ {
		s.transaction(s.alice.ID, food.ID, "5.00", domain.TransactionExpense)
	}
	s.transaction(s.alice.ID, salary.ID, "1000.00", domain.TransactionIncome)
	s.transaction(s.bob.ID, s.category(s.bob.ID, "Food").ID, "1.00", domain.TransactionExpense)

	_, total, err := s.store.ListTransactions(s.ctx, s.alice.ID, TransactionFilter{})
	s.Require().NoError(err)
	s.Equal(int64(4), total)

	txs, total, err := s.store.ListTransactions(s.ctx, s.alice.ID, TransactionFilter{Type: domain.TransactionIncome})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(txs, 1)
	s.Equal(salary.ID, txs[0].CategoryID)

	txs, total, err = s.store.ListTransactions(s.ctx, s.alice.ID, TransactionFilter{CategoryID: food.ID, Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(txs, 2)

	txs, _, err = s.store.ListTransactions(s.ctx, s.alice.ID, TransactionFilter{CategoryID: food.ID, Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(txs, 1)
	for _, t := range txs {
		s.Equal(s.alice.ID, t.UserID)
		s.Equal("Food", t.Category.Name)
	}
}

func (s *StoreTestSuite) TestSumByType() {
	food := s.category(s.alice.ID, "Food")
	salary := s.category(s.alice.ID, "Salary")
	s.transaction(s.alice.ID, food.ID, "10.25", domain.TransactionExpense)
	s.transaction(s.alice.ID, food.ID, "4.50", domain.TransactionExpense)
	s.transaction(s.alice.ID, salary.ID, "100.00", domain.TransactionIncome)
	s.transaction(s.bob.ID, s.category(s.bob.ID, "Salary").ID, "5000.00", domain.TransactionIncome)

	totals, err := s.store.SumByType(s.ctx, s.alice.ID, time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Equal("100", totals.Income.String())
	s.Equal("14.75", totals.Expense.String())
	s.Equal("85.25", totals.Balance().String())

	future := time.Now().UTC().Add(time.Hour)
	totals, err = s.store.SumByType(s.ctx, s.alice.ID, future, time.Time{})
	s.Require().NoError(err)
	s.True(totals.Income.IsZero())
	s.True(totals.Expense.IsZero())
}

func (s *StoreTestSuite) TestTopCategories() {
	food := s.category(s.alice.ID, "Food")
	rent := s.category(s.alice.ID, "Rent")
	s.category(s.alice.ID, "Unused")
	s.transaction(s.alice.ID, food.ID, "10.00", domain.TransactionExpense)
	s.transaction(s.alice.ID, food.ID, "15.00", domain.TransactionExpense)
	s.transaction(s.alice.ID, rent.ID, "900.00", domain.TransactionExpense)
	s.transaction(s.bob.ID, s.category(s.bob.ID, "Huge").ID, "99999.00", domain.TransactionExpense)

	top, err := s.store.TopCategories(s.ctx, s.alice.ID, 5)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(rent.ID, top[0].CategoryID)
	s.Equal(int64(1), top[0].Count)
	s.Equal("Food", top[1].Name)
	s.Equal(int64(2), top[1].Count)
	s.Equal("25", top[1].Total.String())

	top, err = s.store.TopCategories(s.ctx, s.alice.ID, 1)
	s.Require().NoError(err)
	s.Len(top, 1)
}
