package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"expensert/internal/ledger"
	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Date parses a "YYYY-MM-DD" literal and panics on malformed input.
func Date(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Amount parses a decimal literal for use as an input amount.
func Amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// NewTestStore returns an in-memory ledger seeded with the default
// categories and a clock fixed at 2024-03-15 12:00 UTC.
func NewTestStore(t *testing.T, opts ...ledger.Option) *ledger.Store {
	t.Helper()
	base := []ledger.Option{
		ledger.WithDefaults(),
		ledger.WithClock(FixedClock(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC))),
	}
	return ledger.New(append(base, opts...)...)
}

// AddTestTransaction records a transaction and fails the test on error.
func AddTestTransaction(t *testing.T, s *ledger.Store, typ models.TransactionType, amount, category, date string) *models.Transaction {
	t.Helper()

	tx, err := s.AddTransaction(ledger.TransactionInput{
		Type:     typ,
		Amount:   Amount(amount),
		Category: category,
		Date:     Date(date),
	})
	if err != nil {
		t.Fatalf("failed to add test transaction: %v", err)
	}
	return tx
}

// AddTestCategory creates a category and fails the test on error.
func AddTestCategory(t *testing.T, s *ledger.Store, name string, typ models.CategoryType) *models.Category {
	t.Helper()

	cat, err := s.AddCategory(ledger.CategoryInput{
		Name:  name,
		Type:  typ,
		Color: "#6b7280",
		Icon:  "tag",
	})
	if err != nil {
		t.Fatalf("failed to add test category: %v", err)
	}
	return cat
}

// AddTestBudget creates a budget and fails the test on error.
func AddTestBudget(t *testing.T, s *ledger.Store, category, amount string, period models.BudgetPeriod) *models.Budget {
	t.Helper()

	b, err := s.AddBudget(ledger.BudgetInput{
		Category: category,
		Amount:   Amount(amount),
		Period:   period,
	})
	if err != nil {
		t.Fatalf("failed to add test budget: %v", err)
	}
	return b
}
