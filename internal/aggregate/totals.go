package aggregate

import (
	"time"

	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// TotalByType sums the amounts of transactions of type typ. An empty input
// sums to zero.
func TotalByType(txs []models.Transaction, typ models.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == typ {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TotalsByCategory sums transactions of type typ per category reference.
// Categories whose sum is zero are left out of the map.
func TotalsByCategory(txs []models.Transaction, typ models.TransactionType) map[string]decimal.Decimal {
	sums := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}
	for k, v := range sums {
		if v.IsZero() {
			delete(sums, k)
		}
	}
	return sums
}

// Summary is the income, expense and balance of a set of transactions.
type Summary struct {
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
	Balance  decimal.Decimal `json:"balance" yaml:"balance"`
}

// Summarize totals txs by type. Balance is income minus expenses and is what
// the app presents as savings.
func Summarize(txs []models.Transaction) Summary {
	income := TotalByType(txs, models.TransactionTypeIncome)
	expenses := TotalByType(txs, models.TransactionTypeExpense)
	return Summary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}

// MonthTotals is one entry of a monthly trend.
type MonthTotals struct {
	Year     int             `json:"year" yaml:"year"`
	Month    time.Month      `json:"month" yaml:"month"`
	Label    string          `json:"label" yaml:"label"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
}

// MonthlyTrend returns income and expense totals for the monthsBack calendar
// months ending with the month of now, oldest first.
func MonthlyTrend(txs []models.Transaction, monthsBack int, now time.Time) []MonthTotals {
	if monthsBack <= 0 {
		return []MonthTotals{}
	}
	year, month, _ := now.Date()
	out := make([]MonthTotals, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		// Day 1 keeps AddDate from spilling into the next month.
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		inMonth := InMonth(txs, first.Month(), first.Year())
		out = append(out, MonthTotals{
			Year:     first.Year(),
			Month:    first.Month(),
			Label:    first.Format("Jan 2006"),
			Income:   TotalByType(inMonth, models.TransactionTypeIncome),
			Expenses: TotalByType(inMonth, models.TransactionTypeExpense),
		})
	}
	return out
}
