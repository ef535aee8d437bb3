package aggregate

import (
	"fmt"
	"sort"
	"time"

	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// Uncategorized labels totals whose category reference matches no category.
const Uncategorized = "Uncategorized"

// CategoryTotal is one category's share of a type total.
type CategoryTotal struct {
	CategoryID string          `json:"categoryId" yaml:"categoryId"`
	Name       string          `json:"name" yaml:"name"`
	Color      string          `json:"color,omitempty" yaml:"color,omitempty"`
	Total      decimal.Decimal `json:"total" yaml:"total"`
}

// Report is the monthly report offered for download.
type Report struct {
	Period             string               `json:"period" yaml:"period"`
	Summary            Summary              `json:"summary" yaml:"summary"`
	ExpensesByCategory []CategoryTotal      `json:"expensesByCategory" yaml:"expensesByCategory"`
	IncomeByCategory   []CategoryTotal      `json:"incomeByCategory" yaml:"incomeByCategory"`
	Transactions       []models.Transaction `json:"transactions" yaml:"transactions"`
}

// Breakdown resolves the per-category totals of txs of type typ against
// categories and sorts them by total, largest first, then by name.
func Breakdown(txs []models.Transaction, categories []models.Category, typ models.TransactionType) []CategoryTotal {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	grouped := map[string]*CategoryTotal{}
	for ref, sum := range TotalsByCategory(txs, typ) {
		key, entry := ref, CategoryTotal{CategoryID: ref, Name: Uncategorized}
		if c, ok := byID[ref]; ok {
			entry.Name, entry.Color = c.Name, c.Color
		} else {
			key, entry.CategoryID = "", ""
		}
		if existing, ok := grouped[key]; ok {
			existing.Total = existing.Total.Add(sum)
			continue
		}
		entry.Total = sum
		grouped[key] = &entry
	}

	out := make([]CategoryTotal, 0, len(grouped))
	for _, e := range grouped {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthlyReport builds the report for one calendar month. Transactions are
// listed newest first.
func MonthlyReport(txs []models.Transaction, categories []models.Category, month time.Month, year int) Report {
	inMonth := InMonth(txs, month, year)
	SortNewestFirst(inMonth)
	return Report{
		Period:             fmt.Sprintf("%s %d", month, year),
		Summary:            Summarize(inMonth),
		ExpensesByCategory: Breakdown(inMonth, categories, models.TransactionTypeExpense),
		IncomeByCategory:   Breakdown(inMonth, categories, models.TransactionTypeIncome),
		Transactions:       inMonth,
	}
}
