package aggregate

import (
	"sort"

	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a transaction list. Zero-valued fields match
// everything; date and amount bounds are inclusive.
type TransactionFilter struct {
	Type      models.TransactionType
	Category  string
	From      models.Date
	To        models.Date
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Match reports whether tx passes every set criterion of f.
func (f TransactionFilter) Match(tx models.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Filter returns the transactions matching f, newest date first. Transactions
// sharing a date keep their original relative order.
func Filter(txs []models.Transaction, f TransactionFilter) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders txs by date, latest first, stable on ties.
func SortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// Recent returns up to limit transactions, newest first.
func Recent(txs []models.Transaction, limit int) []models.Transaction {
	out := append([]models.Transaction{}, txs...)
	SortNewestFirst(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
