// Package aggregate computes windows, totals and reports over a list of
// transactions. Every function is pure: inputs are never modified and the
// result depends only on the arguments.
package aggregate

import (
	"time"

	"expensert/internal/models"
)

// InRange returns the transactions dated within [from, to], inclusive, in
// their original order.
func InRange(txs []models.Transaction, from, to models.Date) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range txs {
		if tx.Date.Within(from, to) {
			out = append(out, tx)
		}
	}
	return out
}

// MonthBounds returns the first and last day of a calendar month.
func MonthBounds(month time.Month, year int) (models.Date, models.Date) {
	first := models.NewDate(year, month, 1)
	return first, models.NewDate(year, month+1, 1).AddDays(-1)
}

// WeekBounds returns the Sunday on or before ref and the Saturday after it.
func WeekBounds(ref models.Date) (models.Date, models.Date) {
	start := ref.AddDays(-int(ref.Weekday()))
	return start, start.AddDays(6)
}

// YearBounds returns January 1 and December 31 of year.
func YearBounds(year int) (models.Date, models.Date) {
	return models.NewDate(year, time.January, 1), models.NewDate(year, time.December, 31)
}

// InMonth returns the transactions dated within the given calendar month.
func InMonth(txs []models.Transaction, month time.Month, year int) []models.Transaction {
	from, to := MonthBounds(month, year)
	return InRange(txs, from, to)
}

// InWeek returns the transactions dated within the Sunday-to-Saturday week
// containing ref.
func InWeek(txs []models.Transaction, ref models.Date) []models.Transaction {
	from, to := WeekBounds(ref)
	return InRange(txs, from, to)
}

// InYear returns the transactions dated within the given calendar year.
func InYear(txs []models.Transaction, year int) []models.Transaction {
	from, to := YearBounds(year)
	return InRange(txs, from, to)
}
