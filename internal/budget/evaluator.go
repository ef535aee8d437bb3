// Package budget derives spending progress for budgets from a ledger
// snapshot.
package budget

import (
	"time"

	"expensert/internal/aggregate"
	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// Status thresholds, in percent of the budget amount. A percentage equal to a
// threshold falls into the higher band.
var (
	WarningThreshold = decimal.NewFromInt(50)
	DangerThreshold  = decimal.NewFromInt(80)
)

var hundred = decimal.NewFromInt(100)

// Progress is the state of one budget within its current period.
type Progress struct {
	BudgetID     string              `json:"budgetId" yaml:"budgetId"`
	Category     string              `json:"category" yaml:"category"`
	CategoryName string              `json:"categoryName" yaml:"categoryName"`
	Period       models.BudgetPeriod `json:"period" yaml:"period"`
	Amount       decimal.Decimal     `json:"amount" yaml:"amount"`
	Spent        decimal.Decimal     `json:"spent" yaml:"spent"`
	Remaining    decimal.Decimal     `json:"remaining" yaml:"remaining"`
	Percentage   float64             `json:"percentage" yaml:"percentage"`
	Status       models.BudgetStatus `json:"status" yaml:"status"`
	OverBudget   bool                `json:"overBudget" yaml:"overBudget"`
	PeriodStart  models.Date         `json:"periodStart" yaml:"periodStart"`
	PeriodEnd    models.Date         `json:"periodEnd" yaml:"periodEnd"`
}

// Evaluator computes budget progress relative to its clock.
type Evaluator struct {
	now func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the clock that anchors budget periods.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator returns an Evaluator anchored to the wall clock unless
// configured otherwise.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window returns the inclusive date range of the period containing now:
// Sunday to Saturday, calendar month or calendar year. ok is false for an
// unknown period.
func Window(period models.BudgetPeriod, now time.Time) (from, to models.Date, ok bool) {
	today := models.DateOf(now)
	switch period {
	case models.BudgetPeriodWeekly:
		from, to = aggregate.WeekBounds(today)
	case models.BudgetPeriodMonthly:
		from, to = aggregate.MonthBounds(today.Month(), today.Year())
	case models.BudgetPeriodYearly:
		from, to = aggregate.YearBounds(today.Year())
	default:
		return models.Date{}, models.Date{}, false
	}
	return from, to, true
}

// Evaluate computes the progress of b against the transactions in snap. It
// returns nil when the budget's category no longer exists.
func (e *Evaluator) Evaluate(snap models.Snapshot, b models.Budget) *Progress {
	var cat *models.Category
	for i := range snap.Categories {
		if snap.Categories[i].ID == b.Category {
			cat = &snap.Categories[i]
			break
		}
	}
	if cat == nil {
		return nil
	}

	from, to, ok := Window(b.Period, e.now())
	if !ok {
		return nil
	}

	spent := decimal.Zero
	for _, tx := range aggregate.InRange(snap.Transactions, from, to) {
		if tx.Type == models.TransactionTypeExpense && tx.Category == b.Category {
			spent = spent.Add(tx.Amount)
		}
	}

	pct := Percentage(spent, b.Amount)
	return &Progress{
		BudgetID:     b.ID,
		Category:     b.Category,
		CategoryName: cat.Name,
		Period:       b.Period,
		Amount:       b.Amount,
		Spent:        spent,
		Remaining:    b.Amount.Sub(spent),
		Percentage:   pct.Round(2).InexactFloat64(),
		Status:       StatusFor(pct),
		OverBudget:   spent.GreaterThan(b.Amount),
		PeriodStart:  from,
		PeriodEnd:    to,
	}
}

// EvaluateAll evaluates every budget in snap whose category still exists,
// in budget order.
func (e *Evaluator) EvaluateAll(snap models.Snapshot) []Progress {
	out := []Progress{}
	for _, b := range snap.Budgets {
		if p := e.Evaluate(snap, b); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Percentage returns spent as a percentage of amount. A zero amount yields 0
// when nothing was spent and 100 otherwise.
func Percentage(spent, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		if spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return spent.Div(amount).Mul(hundred)
}

// StatusFor classifies a percentage: below 50 is normal, from 50 up to 80 is
// warning, 80 and above is danger.
func StatusFor(pct decimal.Decimal) models.BudgetStatus {
	switch {
	case pct.GreaterThanOrEqual(DangerThreshold):
		return models.BudgetStatusDanger
	case pct.GreaterThanOrEqual(WarningThreshold):
		return models.BudgetStatusWarning
	default:
		return models.BudgetStatusNormal
	}
}
