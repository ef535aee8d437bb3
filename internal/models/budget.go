package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spending in one expense category over a recurring period.
type Budget struct {
	ID        string          `json:"id" validate:"required"`
	Category  string          `json:"category" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Period    BudgetPeriod    `json:"period" validate:"required,budget_period"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BudgetStatus classifies how much of a budget has been spent.
type BudgetStatus string

const (
	BudgetStatusNormal  BudgetStatus = "normal"
	BudgetStatusWarning BudgetStatus = "warning"
	BudgetStatusDanger  BudgetStatus = "danger"
)
