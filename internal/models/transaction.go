package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense entry in a ledger.
type Transaction struct {
	ID            string          `json:"id" validate:"required"`
	Type          TransactionType `json:"type" validate:"required,transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category" validate:"required"`
	Date          Date            `json:"date" validate:"required"`
	Description   string          `json:"description,omitempty" validate:"max=255"`
	Notes         string          `json:"notes,omitempty" validate:"max=1000"`
	PaymentMethod string          `json:"paymentMethod,omitempty" validate:"max=50"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}
