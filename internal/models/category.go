package models

import "strings"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category groups transactions of one type.
type Category struct {
	ID    string       `json:"id" validate:"required"`
	Name  string       `json:"name" validate:"required,max=50"`
	Type  CategoryType `json:"type" validate:"required,category_type"`
	Color string       `json:"color" validate:"omitempty,hex_color"`
	Icon  string       `json:"icon" validate:"max=50"`
}

// Accepts reports whether transactions of type t may be filed under c.
func (c Category) Accepts(t TransactionType) bool {
	return string(c.Type) == string(t)
}

// SameName compares category names the way the uniqueness rule does:
// case-insensitively, ignoring surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
