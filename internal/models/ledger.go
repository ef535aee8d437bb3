package models

import "time"

// DocumentVersion is the schema version written into every persisted Document.
const DocumentVersion = 1

// DefaultCurrency is the currency symbol a fresh ledger displays amounts with.
const DefaultCurrency = "₹"

// Snapshot is the import/export unit of a ledger.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Budgets      []Budget      `json:"budgets"`
}

// Preferences hold presentation settings stored alongside a ledger.
type Preferences struct {
	Currency       string   `json:"currency"`
	PaymentMethods []string `json:"paymentMethods"`
}

// Document is what a storage backend persists for one namespace.
type Document struct {
	Version      int           `json:"version"`
	Revision     int64         `json:"revision"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Budgets      []Budget      `json:"budgets"`
	Preferences  Preferences   `json:"preferences"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Snapshot returns the ledger collections of the document.
func (d Document) Snapshot() Snapshot {
	return Snapshot{
		Transactions: d.Transactions,
		Categories:   d.Categories,
		Budgets:      d.Budgets,
	}
}

// DefaultCategories returns the seed categories of a new or cleared ledger.
// Ids are stable so that imported data from older exports keeps resolving.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Salary", Type: CategoryTypeIncome, Color: "#10b981", Icon: "money-bill-wave"},
		{ID: "2", Name: "Freelance", Type: CategoryTypeIncome, Color: "#3b82f6", Icon: "laptop-code"},
		{ID: "3", Name: "Investments", Type: CategoryTypeIncome, Color: "#f59e0b", Icon: "chart-line"},
		{ID: "4", Name: "Food", Type: CategoryTypeExpense, Color: "#ef4444", Icon: "utensils"},
		{ID: "5", Name: "Transportation", Type: CategoryTypeExpense, Color: "#6366f1", Icon: "car"},
		{ID: "6", Name: "Housing", Type: CategoryTypeExpense, Color: "#8b5cf6", Icon: "home"},
		{ID: "7", Name: "Entertainment", Type: CategoryTypeExpense, Color: "#ec4899", Icon: "film"},
		{ID: "8", Name: "Shopping", Type: CategoryTypeExpense, Color: "#f97316", Icon: "shopping-bag"},
		{ID: "9", Name: "Utilities", Type: CategoryTypeExpense, Color: "#14b8a6", Icon: "bolt"},
	}
}

// DefaultPreferences returns the preferences of a new ledger.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency: DefaultCurrency,
		PaymentMethods: []string{
			"Cash", "Credit Card", "Debit Card", "Bank Transfer",
			"Digital Wallet", "Check", "Other",
		},
	}
}
