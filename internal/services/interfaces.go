package services

import (
	"context"
	"time"

	"expensert/internal/aggregate"
	"expensert/internal/budget"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/pagination"
)

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, namespace string, in ledger.TransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, namespace string, filter aggregate.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	RecentTransactions(ctx context.Context, namespace string, limit int) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, namespace, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, namespace, id string, patch ledger.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, namespace, id string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, namespace string, in ledger.CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context, namespace string, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategory(ctx context.Context, namespace, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, namespace, id string, patch ledger.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, namespace, id string, opts ledger.DeleteCategoryOptions) (int, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, namespace string, in ledger.BudgetInput) (*models.Budget, error)
	ListBudgets(ctx context.Context, namespace string, period *models.BudgetPeriod) ([]models.Budget, error)
	GetBudget(ctx context.Context, namespace, id string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, namespace, id string, patch ledger.BudgetPatch) (*models.Budget, error)
	DeleteBudget(ctx context.Context, namespace, id string) error
	GetBudgetProgress(ctx context.Context, namespace, id string) (*budget.Progress, error)
	ListBudgetProgress(ctx context.Context, namespace string) ([]budget.Progress, error)
}

// PeriodReport is the summary and transactions of a date window.
type PeriodReport struct {
	From         models.Date          `json:"from" yaml:"from"`
	To           models.Date          `json:"to" yaml:"to"`
	Summary      aggregate.Summary    `json:"summary" yaml:"summary"`
	Transactions []models.Transaction `json:"transactions" yaml:"transactions"`
}

// ReportServicer defines the contract for aggregated views over a ledger.
type ReportServicer interface {
	Summary(ctx context.Context, namespace string, from, to models.Date) (*aggregate.Summary, error)
	MonthlyReport(ctx context.Context, namespace string, month time.Month, year int) (*aggregate.Report, error)
	Trend(ctx context.Context, namespace string, months int) ([]aggregate.MonthTotals, error)
	CategoryTotals(ctx context.Context, namespace string, txType models.TransactionType, month time.Month, year int) ([]aggregate.CategoryTotal, error)
	Week(ctx context.Context, namespace string, ref models.Date) (*PeriodReport, error)
	Year(ctx context.Context, namespace string, year int) (*PeriodReport, error)
}

// DataServicer defines the contract for whole-ledger import, export and reset.
type DataServicer interface {
	Export(ctx context.Context, namespace string) ([]byte, error)
	Import(ctx context.Context, namespace string, data []byte) error
	Clear(ctx context.Context, namespace string) error
}

// SettingsServicer defines the contract for ledger preferences.
type SettingsServicer interface {
	GetSettings(ctx context.Context, namespace string) (*models.Preferences, error)
	SetPaymentMethods(ctx context.Context, namespace string, methods []string) (*models.Preferences, error)
	SetCurrency(ctx context.Context, namespace, currency string) (*models.Preferences, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(namespace, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
