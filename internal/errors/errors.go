// Package errors provides custom error types for the Expensert ledger.
// Every store and service failure is an *AppError so callers can tell a
// validation problem from a conflict or a missing record without string
// matching, and handlers never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError into one of the ledger's error families.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindFormat     Kind = "format"
	KindInternal   Kind = "internal"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, kind, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, ErrCategoryInUse) holds for copies made by Wrap/WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   sentinel.Internal,
	}
}

// KindOf returns the Kind of err. Errors that are not AppErrors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func newError(code, message string, status int, kind Kind) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status, Kind: kind}
}

// General errors.
var (
	ErrInvalidInput   = newError("INVALID_INPUT", "Invalid input", http.StatusBadRequest, KindValidation)
	ErrNotFound       = newError("NOT_FOUND", "Resource not found", http.StatusNotFound, KindNotFound)
	ErrInvalidFormat  = newError("INVALID_FORMAT", "Import payload is malformed", http.StatusBadRequest, KindFormat)
	ErrPersistence    = newError("PERSISTENCE_FAILED", "Failed to persist ledger", http.StatusInternalServerError, KindInternal)
	ErrInternalServer = newError("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError, KindInternal)
)

// Namespace errors.
var (
	ErrInvalidNamespace = newError("INVALID_NAMESPACE", "Namespace must be 1-64 characters of letters, digits, '-', '_' or '.'", http.StatusBadRequest, KindValidation)
)

// Category errors.
var (
	ErrCategoryNotFound      = newError("CATEGORY_NOT_FOUND", "Category not found", http.StatusNotFound, KindNotFound)
	ErrCategoryInUse         = newError("CATEGORY_IN_USE", "Category is in use by transactions or budgets", http.StatusConflict, KindConflict)
	ErrDuplicateCategory     = newError("DUPLICATE_CATEGORY", "A category with this name and type already exists", http.StatusConflict, KindConflict)
	ErrInvalidReassignTarget = newError("INVALID_REASSIGN_TARGET", "Fallback category must exist, differ from the deleted one and share its type", http.StatusBadRequest, KindValidation)
)

// Transaction errors.
var (
	ErrTransactionNotFound    = newError("TRANSACTION_NOT_FOUND", "Transaction not found", http.StatusNotFound, KindNotFound)
	ErrInvalidTransactionType = newError("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense", http.StatusBadRequest, KindValidation)
	ErrNegativeAmount         = newError("NEGATIVE_AMOUNT", "Amount must not be negative", http.StatusBadRequest, KindValidation)
)

// Budget errors.
var (
	ErrBudgetNotFound       = newError("BUDGET_NOT_FOUND", "Budget not found", http.StatusNotFound, KindNotFound)
	ErrDuplicateBudget      = newError("DUPLICATE_BUDGET", "A budget already exists for this category and period", http.StatusConflict, KindConflict)
	ErrInvalidBudgetPeriod  = newError("INVALID_BUDGET_PERIOD", "Budget period must be weekly, monthly or yearly", http.StatusBadRequest, KindValidation)
	ErrInvalidBudgetTarget  = newError("INVALID_BUDGET_CATEGORY", "Budgets can only target an existing expense category", http.StatusBadRequest, KindValidation)
	ErrNonPositiveBudgetAmt = newError("INVALID_BUDGET_AMOUNT", "Budget amount must be greater than zero", http.StatusBadRequest, KindValidation)
)
