// Package validator provides the custom validation rules shared by Gin's
// binding engine and the ledger store boundary.
package validator

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"expensert/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	hexColorRegex  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	namespaceRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

// New returns a standalone validator carrying the same rules as Gin's engine.
// Field names in errors are the JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	register(v)
	return v
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("namespace", validateNamespace)
	v.RegisterCustomTypeFunc(dateValue, models.Date{})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

// IsNamespace reports whether s is a valid ledger namespace.
func IsNamespace(s string) bool {
	return namespaceRegex.MatchString(s)
}

func dateValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(models.Date); ok {
		return d.String()
	}
	return nil
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		// Out-of-range values are reported as NaN rather than expanded.
		if !models.AmountInRange(d) {
			return math.NaN()
		}
		return d.InexactFloat64()
	}
	return nil
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).Valid()
}

func validateNamespace(fl validator.FieldLevel) bool {
	return IsNamespace(fl.Field().String())
}
