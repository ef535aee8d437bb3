package ledger

import (
	"errors"
	"fmt"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// check runs the struct rules on v and converts the first failure into an
// AppError naming the offending field.
func (s *Store) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "transaction_type":
		return apperrors.ErrInvalidTransactionType
	case "budget_period":
		return apperrors.ErrInvalidBudgetPeriod
	case "required":
		return invalid("%s is required", fe.Field())
	case "hex_color":
		return invalid("%s must be a hex color such as #10b981", fe.Field())
	case "category_type":
		return invalid("%s must be income or expense", fe.Field())
	case "max":
		return invalid("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return invalid("%s is invalid", fe.Field())
}

// checkAmountRange rejects amounts outside models.AmountInRange.
func checkAmountRange(d decimal.Decimal) error {
	if models.AmountInRange(d) {
		return nil
	}
	return invalid("amount must be below %s with at most %d decimal places", models.MaxAmount, models.MaxAmountScale)
}

func invalid(format string, args ...interface{}) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func malformed(format string, args ...interface{}) error {
	return apperrors.WithMessage(apperrors.ErrInvalidFormat, fmt.Sprintf(format, args...))
}
