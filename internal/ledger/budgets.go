package ledger

import (
	"fmt"
	"strings"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// BudgetInput is the data needed to create a budget. Category may be a
// category id or the name of an expense category.
type BudgetInput struct {
	Category string
	Amount   *decimal.Decimal
	Period   models.BudgetPeriod
}

// BudgetPatch lists the fields to change on a budget.
type BudgetPatch struct {
	Category *string
	Amount   *decimal.Decimal
	Period   *models.BudgetPeriod
}

// AddBudget creates a budget. There is at most one budget per category and
// period.
func (s *Store) AddBudget(in BudgetInput) (*models.Budget, error) {
	var created models.Budget
	err := s.mutate(func(st *state) error {
		if in.Amount == nil {
			return invalid("amount is required")
		}
		b := models.Budget{
			ID:        s.newID(),
			Category:  strings.TrimSpace(in.Category),
			Amount:    *in.Amount,
			Period:    in.Period,
			CreatedAt: s.timestamp(),
		}
		if err := s.checkBudget(st, &b); err != nil {
			return err
		}
		st.budgets = append(st.budgets, b)
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBudget merges patch into the budget with the given id.
func (s *Store) UpdateBudget(id string, patch BudgetPatch) (*models.Budget, error) {
	var updated models.Budget
	err := s.mutate(func(st *state) error {
		idx := st.budgetIndex(id)
		if idx < 0 {
			return apperrors.ErrBudgetNotFound
		}

		b := st.budgets[idx]
		if patch.Category != nil {
			b.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Amount != nil {
			b.Amount = *patch.Amount
		}
		if patch.Period != nil {
			b.Period = *patch.Period
		}
		if err := s.checkBudget(st, &b); err != nil {
			return err
		}
		st.budgets[idx] = b
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBudget removes a budget. Deleting an unknown id succeeds without
// changing anything.
func (s *Store) DeleteBudget(id string) error {
	return s.mutate(func(st *state) error {
		idx := st.budgetIndex(id)
		if idx < 0 {
			return errUnchanged
		}
		st.budgets = append(st.budgets[:idx], st.budgets[idx+1:]...)
		return nil
	})
}

// GetBudget returns a copy of the budget with the given id.
func (s *Store) GetBudget(id string) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.state.budgetIndex(id)
	if idx < 0 {
		return nil, apperrors.ErrBudgetNotFound
	}
	b := s.state.budgets[idx]
	return &b, nil
}

// Budgets returns all budgets in insertion order.
func (s *Store) Budgets() []models.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Budget{}, s.state.budgets...)
}

// checkBudget validates b, resolves its category to an expense category id
// and enforces the one-budget-per-category-and-period rule.
func (s *Store) checkBudget(st *state, b *models.Budget) error {
	if err := s.check(b); err != nil {
		return err
	}
	if !b.Amount.IsPositive() {
		return apperrors.ErrNonPositiveBudgetAmt
	}
	if err := checkAmountRange(b.Amount); err != nil {
		return err
	}

	id, ok := st.normaliseRef(b.Category, models.CategoryTypeExpense)
	if !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidBudgetTarget,
			fmt.Sprintf("unknown expense category %q", b.Category))
	}
	cat := st.categoryByID(id)
	if cat.Type != models.CategoryTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidBudgetTarget,
			fmt.Sprintf("category %q is an income category; budgets only apply to expenses", cat.Name))
	}
	b.Category = id

	for _, other := range st.budgets {
		if other.ID != b.ID && other.Category == b.Category && other.Period == b.Period {
			return apperrors.WithMessage(apperrors.ErrDuplicateBudget,
				fmt.Sprintf("Budget for %s already exists for %s period", cat.Name, b.Period))
		}
	}
	return nil
}
