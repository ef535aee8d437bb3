package services

import (
	"context"
	"time"

	"expensert/internal/budget"
	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	ledgers *LedgerRegistry
	clock   func() time.Time
}

// NewBudgetService creates a new BudgetServicer. Progress is evaluated
// against clock.
func NewBudgetService(ledgers *LedgerRegistry, clock func() time.Time) BudgetServicer {
	if clock == nil {
		clock = time.Now
	}
	return &budgetService{ledgers: ledgers, clock: clock}
}

// CreateBudget sets a spending limit on an expense category.
func (s *budgetService) CreateBudget(ctx context.Context, namespace string, in ledger.BudgetInput) (*models.Budget, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	b, err := store.AddBudget(in)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "create", "budget", b.ID)
	return b, nil
}

// ListBudgets returns every budget, or only those with the given period.
func (s *budgetService) ListBudgets(ctx context.Context, namespace string, period *models.BudgetPeriod) ([]models.Budget, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	all := store.Budgets()
	if period == nil {
		return all, nil
	}
	out := []models.Budget{}
	for _, b := range all {
		if b.Period == *period {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBudget returns a single budget.
func (s *budgetService) GetBudget(ctx context.Context, namespace, id string) (*models.Budget, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return store.GetBudget(id)
}

// UpdateBudget changes a budget's category, amount or period.
func (s *budgetService) UpdateBudget(ctx context.Context, namespace, id string, patch ledger.BudgetPatch) (*models.Budget, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	b, err := store.UpdateBudget(id, patch)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "update", "budget", id)
	return b, nil
}

// DeleteBudget removes a budget. Deleting an unknown id succeeds.
func (s *budgetService) DeleteBudget(ctx context.Context, namespace, id string) error {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return err
	}

	before := store.Revision()
	if err := store.DeleteBudget(id); err != nil {
		return err
	}
	if store.Revision() != before {
		s.ledgers.Announce(ctx, namespace, store, "delete", "budget", id)
	}
	return nil
}

// GetBudgetProgress evaluates one budget against the current period.
func (s *budgetService) GetBudgetProgress(ctx context.Context, namespace, id string) (*budget.Progress, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	b, err := store.GetBudget(id)
	if err != nil {
		return nil, err
	}

	progress := s.evaluator().Evaluate(store.Snapshot(), *b)
	if progress == nil {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Budget category no longer exists")
	}
	return progress, nil
}

// ListBudgetProgress evaluates every budget whose category still exists.
func (s *budgetService) ListBudgetProgress(ctx context.Context, namespace string) ([]budget.Progress, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return s.evaluator().EvaluateAll(store.Snapshot()), nil
}

func (s *budgetService) evaluator() *budget.Evaluator {
	return budget.NewEvaluator(budget.WithClock(s.clock))
}
