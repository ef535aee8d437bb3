package services

import (
	"context"

	"expensert/internal/ledger"
	"expensert/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	ledgers *LedgerRegistry
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(ledgers *LedgerRegistry) CategoryServicer {
	return &categoryService{ledgers: ledgers}
}

// CreateCategory adds a category to the ledger.
func (s *categoryService) CreateCategory(ctx context.Context, namespace string, in ledger.CategoryInput) (*models.Category, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	cat, err := store.AddCategory(in)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "create", "category", cat.ID)
	return cat, nil
}

// ListCategories returns every category, or only those of categoryType.
func (s *categoryService) ListCategories(ctx context.Context, namespace string, categoryType *models.CategoryType) ([]models.Category, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if categoryType != nil {
		return store.CategoriesByType(*categoryType), nil
	}
	return store.Categories(), nil
}

// GetCategory returns a single category.
func (s *categoryService) GetCategory(ctx context.Context, namespace, id string) (*models.Category, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return store.GetCategory(id)
}

// UpdateCategory renames or restyles a category.
func (s *categoryService) UpdateCategory(ctx context.Context, namespace, id string, patch ledger.CategoryPatch) (*models.Category, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	cat, err := store.UpdateCategory(id, patch)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "update", "category", id)
	return cat, nil
}

// DeleteCategory removes a category, optionally moving its transactions to
// another one first. It returns the number of reassigned transactions.
func (s *categoryService) DeleteCategory(ctx context.Context, namespace, id string, opts ledger.DeleteCategoryOptions) (int, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return 0, err
	}

	moved, err := store.DeleteCategory(id, opts)
	if err != nil {
		return 0, err
	}

	s.ledgers.Announce(ctx, namespace, store, "delete", "category", id)
	return moved, nil
}
