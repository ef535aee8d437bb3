package ledger

import (
	"fmt"
	"strings"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"
)

// CategoryInput is the data needed to create a category.
type CategoryInput struct {
	Name  string
	Type  models.CategoryType
	Color string
	Icon  string
}

// CategoryPatch lists the fields to change on a category. The type of a
// category is fixed at creation.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

// DeleteCategoryOptions controls what happens to transactions that still
// reference a category being deleted.
type DeleteCategoryOptions struct {
	// ReassignTo, when set, moves referencing transactions to this category,
	// which must have the same type. Budgets are never reassigned.
	ReassignTo string
}

// AddCategory creates a category. Names are unique per type, ignoring case.
func (s *Store) AddCategory(in CategoryInput) (*models.Category, error) {
	var created models.Category
	err := s.mutate(func(st *state) error {
		cat := models.Category{
			ID:    s.newID(),
			Name:  strings.TrimSpace(in.Name),
			Type:  in.Type,
			Color: strings.TrimSpace(in.Color),
			Icon:  strings.TrimSpace(in.Icon),
		}
		if err := s.check(&cat); err != nil {
			return err
		}
		if st.categoryByName(cat.Name, cat.Type) != nil {
			return duplicateCategory(cat)
		}
		st.categories = append(st.categories, cat)
		created = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory renames or restyles a category.
func (s *Store) UpdateCategory(id string, patch CategoryPatch) (*models.Category, error) {
	var updated models.Category
	err := s.mutate(func(st *state) error {
		idx := st.categoryIndex(id)
		if idx < 0 {
			return apperrors.ErrCategoryNotFound
		}

		cat := st.categories[idx]
		if patch.Name != nil {
			cat.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Color != nil {
			cat.Color = strings.TrimSpace(*patch.Color)
		}
		if patch.Icon != nil {
			cat.Icon = strings.TrimSpace(*patch.Icon)
		}
		if err := s.check(&cat); err != nil {
			return err
		}
		if other := st.categoryByName(cat.Name, cat.Type); other != nil && other.ID != cat.ID {
			return duplicateCategory(cat)
		}
		st.categories[idx] = cat
		updated = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category that nothing references. With
// opts.ReassignTo set, referencing transactions are moved first; budgets
// always block the delete. It returns the number of moved transactions.
func (s *Store) DeleteCategory(id string, opts DeleteCategoryOptions) (int, error) {
	moved := 0
	err := s.mutate(func(st *state) error {
		idx := st.categoryIndex(id)
		if idx < 0 {
			return apperrors.ErrCategoryNotFound
		}
		cat := st.categories[idx]

		budgets := 0
		for _, b := range st.budgets {
			if b.Category == id {
				budgets++
			}
		}
		if budgets > 0 {
			return apperrors.WithMessage(apperrors.ErrCategoryInUse,
				fmt.Sprintf("Cannot delete category %q: it is used by %d budget(s)", cat.Name, budgets))
		}

		var refs []int
		for i, tx := range st.transactions {
			if tx.Category == id {
				refs = append(refs, i)
			}
		}
		if len(refs) > 0 {
			if opts.ReassignTo == "" {
				return apperrors.WithMessage(apperrors.ErrCategoryInUse,
					fmt.Sprintf("Cannot delete category %q: it is used by %d transaction(s)", cat.Name, len(refs)))
			}
			target := st.categoryByID(opts.ReassignTo)
			if target == nil || target.ID == id || target.Type != cat.Type {
				return apperrors.ErrInvalidReassignTarget
			}
			now := s.timestamp()
			for _, i := range refs {
				st.transactions[i].Category = target.ID
				st.transactions[i].UpdatedAt = &now
			}
			moved = len(refs)
		}

		st.categories = append(st.categories[:idx], st.categories[idx+1:]...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// GetCategory returns a copy of the category with the given id.
func (s *Store) GetCategory(id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat := s.state.categoryByID(id)
	if cat == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	c := *cat
	return &c, nil
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category{}, s.state.categories...)
}

// CategoriesByType returns the categories of one type in insertion order.
func (s *Store) CategoriesByType(typ models.CategoryType) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Category{}
	for _, c := range s.state.categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func duplicateCategory(cat models.Category) error {
	return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
		fmt.Sprintf("Category %q already exists for %s", cat.Name, cat.Type))
}
