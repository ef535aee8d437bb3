package ledger

import (
	"bytes"
	"encoding/json"
	"errors"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"
)

var snapshotKeys = []string{"transactions", "categories", "budgets"}

// ImportAll replaces all three collections with the snapshot in data. The
// payload is rejected as a whole, leaving the ledger untouched, unless every
// top-level array is present and every record is valid. Category references
// given by name are rewritten to ids where a matching category exists.
// Preferences are not part of a snapshot and are kept.
func (s *Store) ImportAll(data []byte) error {
	snap, err := s.decodeSnapshot(data)
	if err != nil {
		return err
	}
	return s.mutate(func(st *state) error {
		st.transactions = snap.Transactions
		st.categories = snap.Categories
		st.budgets = snap.Budgets
		return nil
	})
}

// ExportSnapshot serialises the three collections as indented JSON.
func (s *Store) ExportSnapshot() ([]byte, error) {
	snap := s.Snapshot()
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}

// ClearAll empties the ledger and reseeds the default categories.
func (s *Store) ClearAll() error {
	return s.mutate(func(st *state) error {
		st.transactions = []models.Transaction{}
		st.budgets = []models.Budget{}
		st.categories = models.DefaultCategories()
		return nil
	})
}

func (s *Store) decodeSnapshot(data []byte) (*models.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, malformed("import payload must be a JSON object with transactions, categories and budgets arrays")
	}
	for _, key := range snapshotKeys {
		raw, ok := top[key]
		if !ok {
			return nil, malformed("import payload is missing %q", key)
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, malformed("%q must be an array", key)
		}
	}

	snap := models.Snapshot{}
	if err := json.Unmarshal(top["categories"], &snap.Categories); err != nil {
		return nil, malformed("categories: %v", err)
	}
	if err := json.Unmarshal(top["transactions"], &snap.Transactions); err != nil {
		return nil, malformed("transactions: %v", err)
	}
	if err := json.Unmarshal(top["budgets"], &snap.Budgets); err != nil {
		return nil, malformed("budgets: %v", err)
	}

	if err := s.checkSnapshot(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// checkSnapshot validates imported records. Dangling category references are
// kept as they are; reports file them under "Uncategorized".
func (s *Store) checkSnapshot(snap *models.Snapshot) error {
	st := state{categories: snap.Categories}

	seen := map[string]bool{}
	for i := range snap.Categories {
		c := &snap.Categories[i]
		if err := s.check(c); err != nil {
			return recordError("categories", i, err)
		}
		if seen[c.ID] {
			return malformed("categories[%d]: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		for _, prev := range snap.Categories[:i] {
			if prev.Type == c.Type && models.SameName(prev.Name, c.Name) {
				return malformed("categories[%d]: duplicate %s category %q", i, c.Type, c.Name)
			}
		}
	}

	seen = map[string]bool{}
	for i := range snap.Transactions {
		tx := &snap.Transactions[i]
		if err := s.check(tx); err != nil {
			return recordError("transactions", i, err)
		}
		if tx.Amount.IsNegative() {
			return malformed("transactions[%d]: amount must not be negative", i)
		}
		if !models.AmountInRange(tx.Amount) {
			return malformed("transactions[%d]: amount out of range", i)
		}
		if seen[tx.ID] {
			return malformed("transactions[%d]: duplicate id %q", i, tx.ID)
		}
		seen[tx.ID] = true
		tx.Category, _ = st.normaliseRef(tx.Category, models.CategoryType(tx.Type))
	}

	seen = map[string]bool{}
	pairs := map[string]bool{}
	for i := range snap.Budgets {
		b := &snap.Budgets[i]
		if err := s.check(b); err != nil {
			return recordError("budgets", i, err)
		}
		if b.Amount.IsNegative() {
			return malformed("budgets[%d]: amount must not be negative", i)
		}
		if !models.AmountInRange(b.Amount) {
			return malformed("budgets[%d]: amount out of range", i)
		}
		if seen[b.ID] {
			return malformed("budgets[%d]: duplicate id %q", i, b.ID)
		}
		seen[b.ID] = true
		b.Category, _ = st.normaliseRef(b.Category, models.CategoryTypeExpense)
		pair := b.Category + "|" + string(b.Period)
		if pairs[pair] {
			return malformed("budgets[%d]: a %s budget for category %q already exists", i, b.Period, b.Category)
		}
		pairs[pair] = true
	}
	return nil
}

func recordError(collection string, i int, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return malformed("%s[%d]: %s", collection, i, appErr.Message)
	}
	return malformed("%s[%d]: %v", collection, i, err)
}
