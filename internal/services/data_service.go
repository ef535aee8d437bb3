package services

import (
	"context"

	"expensert/internal/ledger"
)

// dataService handles whole-ledger export, import and reset.
type dataService struct {
	ledgers *LedgerRegistry
}

// NewDataService creates a new DataServicer.
func NewDataService(ledgers *LedgerRegistry) DataServicer {
	return &dataService{ledgers: ledgers}
}

// Export serialises the ledger's transactions, categories and budgets.
func (s *dataService) Export(ctx context.Context, namespace string) ([]byte, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return store.ExportSnapshot()
}

// Import replaces the ledger's contents with a previously exported snapshot.
// A rejected payload leaves the ledger untouched.
func (s *dataService) Import(ctx context.Context, namespace string, data []byte) error {
	return s.replace(ctx, namespace, "import", func(store *ledger.Store) error {
		return store.ImportAll(data)
	})
}

// Clear wipes the ledger and restores the default categories.
func (s *dataService) Clear(ctx context.Context, namespace string) error {
	return s.replace(ctx, namespace, "clear", func(store *ledger.Store) error {
		return store.ClearAll()
	})
}

func (s *dataService) replace(ctx context.Context, namespace, action string, fn func(*ledger.Store) error) error {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	s.ledgers.Announce(ctx, namespace, store, action, "ledger", namespace)
	return nil
}
