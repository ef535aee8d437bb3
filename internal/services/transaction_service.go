package services

import (
	"context"

	"expensert/internal/aggregate"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	ledgers *LedgerRegistry
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(ledgers *LedgerRegistry) TransactionServicer {
	return &transactionService{ledgers: ledgers}
}

// CreateTransaction records a new income or expense.
func (s *transactionService) CreateTransaction(ctx context.Context, namespace string, in ledger.TransactionInput) (*models.Transaction, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	tx, err := store.AddTransaction(in)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "create", "transaction", tx.ID)
	return tx, nil
}

// ListTransactions returns a page of transactions matching filter, newest first.
func (s *transactionService) ListTransactions(
	ctx context.Context,
	namespace string,
	filter aggregate.TransactionFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Transaction], error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	matched := aggregate.Filter(store.Transactions(), filter)
	resp := pagination.Paginate(matched, page)
	return &resp, nil
}

// RecentTransactions returns the latest limit transactions.
func (s *transactionService) RecentTransactions(ctx context.Context, namespace string, limit int) ([]models.Transaction, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return aggregate.Recent(store.Transactions(), limit), nil
}

// GetTransaction returns a single transaction.
func (s *transactionService) GetTransaction(ctx context.Context, namespace, id string) (*models.Transaction, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return store.GetTransaction(id)
}

// UpdateTransaction applies a partial update.
func (s *transactionService) UpdateTransaction(ctx context.Context, namespace, id string, patch ledger.TransactionPatch) (*models.Transaction, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	tx, err := store.UpdateTransaction(id, patch)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "update", "transaction", id)
	return tx, nil
}

// DeleteTransaction removes a transaction. Deleting an unknown id succeeds.
func (s *transactionService) DeleteTransaction(ctx context.Context, namespace, id string) error {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return err
	}

	before := store.Revision()
	if err := store.DeleteTransaction(id); err != nil {
		return err
	}
	if store.Revision() != before {
		s.ledgers.Announce(ctx, namespace, store, "delete", "transaction", id)
	}
	return nil
}
