package ledger

import (
	"fmt"
	"strings"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionInput is the data needed to record a transaction. Category may
// be a category id or the name of a category of the same type.
type TransactionInput struct {
	Type          models.TransactionType
	Amount        *decimal.Decimal
	Category      string
	Date          models.Date
	Description   string
	Notes         string
	PaymentMethod string
}

// TransactionPatch lists the fields to change on a transaction. Nil fields
// are left alone.
type TransactionPatch struct {
	Type          *models.TransactionType
	Amount        *decimal.Decimal
	Category      *string
	Date          *models.Date
	Description   *string
	Notes         *string
	PaymentMethod *string
}

// AddTransaction validates in, assigns a new id and appends the transaction.
func (s *Store) AddTransaction(in TransactionInput) (*models.Transaction, error) {
	var created models.Transaction
	err := s.mutate(func(st *state) error {
		if in.Amount == nil {
			return invalid("amount is required")
		}
		tx := models.Transaction{
			ID:            s.newID(),
			Type:          in.Type,
			Amount:        *in.Amount,
			Category:      strings.TrimSpace(in.Category),
			Date:          in.Date,
			Description:   strings.TrimSpace(in.Description),
			Notes:         strings.TrimSpace(in.Notes),
			PaymentMethod: strings.TrimSpace(in.PaymentMethod),
			CreatedAt:     s.timestamp(),
		}
		if err := s.checkTransaction(st, &tx); err != nil {
			return err
		}
		st.transactions = append(st.transactions, tx)
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction merges patch into the transaction with the given id.
func (s *Store) UpdateTransaction(id string, patch TransactionPatch) (*models.Transaction, error) {
	var updated models.Transaction
	err := s.mutate(func(st *state) error {
		idx := st.transactionIndex(id)
		if idx < 0 {
			return apperrors.ErrTransactionNotFound
		}

		tx := st.transactions[idx]
		if patch.Type != nil {
			tx.Type = *patch.Type
		}
		if patch.Amount != nil {
			tx.Amount = *patch.Amount
		}
		if patch.Category != nil {
			tx.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Date != nil {
			tx.Date = *patch.Date
		}
		if patch.Description != nil {
			tx.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Notes != nil {
			tx.Notes = strings.TrimSpace(*patch.Notes)
		}
		if patch.PaymentMethod != nil {
			tx.PaymentMethod = strings.TrimSpace(*patch.PaymentMethod)
		}
		now := s.timestamp()
		tx.UpdatedAt = &now

		if err := s.checkTransaction(st, &tx); err != nil {
			return err
		}
		st.transactions[idx] = tx
		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction. Deleting an unknown id succeeds
// without changing anything.
func (s *Store) DeleteTransaction(id string) error {
	return s.mutate(func(st *state) error {
		idx := st.transactionIndex(id)
		if idx < 0 {
			return errUnchanged
		}
		st.transactions = append(st.transactions[:idx], st.transactions[idx+1:]...)
		return nil
	})
}

// GetTransaction returns a copy of the transaction with the given id.
func (s *Store) GetTransaction(id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.state.transactionIndex(id)
	if idx < 0 {
		return nil, apperrors.ErrTransactionNotFound
	}
	tx := s.state.transactions[idx]
	return &tx, nil
}

// Transactions returns all transactions in insertion order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction{}, s.state.transactions...)
}

// checkTransaction validates tx and rewrites its category reference to the
// id of an existing category of the transaction's type.
func (s *Store) checkTransaction(st *state, tx *models.Transaction) error {
	if err := s.check(tx); err != nil {
		return err
	}
	if tx.Amount.IsNegative() {
		return apperrors.ErrNegativeAmount
	}
	if err := checkAmountRange(tx.Amount); err != nil {
		return err
	}

	want := models.CategoryType(tx.Type)
	id, ok := st.normaliseRef(tx.Category, want)
	if !ok {
		return invalid("unknown %s category %q", want, tx.Category)
	}
	cat := st.categoryByID(id)
	if !cat.Accepts(tx.Type) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("category %q is an %s category and cannot hold %s transactions", cat.Name, cat.Type, tx.Type))
	}
	tx.Category = id
	return nil
}
