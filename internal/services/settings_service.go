package services

import (
	"context"

	"expensert/internal/models"
)

// settingsService handles ledger preferences.
type settingsService struct {
	ledgers *LedgerRegistry
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(ledgers *LedgerRegistry) SettingsServicer {
	return &settingsService{ledgers: ledgers}
}

// GetSettings returns the currency symbol and payment methods.
func (s *settingsService) GetSettings(ctx context.Context, namespace string) (*models.Preferences, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	prefs := store.Preferences()
	return &prefs, nil
}

// SetPaymentMethods replaces the list of payment methods.
func (s *settingsService) SetPaymentMethods(ctx context.Context, namespace string, methods []string) (*models.Preferences, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	prefs, err := store.SetPaymentMethods(methods)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "update", "settings", "payment_methods")
	return &prefs, nil
}

// SetCurrency changes the currency symbol shown next to amounts.
func (s *settingsService) SetCurrency(ctx context.Context, namespace, currency string) (*models.Preferences, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	prefs, err := store.SetCurrency(currency)
	if err != nil {
		return nil, err
	}

	s.ledgers.Announce(ctx, namespace, store, "update", "settings", "currency")
	return &prefs, nil
}
