package ledger

import (
	"strings"
	"unicode/utf8"

	"expensert/internal/models"
)

// Preferences returns the ledger's display preferences.
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone().prefs
}

// SetPaymentMethods replaces the list of payment-method labels. Blank and
// repeated labels (ignoring case) are dropped.
func (s *Store) SetPaymentMethods(methods []string) (models.Preferences, error) {
	var prefs models.Preferences
	err := s.mutate(func(st *state) error {
		cleaned := make([]string, 0, len(methods))
		for _, m := range methods {
			m = strings.TrimSpace(m)
			if m == "" || containsFold(cleaned, m) {
				continue
			}
			if utf8.RuneCountInString(m) > 50 {
				return invalid("payment method %q must be at most 50 characters", m)
			}
			cleaned = append(cleaned, m)
		}
		if len(cleaned) == 0 {
			return invalid("at least one payment method is required")
		}
		st.prefs.PaymentMethods = cleaned
		prefs = st.clone().prefs
		return nil
	})
	return prefs, err
}

// SetCurrency changes the currency symbol amounts are displayed with.
func (s *Store) SetCurrency(symbol string) (models.Preferences, error) {
	var prefs models.Preferences
	err := s.mutate(func(st *state) error {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			return invalid("currency is required")
		}
		if utf8.RuneCountInString(symbol) > 8 {
			return invalid("currency must be at most 8 characters")
		}
		st.prefs.Currency = symbol
		prefs = st.clone().prefs
		return nil
	})
	return prefs, err
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
