package ledger_test

import (
	"encoding/json"
	"testing"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/testutil"
)

func populated(t *testing.T) *ledger.Store {
	t.Helper()
	s := testutil.NewTestStore(t)
	testutil.AddTestTransaction(t, s, models.TransactionTypeIncome, "2500.00", "Salary", "2024-03-01")
	testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "12.345", "Food", "2024-03-05")
	testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "0", "Utilities", "2024-02-28")
	testutil.AddTestBudget(t, s, "Food", "300", models.BudgetPeriodMonthly)
	return s
}

func TestExportSnapshot(t *testing.T) {
	s := populated(t)
	out, err := s.ExportSnapshot()
	testutil.AssertNoError(t, err)

	var top map[string]json.RawMessage
	testutil.AssertNoError(t, json.Unmarshal(out, &top))
	if len(top) != 3 {
		t.Errorf("expected exactly 3 top-level keys, got %d", len(top))
	}
	for _, key := range []string{"transactions", "categories", "budgets"} {
		if _, ok := top[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	t.Run("empty_collections_are_arrays", func(t *testing.T) {
		out, err := ledger.New().ExportSnapshot()
		testutil.AssertNoError(t, err)
		var snap map[string][]json.RawMessage
		testutil.AssertNoError(t, json.Unmarshal(out, &snap))
		if snap["transactions"] == nil || snap["budgets"] == nil {
			t.Errorf("expected [] not null: %s", out)
		}
	})
}

func TestImportAll(t *testing.T) {
	t.Run("round_trip_is_noop", func(t *testing.T) {
		s := populated(t)
		before, err := s.ExportSnapshot()
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, s.ImportAll(before))

		after, err := s.ExportSnapshot()
		testutil.AssertNoError(t, err)
		if string(before) != string(after) {
			t.Errorf("round trip changed state\nbefore: %s\nafter:  %s", before, after)
		}
	})

	t.Run("replaces_all_collections", func(t *testing.T) {
		s := populated(t)
		payload := `{
			"transactions": [{"id":"t1","type":"expense","amount":9.5,"category":"Rent","date":"2024-01-10"}],
			"categories":   [{"id":"c1","name":"Rent","type":"expense","color":"#123456","icon":"home"}],
			"budgets":      []
		}`
		testutil.AssertNoError(t, s.ImportAll([]byte(payload)))

		snap := s.Snapshot()
		if len(snap.Transactions) != 1 || len(snap.Categories) != 1 || len(snap.Budgets) != 0 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
		if snap.Transactions[0].Category != "c1" {
			t.Errorf("expected name reference normalised to c1, got %s", snap.Transactions[0].Category)
		}
		testutil.AssertDecimal(t, snap.Transactions[0].Amount, "9.5")
	})

	t.Run("keeps_preferences", func(t *testing.T) {
		s := populated(t)
		_, err := s.SetCurrency("$")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, s.ImportAll([]byte(`{"transactions":[],"categories":[],"budgets":[]}`)))
		if s.Preferences().Currency != "$" {
			t.Errorf("expected preferences to survive import")
		}
	})

	rejected := []struct {
		name    string
		payload string
	}{
		{"not_json", `nope`},
		{"array_top_level", `[]`},
		{"null", `null`},
		{"missing_budgets", `{"transactions":[],"categories":[]}`},
		{"transactions_not_array", `{"transactions":{},"categories":[],"budgets":[]}`},
		{"budgets_null", `{"transactions":[],"categories":[],"budgets":null}`},
		{"negative_amount", `{"transactions":[{"id":"t","type":"expense","amount":-1,"category":"4","date":"2024-01-01"}],"categories":[],"budgets":[]}`},
		{"huge_transaction_amount", `{"transactions":[{"id":"t","type":"expense","amount":1e5000000,"category":"4","date":"2024-01-01"}],"categories":[],"budgets":[]}`},
		{"too_precise_transaction_amount", `{"transactions":[{"id":"t","type":"expense","amount":"0.000000001","category":"4","date":"2024-01-01"}],"categories":[],"budgets":[]}`},
		{"huge_budget_amount", `{"transactions":[],"categories":[],"budgets":[{"id":"1","category":"4","amount":"1e5000000","period":"monthly"}]}`},
		{"bad_type", `{"transactions":[{"id":"t","type":"gift","amount":1,"category":"4","date":"2024-01-01"}],"categories":[],"budgets":[]}`},
		{"bad_date", `{"transactions":[{"id":"t","type":"expense","amount":1,"category":"4","date":"March"}],"categories":[],"budgets":[]}`},
		{"missing_id", `{"transactions":[],"categories":[{"name":"X","type":"expense"}],"budgets":[]}`},
		{"duplicate_category", `{"transactions":[],"categories":[{"id":"a","name":"X","type":"expense"},{"id":"b","name":"x","type":"expense"}],"budgets":[]}`},
		{"duplicate_budget", `{"transactions":[],"categories":[{"id":"a","name":"X","type":"expense"}],"budgets":[{"id":"1","category":"a","amount":5,"period":"monthly"},{"id":"2","category":"X","amount":6,"period":"monthly"}]}`},
		{"bad_period", `{"transactions":[],"categories":[],"budgets":[{"id":"1","category":"a","amount":5,"period":"daily"}]}`},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			s := populated(t)
			before, err := s.ExportSnapshot()
			testutil.AssertNoError(t, err)

			err = s.ImportAll([]byte(tc.payload))
			testutil.AssertAppError(t, err, "INVALID_FORMAT")
			testutil.AssertErrorKind(t, err, apperrors.KindFormat)

			after, err := s.ExportSnapshot()
			testutil.AssertNoError(t, err)
			if string(before) != string(after) {
				t.Error("rejected import changed state")
			}
		})
	}
}

func TestClearAll(t *testing.T) {
	s := populated(t)
	testutil.AddTestCategory(t, s, "Pets", models.CategoryTypeExpense)

	testutil.AssertNoError(t, s.ClearAll())

	snap := s.Snapshot()
	if len(snap.Transactions) != 0 || len(snap.Budgets) != 0 {
		t.Errorf("expected empty collections, got %+v", snap)
	}
	if len(snap.Categories) != 9 || snap.Categories[3].Name != "Food" {
		t.Errorf("expected default categories, got %+v", snap.Categories)
	}
}

func TestPreferences(t *testing.T) {
	t.Run("payment_methods_cleaned", func(t *testing.T) {
		s := ledger.New()
		prefs, err := s.SetPaymentMethods([]string{" Cash ", "cash", "", "UPI"})
		testutil.AssertNoError(t, err)
		if len(prefs.PaymentMethods) != 2 || prefs.PaymentMethods[1] != "UPI" {
			t.Errorf("unexpected methods: %v", prefs.PaymentMethods)
		}
	})

	t.Run("payment_methods_required", func(t *testing.T) {
		s := ledger.New()
		_, err := s.SetPaymentMethods([]string{" "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("currency", func(t *testing.T) {
		s := ledger.New()
		prefs, err := s.SetCurrency(" € ")
		testutil.AssertNoError(t, err)
		if prefs.Currency != "€" {
			t.Errorf("expected €, got %q", prefs.Currency)
		}
		_, err = s.SetCurrency("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
