package ledger_test

import (
	"encoding/json"
	"testing"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/testutil"
)

func validInput() ledger.TransactionInput {
	return ledger.TransactionInput{
		Type:          models.TransactionTypeExpense,
		Amount:        testutil.Amount("50"),
		Category:      "4",
		Date:          testutil.Date("2024-03-05"),
		Description:   "  Groceries  ",
		PaymentMethod: "Cash",
	}
}

func TestAddTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx, err := s.AddTransaction(validInput())
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected an id to be assigned")
		}
		if tx.Description != "Groceries" {
			t.Errorf("expected trimmed description, got %q", tx.Description)
		}
		testutil.AssertDecimal(t, tx.Amount, "50")
		if tx.CreatedAt.IsZero() || tx.UpdatedAt != nil {
			t.Errorf("unexpected timestamps: created=%v updated=%v", tx.CreatedAt, tx.UpdatedAt)
		}

		got, err := s.GetTransaction(tx.ID)
		testutil.AssertNoError(t, err)
		if got.ID != tx.ID {
			t.Errorf("expected %s, got %s", tx.ID, got.ID)
		}
	})

	t.Run("zero_amount_is_valid", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		in := validInput()
		in.Amount = testutil.Amount("0")
		_, err := s.AddTransaction(in)
		testutil.AssertNoError(t, err)
	})

	t.Run("category_name_resolves_to_id", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		in := validInput()
		in.Category = "food"
		tx, err := s.AddTransaction(in)
		testutil.AssertNoError(t, err)
		if tx.Category != "4" {
			t.Errorf("expected category 4, got %s", tx.Category)
		}
	})

	t.Run("ids_are_unique", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			tx, err := s.AddTransaction(validInput())
			testutil.AssertNoError(t, err)
			if seen[tx.ID] {
				t.Fatalf("duplicate id %s", tx.ID)
			}
			seen[tx.ID] = true
		}
	})

	invalid := []struct {
		name   string
		modify func(*ledger.TransactionInput)
		code   string
	}{
		{"negative_amount", func(in *ledger.TransactionInput) { in.Amount = testutil.Amount("-0.01") }, "NEGATIVE_AMOUNT"},
		{"missing_amount", func(in *ledger.TransactionInput) { in.Amount = nil }, "INVALID_INPUT"},
		{"unknown_type", func(in *ledger.TransactionInput) { in.Type = "transfer" }, "INVALID_TRANSACTION_TYPE"},
		{"missing_type", func(in *ledger.TransactionInput) { in.Type = "" }, "INVALID_INPUT"},
		{"missing_category", func(in *ledger.TransactionInput) { in.Category = " " }, "INVALID_INPUT"},
		{"missing_date", func(in *ledger.TransactionInput) { in.Date = models.Date{} }, "INVALID_INPUT"},
		{"unknown_category", func(in *ledger.TransactionInput) { in.Category = "Travel" }, "INVALID_INPUT"},
		{"category_of_other_type", func(in *ledger.TransactionInput) { in.Category = "1" }, "INVALID_INPUT"},
		{"huge_exponent", func(in *ledger.TransactionInput) { in.Amount = testutil.Amount("1e5000000") }, "INVALID_INPUT"},
		{"amount_too_large", func(in *ledger.TransactionInput) { in.Amount = testutil.Amount("1000000000000000") }, "INVALID_INPUT"},
		{"too_many_decimal_places", func(in *ledger.TransactionInput) { in.Amount = testutil.Amount("0.000000001") }, "INVALID_INPUT"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewTestStore(t)
			in := validInput()
			tc.modify(&in)
			_, err := s.AddTransaction(in)
			testutil.AssertAppError(t, err, tc.code)
			testutil.AssertErrorKind(t, err, apperrors.KindValidation)
			if got := len(s.Transactions()); got != 0 {
				t.Errorf("expected no transaction stored, got %d", got)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("merges_patch_and_keeps_id", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx, err := s.AddTransaction(validInput())
		testutil.AssertNoError(t, err)

		notes := "weekly shop"
		updated, err := s.UpdateTransaction(tx.ID, ledger.TransactionPatch{
			Amount: testutil.Amount("75.25"),
			Notes:  &notes,
		})
		testutil.AssertNoError(t, err)

		if updated.ID != tx.ID {
			t.Errorf("expected id %s, got %s", tx.ID, updated.ID)
		}
		testutil.AssertDecimal(t, updated.Amount, "75.25")
		if updated.Notes != "weekly shop" || updated.Description != "Groceries" {
			t.Errorf("unexpected merged record: %+v", updated)
		}
		if updated.UpdatedAt == nil {
			t.Error("expected updatedAt to be set")
		}
	})

	t.Run("type_change_requires_matching_category", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx, err := s.AddTransaction(validInput())
		testutil.AssertNoError(t, err)

		income := models.TransactionTypeIncome
		_, err = s.UpdateTransaction(tx.ID, ledger.TransactionPatch{Type: &income})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		salary := "Salary"
		updated, err := s.UpdateTransaction(tx.ID, ledger.TransactionPatch{Type: &income, Category: &salary})
		testutil.AssertNoError(t, err)
		if updated.Category != "1" || updated.Type != income {
			t.Errorf("unexpected record: %+v", updated)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.UpdateTransaction("missing", ledger.TransactionPatch{})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
		testutil.AssertErrorKind(t, err, apperrors.KindNotFound)
	})

	t.Run("invalid_patch_leaves_record", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx, err := s.AddTransaction(validInput())
		testutil.AssertNoError(t, err)

		_, err = s.UpdateTransaction(tx.ID, ledger.TransactionPatch{Amount: testutil.Amount("-1")})
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")

		_, err = s.UpdateTransaction(tx.ID, ledger.TransactionPatch{Amount: testutil.Amount("1e5000000")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		got, err := s.GetTransaction(tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, got.Amount, "50")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("add_then_delete_restores_set", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		testutil.AddTestTransaction(t, s, models.TransactionTypeIncome, "100", "1", "2024-01-01")
		testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "20", "5", "2024-01-02")
		before, err := json.Marshal(s.Transactions())
		testutil.AssertNoError(t, err)

		tx, err := s.AddTransaction(validInput())
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, s.DeleteTransaction(tx.ID))

		after, err := json.Marshal(s.Transactions())
		testutil.AssertNoError(t, err)
		if string(before) != string(after) {
			t.Errorf("expected transaction set to be restored\nbefore: %s\nafter:  %s", before, after)
		}
	})

	t.Run("missing_id_is_noop", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		testutil.AssertNoError(t, s.DeleteTransaction("missing"))
	})

	t.Run("get_after_delete", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "5", "4", "2024-03-01")
		testutil.AssertNoError(t, s.DeleteTransaction(tx.ID))
		_, err := s.GetTransaction(tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionsInsertionOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "1", "4", "2024-03-09")
	b := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "2", "4", "2024-03-01")
	c := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "3", "4", "2024-03-05")

	got := s.Transactions()
	if got[0].ID != a.ID || got[1].ID != b.ID || got[2].ID != c.ID {
		t.Errorf("expected insertion order, got %v", []string{got[0].ID, got[1].ID, got[2].ID})
	}
}
