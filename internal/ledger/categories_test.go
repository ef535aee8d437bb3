package ledger_test

import (
	"testing"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/testutil"
)

func TestAddCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := ledger.New()
		cat, err := s.AddCategory(ledger.CategoryInput{Name: "Food", Type: models.CategoryTypeExpense, Color: "#ef4444", Icon: "utensils"})
		testutil.AssertNoError(t, err)
		if cat.ID == "" || cat.Name != "Food" {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("duplicate_name_and_type", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.AddCategory(ledger.CategoryInput{Name: " FOOD ", Type: models.CategoryTypeExpense, Color: "#000"})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
		testutil.AssertErrorKind(t, err, apperrors.KindConflict)
	})

	t.Run("same_name_other_type", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.AddCategory(ledger.CategoryInput{Name: "Food", Type: models.CategoryTypeIncome, Color: "#000"})
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_color", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.AddCategory(ledger.CategoryInput{Name: "Pets", Type: models.CategoryTypeExpense, Color: "red"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.AddCategory(ledger.CategoryInput{Name: "Pets", Type: "transfer"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_name", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.AddCategory(ledger.CategoryInput{Name: "   ", Type: models.CategoryTypeExpense})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		name := "Groceries"
		cat, err := s.UpdateCategory("4", ledger.CategoryPatch{Name: &name})
		testutil.AssertNoError(t, err)
		if cat.Name != "Groceries" || cat.Type != models.CategoryTypeExpense {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("rename_to_existing_name_conflicts", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		name := "housing"
		_, err := s.UpdateCategory("4", ledger.CategoryPatch{Name: &name})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("case_change_of_own_name", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		name := "FOOD"
		_, err := s.UpdateCategory("4", ledger.CategoryPatch{Name: &name})
		testutil.AssertNoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.UpdateCategory("missing", ledger.CategoryPatch{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unused", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		moved, err := s.DeleteCategory("9", ledger.DeleteCategoryOptions{})
		testutil.AssertNoError(t, err)
		if moved != 0 {
			t.Errorf("expected nothing moved, got %d", moved)
		}
		_, err = s.GetCategory("9")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_, err := s.DeleteCategory("missing", ledger.DeleteCategoryOptions{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("in_use_by_transaction_until_deleted", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		a := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "10", "4", "2024-03-01")
		b := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "20", "4", "2024-03-02")

		_, err := s.DeleteCategory("4", ledger.DeleteCategoryOptions{})
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
		testutil.AssertErrorKind(t, err, apperrors.KindConflict)
		if _, err := s.GetCategory("4"); err != nil {
			t.Fatalf("category should survive a rejected delete: %v", err)
		}

		testutil.AssertNoError(t, s.DeleteTransaction(a.ID))
		testutil.AssertNoError(t, s.DeleteTransaction(b.ID))
		_, err = s.DeleteCategory("4", ledger.DeleteCategoryOptions{})
		testutil.AssertNoError(t, err)
	})

	t.Run("in_use_by_budget", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		testutil.AddTestBudget(t, s, "4", "100", models.BudgetPeriodMonthly)
		_, err := s.DeleteCategory("4", ledger.DeleteCategoryOptions{ReassignTo: "5"})
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("reassign_moves_transactions", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		tx := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "10", "4", "2024-03-01")
		other := testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "10", "6", "2024-03-01")

		moved, err := s.DeleteCategory("4", ledger.DeleteCategoryOptions{ReassignTo: "8"})
		testutil.AssertNoError(t, err)
		if moved != 1 {
			t.Errorf("expected 1 moved transaction, got %d", moved)
		}

		got, err := s.GetTransaction(tx.ID)
		testutil.AssertNoError(t, err)
		if got.Category != "8" || got.UpdatedAt == nil {
			t.Errorf("expected transaction moved to 8, got %+v", got)
		}
		untouched, err := s.GetTransaction(other.ID)
		testutil.AssertNoError(t, err)
		if untouched.Category != "6" {
			t.Errorf("unrelated transaction moved to %s", untouched.Category)
		}
	})

	t.Run("reassign_target_must_match_type", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		testutil.AddTestTransaction(t, s, models.TransactionTypeExpense, "10", "4", "2024-03-01")

		for _, target := range []string{"1", "4", "missing"} {
			_, err := s.DeleteCategory("4", ledger.DeleteCategoryOptions{ReassignTo: target})
			testutil.AssertAppError(t, err, "INVALID_REASSIGN_TARGET")
		}
		if _, err := s.GetCategory("4"); err != nil {
			t.Errorf("category should survive: %v", err)
		}
	})
}

func TestCategoriesByType(t *testing.T) {
	s := testutil.NewTestStore(t)
	testutil.AddTestCategory(t, s, "Gifts", models.CategoryTypeIncome)

	income := s.CategoriesByType(models.CategoryTypeIncome)
	if len(income) != 4 || income[3].Name != "Gifts" {
		t.Errorf("unexpected income categories: %+v", income)
	}
}
