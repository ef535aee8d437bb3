package services

import (
	"context"
	"testing"

	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/testutil"
)

func monthlyBudget(category, amount string) ledger.BudgetInput {
	return ledger.BudgetInput{
		Category: category,
		Amount:   testutil.Amount(amount),
		Period:   models.BudgetPeriodMonthly,
	}
}

func TestCreateBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))

		b, err := svc.CreateBudget(ctx, "alice", monthlyBudget("Food", "500"))
		testutil.AssertNoError(t, err)

		if b.Category != "4" {
			t.Errorf("expected category 4, got %s", b.Category)
		}
		testutil.AssertDecimal(t, b.Amount, "500")
	})

	t.Run("duplicate", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))
		_, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "500"))
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(ctx, "alice", monthlyBudget("4", "300"))
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})

	t.Run("income_category", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))

		_, err := svc.CreateBudget(ctx, "alice", monthlyBudget("1", "500"))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_CATEGORY")
	})

	t.Run("zero_amount", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))

		_, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "0"))
		testutil.AssertAppError(t, err, "INVALID_BUDGET_AMOUNT")
	})
}

func TestListBudgets(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)
	svc := NewBudgetService(reg, testutil.FixedClock(testNow))

	_, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "500"))
	testutil.AssertNoError(t, err)
	_, err = svc.CreateBudget(ctx, "alice", ledger.BudgetInput{
		Category: "5",
		Amount:   testutil.Amount("50"),
		Period:   models.BudgetPeriodWeekly,
	})
	testutil.AssertNoError(t, err)

	all, err := svc.ListBudgets(ctx, "alice", nil)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 budgets, got %d", len(all))
	}

	weekly := models.BudgetPeriodWeekly
	filtered, err := svc.ListBudgets(ctx, "alice", &weekly)
	testutil.AssertNoError(t, err)
	if len(filtered) != 1 || filtered[0].Category != "5" {
		t.Errorf("expected only the weekly transportation budget, got %+v", filtered)
	}
}

func TestBudgetProgress(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		spend  []string
		pct    float64
		status models.BudgetStatus
	}{
		{name: "nothing_spent", pct: 0, status: models.BudgetStatusNormal},
		{name: "below_half", spend: []string{"20", "29.99"}, pct: 49.99, status: models.BudgetStatusNormal},
		{name: "exactly_half", spend: []string{"50"}, pct: 50, status: models.BudgetStatusWarning},
		{name: "exactly_eighty", spend: []string{"30", "50"}, pct: 80, status: models.BudgetStatusDanger},
		{name: "over_budget", spend: []string{"150"}, pct: 150, status: models.BudgetStatusDanger},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg, _, _ := newTestRegistry(t)
			svc := NewBudgetService(reg, testutil.FixedClock(testNow))
			txSvc := NewTransactionService(reg)

			b, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "100"))
			testutil.AssertNoError(t, err)
			for _, amount := range tc.spend {
				_, err := txSvc.CreateTransaction(ctx, "alice", expenseInput(amount, "4", "2024-03-10"))
				testutil.AssertNoError(t, err)
			}
			// Outside the current month, so never counted.
			_, err = txSvc.CreateTransaction(ctx, "alice", expenseInput("999", "4", "2024-02-28"))
			testutil.AssertNoError(t, err)

			p, err := svc.GetBudgetProgress(ctx, "alice", b.ID)
			testutil.AssertNoError(t, err)

			if p.Percentage != tc.pct {
				t.Errorf("expected percentage %v, got %v", tc.pct, p.Percentage)
			}
			if p.Status != tc.status {
				t.Errorf("expected status %s, got %s", tc.status, p.Status)
			}
			if p.CategoryName != "Food" {
				t.Errorf("expected category name Food, got %s", p.CategoryName)
			}
		})
	}

	t.Run("not_found", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))

		_, err := svc.GetBudgetProgress(ctx, "alice", "missing")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("list", func(t *testing.T) {
		reg, _, _ := newTestRegistry(t)
		svc := NewBudgetService(reg, testutil.FixedClock(testNow))
		_, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "100"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateBudget(ctx, "alice", monthlyBudget("5", "100"))
		testutil.AssertNoError(t, err)

		all, err := svc.ListBudgetProgress(ctx, "alice")
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Errorf("expected 2 progress entries, got %d", len(all))
		}
	})
}

func TestDeleteBudget(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)
	svc := NewBudgetService(reg, testutil.FixedClock(testNow))
	catSvc := NewCategoryService(reg)

	b, err := svc.CreateBudget(ctx, "alice", monthlyBudget("4", "100"))
	testutil.AssertNoError(t, err)

	_, err = catSvc.DeleteCategory(ctx, "alice", "4", ledger.DeleteCategoryOptions{})
	testutil.AssertAppError(t, err, "CATEGORY_IN_USE")

	testutil.AssertNoError(t, svc.DeleteBudget(ctx, "alice", b.ID))
	testutil.AssertNoError(t, svc.DeleteBudget(ctx, "alice", b.ID))

	_, err = catSvc.DeleteCategory(ctx, "alice", "4", ledger.DeleteCategoryOptions{})
	testutil.AssertNoError(t, err)
}
