// Package storagetest holds the behaviour every storage.Backend must show,
// run against each implementation by its own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"expensert/internal/models"
	"expensert/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh backend returned by open.
func Run(t *testing.T, open func(t *testing.T) storage.Backend) {
	ctx := context.Background()

	t.Run("load_missing", func(t *testing.T) {
		b := open(t)
		_, err := b.Load(ctx, "nobody")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("save_then_load", func(t *testing.T) {
		b := open(t)
		doc := sampleDocument(1)
		require.NoError(t, b.Save(ctx, "alice", doc))

		got, err := b.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Revision)
		assert.Equal(t, models.DocumentVersion, got.Version)
		require.Len(t, got.Transactions, 1)
		assert.True(t, got.Transactions[0].Amount.Equal(decimal.RequireFromString("12.34")))
		assert.Equal(t, "2024-03-05", got.Transactions[0].Date.String())
		assert.Len(t, got.Categories, 9)
		assert.Equal(t, "₹", got.Preferences.Currency)
	})

	t.Run("save_overwrites", func(t *testing.T) {
		b := open(t)
		require.NoError(t, b.Save(ctx, "alice", sampleDocument(1)))
		second := sampleDocument(2)
		second.Transactions = nil
		require.NoError(t, b.Save(ctx, "alice", second))

		got, err := b.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Revision)
		assert.Empty(t, got.Transactions)
	})

	t.Run("namespaces_are_isolated", func(t *testing.T) {
		b := open(t)
		require.NoError(t, b.Save(ctx, "alice", sampleDocument(1)))
		require.NoError(t, b.Save(ctx, "bob", sampleDocument(7)))

		a, err := b.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), a.Revision)

		names, err := b.Namespaces(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, names)
	})

	t.Run("delete", func(t *testing.T) {
		b := open(t)
		require.NoError(t, b.Save(ctx, "alice", sampleDocument(1)))
		require.NoError(t, b.Delete(ctx, "alice"))
		require.NoError(t, b.Delete(ctx, "alice"))

		_, err := b.Load(ctx, "alice")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func sampleDocument(revision int64) models.Document {
	return models.Document{
		Version:  models.DocumentVersion,
		Revision: revision,
		Transactions: []models.Transaction{{
			ID:        "t1",
			Type:      models.TransactionTypeExpense,
			Amount:    decimal.RequireFromString("12.34"),
			Category:  "4",
			Date:      models.NewDate(2024, time.March, 5),
			CreatedAt: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
		}},
		Categories:  models.DefaultCategories(),
		Budgets:     []models.Budget{},
		Preferences: models.DefaultPreferences(),
		UpdatedAt:   time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
	}
}
