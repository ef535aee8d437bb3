package sqlstore

import (
	"context"
	"testing"
	"time"

	"expensert/internal/models"
	"expensert/internal/storage"
	"expensert/internal/storage/storagetest"
	"expensert/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
		return New(db)
	})
}

func TestSaveUpdatesRecordColumns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := New(db)
	ctx := context.Background()

	first := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, "alice", models.Document{Revision: 1, UpdatedAt: first}))
	require.NoError(t, s.Save(ctx, "alice", models.Document{Revision: 5, UpdatedAt: first.Add(time.Hour)}))

	var rec models.LedgerRecord
	require.NoError(t, db.First(&rec, "namespace = ?", "alice").Error)
	assert.Equal(t, int64(5), rec.Revision)
	assert.True(t, rec.UpdatedAt.Equal(first.Add(time.Hour)))

	var count int64
	db.Model(&models.LedgerRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
