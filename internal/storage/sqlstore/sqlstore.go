// Package sqlstore persists ledgers as JSON documents in the ledgers table
// through GORM, on SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"expensert/internal/models"
	"expensert/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps ledger documents in a SQL table.
type Store struct {
	db *gorm.DB
}

var _ storage.Backend = (*Store)(nil)

// New wraps an open GORM connection. The ledgers table must exist.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load reads the document stored for namespace.
func (s *Store) Load(ctx context.Context, namespace string) (*models.Document, error) {
	var rec models.LedgerRecord
	err := s.db.WithContext(ctx).Where("namespace = ?", namespace).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ledger %s: %w", namespace, err)
	}
	return storage.Decode([]byte(rec.Payload))
}

// Save upserts the document stored for namespace.
func (s *Store) Save(ctx context.Context, namespace string, doc models.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	rec := models.LedgerRecord{
		Namespace: namespace,
		Revision:  doc.Revision,
		Payload:   string(data),
		UpdatedAt: doc.UpdatedAt,
		CreatedAt: doc.UpdatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"revision", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save ledger %s: %w", namespace, err)
	}
	return nil
}

// Delete removes the document stored for namespace, if any.
func (s *Store) Delete(ctx context.Context, namespace string) error {
	err := s.db.WithContext(ctx).Where("namespace = ?", namespace).Delete(&models.LedgerRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete ledger %s: %w", namespace, err)
	}
	return nil
}

// Namespaces lists the stored namespaces in order.
func (s *Store) Namespaces(ctx context.Context) ([]string, error) {
	out := []string{}
	err := s.db.WithContext(ctx).Model(&models.LedgerRecord{}).Order("namespace").Pluck("namespace", &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
