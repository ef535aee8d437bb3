// Package boltstore persists ledgers in a local bbolt key-value file: one
// bucket, the namespace as key, the JSON document as value.
package boltstore

import (
	"context"
	"fmt"
	"time"

	"expensert/internal/models"
	"expensert/internal/storage"

	bolt "go.etcd.io/bbolt"
)

// BucketLedgers holds one document per namespace.
const BucketLedgers = "ledgers"

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

var _ storage.Backend = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and initializes the
// ledger bucket.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketLedgers)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketLedgers, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the document stored for namespace.
func (s *Store) Load(ctx context.Context, namespace string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedgers))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedgers)
		}

		v := b.Get([]byte(namespace))
		if v == nil {
			return storage.ErrNotFound
		}
		// Copy the value since it's only valid during the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return storage.Decode(data)
}

// Save replaces the document stored for namespace.
func (s *Store) Save(ctx context.Context, namespace string, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedgers))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedgers)
		}
		return b.Put([]byte(namespace), data)
	})
}

// Delete removes the document stored for namespace, if any.
func (s *Store) Delete(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedgers))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedgers)
		}
		return b.Delete([]byte(namespace))
	})
}

// Namespaces lists the stored namespaces in key order.
func (s *Store) Namespaces(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedgers))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedgers)
		}
		return b.ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}
