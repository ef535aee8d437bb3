// Package storage defines where ledgers are persisted. A backend keeps one
// Document per namespace and knows nothing about its contents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"expensert/internal/models"
)

// ErrNotFound is returned by Load when a namespace has never been saved.
var ErrNotFound = errors.New("ledger not found")

// Backend persists ledger documents keyed by namespace. Save replaces the
// stored document wholesale: the last writer wins.
type Backend interface {
	Load(ctx context.Context, namespace string) (*models.Document, error)
	Save(ctx context.Context, namespace string, doc models.Document) error
	Delete(ctx context.Context, namespace string) error
	Namespaces(ctx context.Context) ([]string, error)
	Close() error
}

// Encode serialises a document the way every backend stores it.
func Encode(doc models.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return data, nil
}

// Decode parses a stored document.
func Decode(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger: %w", err)
	}
	return &doc, nil
}

// Memory is a Backend that keeps encoded documents in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{docs: map[string][]byte{}}
}

func (m *Memory) Load(ctx context.Context, namespace string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.docs[namespace]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (m *Memory) Save(ctx context.Context, namespace string, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[namespace] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.docs, namespace)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Namespaces(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.docs))
	for ns := range m.docs {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }
