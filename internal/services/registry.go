package services

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "expensert/internal/errors"
	"expensert/internal/events"
	"expensert/internal/ledger"
	"expensert/internal/logger"
	"expensert/internal/models"
	"expensert/internal/storage"
	"expensert/internal/validator"
)

// RegistryOption configures a LedgerRegistry.
type RegistryOption func(*LedgerRegistry)

// WithInstanceID names this process in published changes so it can ignore
// its own notifications.
func WithInstanceID(id string) RegistryOption {
	return func(r *LedgerRegistry) { r.instance = id }
}

// WithCommitTimeout bounds how long a backend save may take.
func WithCommitTimeout(d time.Duration) RegistryOption {
	return func(r *LedgerRegistry) { r.timeout = d }
}

// WithLedgerClock sets the clock handed to every ledger.
func WithLedgerClock(now func() time.Time) RegistryOption {
	return func(r *LedgerRegistry) { r.clock = now }
}

// LedgerRegistry owns one ledger.Store per namespace. Stores are loaded from
// the backend on first use, or seeded with the default categories when the
// namespace has never been saved, and every commit is written back.
type LedgerRegistry struct {
	backend   storage.Backend
	publisher events.Publisher
	instance  string
	timeout   time.Duration
	clock     func() time.Time

	mu      sync.Mutex
	ledgers map[string]*ledger.Store
}

// NewLedgerRegistry creates a registry persisting to backend and announcing
// commits through publisher.
func NewLedgerRegistry(backend storage.Backend, publisher events.Publisher, opts ...RegistryOption) *LedgerRegistry {
	if publisher == nil {
		publisher = events.Nop{}
	}
	r := &LedgerRegistry{
		backend:   backend,
		publisher: publisher,
		timeout:   5 * time.Second,
		clock:     time.Now,
		ledgers:   map[string]*ledger.Store{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ledger returns the store for namespace, loading it if needed.
func (r *LedgerRegistry) Ledger(ctx context.Context, namespace string) (*ledger.Store, error) {
	if !validator.IsNamespace(namespace) {
		return nil, apperrors.ErrInvalidNamespace
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.ledgers[namespace]; ok {
		return s, nil
	}

	opts := []ledger.Option{
		ledger.WithClock(r.clock),
		ledger.WithCommitHook(r.commitHook(namespace)),
	}

	var s *ledger.Store
	doc, err := r.backend.Load(ctx, namespace)
	switch {
	case err == nil:
		s = ledger.FromDocument(*doc, opts...)
	case errors.Is(err, storage.ErrNotFound):
		s = ledger.New(append(opts, ledger.WithDefaults())...)
		logger.Get().Infow("Seeded new ledger", "namespace", namespace)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	r.ledgers[namespace] = s
	return s, nil
}

// Invalidate drops the cached store for namespace; the next access re-reads
// the backend.
func (r *LedgerRegistry) Invalidate(namespace string) {
	r.mu.Lock()
	delete(r.ledgers, namespace)
	r.mu.Unlock()
}

// HandleChange reacts to a change published by another instance.
func (r *LedgerRegistry) HandleChange(change events.Change) error {
	if change.Origin == r.instance {
		return nil
	}
	logger.Get().Debugw("Invalidating ledger changed elsewhere",
		"namespace", change.Namespace,
		"origin", change.Origin,
		"revision", change.Revision)
	r.Invalidate(change.Namespace)
	return nil
}

// Namespaces lists every namespace the backend holds.
func (r *LedgerRegistry) Namespaces(ctx context.Context) ([]string, error) {
	names, err := r.backend.Namespaces(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return names, nil
}

// Announce publishes a committed change. Publishing failures are logged only:
// the write itself has already succeeded.
func (r *LedgerRegistry) Announce(ctx context.Context, namespace string, s *ledger.Store, action, resource, resourceID string) {
	change := events.Change{
		Namespace:  namespace,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Revision:   s.Revision(),
		Origin:     r.instance,
		Timestamp:  r.clock().UTC(),
	}
	if err := r.publisher.Publish(ctx, change); err != nil {
		logger.Get().Warnw("Failed to publish ledger change",
			"error", err,
			"namespace", namespace,
			"action", action)
	}
}

func (r *LedgerRegistry) commitHook(namespace string) ledger.CommitHook {
	return func(doc models.Document) error {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		return r.backend.Save(ctx, namespace, doc)
	}
}
