// Package ledger holds the authoritative in-memory state of one ledger:
// transactions, categories and budgets, with referential integrity between
// them. Every mutation is applied to a copy of the state, handed to an
// optional commit hook, and only becomes visible once the hook succeeds.
package ledger

import (
	"errors"
	"sync"
	"time"

	apperrors "expensert/internal/errors"
	"expensert/internal/models"
	"expensert/internal/uuid"
	appvalidator "expensert/internal/validator"

	"github.com/go-playground/validator/v10"
)

// CommitHook persists a document before the mutation that produced it is
// made visible. A non-nil error discards the mutation.
type CommitHook func(doc models.Document) error

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for bookkeeping timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithCommitHook installs the persistence hook run by every mutation.
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) { s.commit = hook }
}

// WithDefaults seeds the default categories into a new store.
func WithDefaults() Option {
	return func(s *Store) { s.state.categories = models.DefaultCategories() }
}

// Store is a single ledger. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	state    state
	now      func() time.Time
	newID    func() string
	commit   CommitHook
	validate *validator.Validate
}

// errUnchanged tells mutate that the operation succeeded without touching
// the state, so there is nothing to commit.
var errUnchanged = errors.New("ledger unchanged")

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state: state{
			transactions: []models.Transaction{},
			categories:   []models.Category{},
			budgets:      []models.Budget{},
			prefs:        models.DefaultPreferences(),
		},
		now:      time.Now,
		newID:    uuid.New,
		validate: appvalidator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromDocument returns a store holding the contents of a persisted document.
func FromDocument(doc models.Document, opts ...Option) *Store {
	s := New(opts...)
	s.state = stateFromDocument(doc)
	return s
}

// Document returns the persistable form of the current state.
func (s *Store) Document() models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone().document(s.now())
}

// Snapshot returns a deep copy of the three collections. Callers may keep
// and modify it freely.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state.clone()
	return models.Snapshot{
		Transactions: c.transactions,
		Categories:   c.categories,
		Budgets:      c.budgets,
	}
}

// Revision counts the mutations committed since the ledger was created.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.revision
}

func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	next.revision++

	if s.commit != nil {
		if err := s.commit(next.document(s.now())); err != nil {
			return apperrors.Wrap(apperrors.ErrPersistence, err)
		}
	}
	s.state = next
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

type state struct {
	revision     int64
	transactions []models.Transaction
	categories   []models.Category
	budgets      []models.Budget
	prefs        models.Preferences
}

func stateFromDocument(doc models.Document) state {
	st := state{
		revision:     doc.Revision,
		transactions: append([]models.Transaction{}, doc.Transactions...),
		categories:   append([]models.Category{}, doc.Categories...),
		budgets:      append([]models.Budget{}, doc.Budgets...),
		prefs:        doc.Preferences,
	}
	if st.prefs.Currency == "" {
		st.prefs.Currency = models.DefaultCurrency
	}
	if st.prefs.PaymentMethods == nil {
		st.prefs.PaymentMethods = models.DefaultPreferences().PaymentMethods
	}
	return st
}

// clone copies every slice so the result shares no backing array with st.
// Records hold no mutable pointers of their own: decimals are immutable and
// UpdatedAt pointers are replaced, never written through.
func (st state) clone() state {
	return state{
		revision:     st.revision,
		transactions: append([]models.Transaction{}, st.transactions...),
		categories:   append([]models.Category{}, st.categories...),
		budgets:      append([]models.Budget{}, st.budgets...),
		prefs: models.Preferences{
			Currency:       st.prefs.Currency,
			PaymentMethods: append([]string{}, st.prefs.PaymentMethods...),
		},
	}
}

func (st state) document(now time.Time) models.Document {
	return models.Document{
		Version:      models.DocumentVersion,
		Revision:     st.revision,
		Transactions: st.transactions,
		Categories:   st.categories,
		Budgets:      st.budgets,
		Preferences:  st.prefs,
		UpdatedAt:    now.UTC(),
	}
}

func (st *state) transactionIndex(id string) int {
	for i := range st.transactions {
		if st.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) categoryIndex(id string) int {
	for i := range st.categories {
		if st.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) budgetIndex(id string) int {
	for i := range st.budgets {
		if st.budgets[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) categoryByID(id string) *models.Category {
	if i := st.categoryIndex(id); i >= 0 {
		return &st.categories[i]
	}
	return nil
}

func (st *state) categoryByName(name string, typ models.CategoryType) *models.Category {
	for i := range st.categories {
		c := &st.categories[i]
		if c.Type == typ && models.SameName(c.Name, name) {
			return c
		}
	}
	return nil
}

// normaliseRef maps a category reference given by id or by name to the id
// of a category of type typ. It reports false when nothing matches.
func (st *state) normaliseRef(ref string, typ models.CategoryType) (string, bool) {
	if c := st.categoryByID(ref); c != nil {
		return c.ID, true
	}
	if c := st.categoryByName(ref, typ); c != nil {
		return c.ID, true
	}
	return ref, false
}
