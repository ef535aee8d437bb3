// Package events broadcasts ledger changes between service instances so
// that each one can drop its cached copy of a namespace that another
// instance has written.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Change announces that a namespace's ledger was committed.
type Change struct {
	Namespace  string    `json:"namespace"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Revision   int64     `json:"revision"`
	Origin     string    `json:"origin"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToJSON converts the change to JSON bytes
func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ChangeFromJSON decodes a change message.
func ChangeFromJSON(data []byte) (*Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Publisher sends change notifications.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}

// Nop discards every change. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }
func (Nop) Close() error                          { return nil }

// Recorder keeps published changes in memory.
type Recorder struct {
	mu      sync.Mutex
	changes []Change
	Err     error
}

// Publish records change, or returns r.Err when set.
func (r *Recorder) Publish(_ context.Context, change Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.changes = append(r.changes, change)
	return nil
}

// Changes returns a copy of everything published so far.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change{}, r.changes...)
}

func (r *Recorder) Close() error { return nil }
