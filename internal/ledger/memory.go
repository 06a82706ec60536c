package ledger

import (
	"context"
	"sync"

	"github.com/Stigz/eigernordvan/internal/trip"
)

// MemoryStore keeps the ledger in process memory. Entries are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []trip.Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds an entry to the end of the ledger.
func (m *MemoryStore) Append(ctx context.Context, entry trip.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

// List walks the ledger backwards so the newest entry comes first.
func (m *MemoryStore) List(ctx context.Context, q Query) ([]trip.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q = q.normalized()

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]trip.Entry, 0, min(q.Limit, len(m.entries)))
	for i := len(m.entries) - 1; i >= 0 && len(out) < q.Limit; i-- {
		if q.UserName != "" && m.entries[i].UserName != q.UserName {
			continue
		}
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Len returns the number of entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
