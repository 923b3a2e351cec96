package highscore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Entry is one recorded score.
type Entry struct {
	ID        string
	Score     int
	CreatedAt time.Time
}

// Store persists score entries.
type Store interface {
	// Load returns every entry, highest score first.
	Load(ctx context.Context) ([]Entry, error)
	// Save appends one entry.
	Save(ctx context.Context, e Entry) error
	// Seed writes the initial entries of a store that has never been written.
	Seed(ctx context.Context, entries []Entry) error
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	sortEntries(out)
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Seed(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		m.entries = append(m.entries, entries...)
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)

// sortEntries orders by score descending, older entries first on ties.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
