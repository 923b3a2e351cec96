// Package highscore keeps the top-five leaderboard consulted at game over.
package highscore

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxEntries is the size of the kept leaderboard.
const MaxEntries = 5

// DefaultScores seed a store that has never been written.
var DefaultScores = []int{5000, 4000, 3000, 2000, 1000}

// now is replaced in tests.
var now = time.Now

// Board ranks and records scores on top of a Store.
type Board struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

// NewBoard creates a board backed by store.
func NewBoard(store Store) *Board {
	return &Board{store: store, timeout: 2 * time.Second}
}

// AddScore records score when it qualifies for the top list: fewer than
// MaxEntries kept, or strictly above the lowest kept score.
func (b *Board) AddScore(score int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	top, err := b.load(ctx)
	if err != nil {
		return false, err
	}
	if len(top) >= MaxEntries && score <= top[len(top)-1] {
		return false, nil
	}

	entry := Entry{ID: uuid.NewString(), Score: score, CreatedAt: now()}
	if err := b.store.Save(ctx, entry); err != nil {
		return false, err
	}
	log.Printf("🏆 New high score: %d", score)
	return true, nil
}

// TopScores returns the kept scores, highest first. Read failures are
// logged and yield an empty list.
func (b *Board) TopScores() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	top, err := b.load(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to load high scores: %v", err)
		return []int{}
	}
	return top
}

// Rank returns the 1-based position score would take in the top list.
func (b *Board) Rank(score int) int {
	top := b.TopScores()
	for i, s := range top {
		if score >= s {
			return i + 1
		}
	}
	return len(top) + 1
}

// load returns the top scores, seeding defaults into an empty store.
func (b *Board) load(ctx context.Context) ([]int, error) {
	entries, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		seed := make([]Entry, len(DefaultScores))
		at := now()
		for i, s := range DefaultScores {
			seed[i] = Entry{ID: uuid.NewString(), Score: s, CreatedAt: at}
		}
		if err := b.store.Seed(ctx, seed); err != nil {
			return nil, err
		}
		entries = seed
	}

	n := len(entries)
	if n > MaxEntries {
		n = MaxEntries
	}
	top := make([]int, n)
	for i := range top {
		top[i] = entries[i].Score
	}
	return top, nil
}
