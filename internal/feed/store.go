// Package feed keeps the periodically refreshed list of classified headlines
package feed

import (
	"crypto/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/oklog/ulid/v2"
)

// Snapshot is one complete refresh result. It is never modified after it
// has been published.
type Snapshot struct {
	ID          string                 `json:"id"`
	RefreshedAt time.Time              `json:"refreshed_at"`
	Items       []core.AnalyzedArticle `json:"items"`
}

// Store holds the current snapshot. Replace has a single caller, the
// refresher; readers never block.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewStore creates a store holding an empty snapshot
func NewStore() *Store {
	s := &Store{entropy: ulid.Monotonic(rand.Reader, 0)}
	s.current.Store(&Snapshot{Items: []core.AnalyzedArticle{}})
	return s
}

// Replace publishes items as the new snapshot and returns it
func (s *Store) Replace(items []core.AnalyzedArticle, at time.Time) *Snapshot {
	copied := make([]core.AnalyzedArticle, len(items))
	copy(copied, items)

	snapshot := &Snapshot{
		ID:          s.newID(at),
		RefreshedAt: at,
		Items:       copied,
	}
	s.current.Store(snapshot)
	return snapshot
}

// Current returns the latest snapshot
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Recent returns up to n items of the current snapshot, n <= 0 meaning all
func (s *Store) Recent(n int) []core.AnalyzedArticle {
	items := s.Current().Items
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]core.AnalyzedArticle, len(items))
	copy(out, items)
	return out
}

// Search returns the snapshot items whose title contains query, ignoring case
func (s *Store) Search(query string) []core.AnalyzedArticle {
	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]core.AnalyzedArticle, 0)
	for _, item := range s.Current().Items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}

func (s *Store) newID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}
