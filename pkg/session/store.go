package session

import (
	"context"
	"sort"
	"sync"
	"time"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
)

// Default store limits.
const (
	DefaultTTL         = 2 * time.Hour
	DefaultMaxSessions = 1000
)

// Store holds investigations by id.
type Store interface {
	// Get returns the investigation or an INVESTIGATION_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Investigation, error)

	// Put stores inv under inv.ID.
	Put(ctx context.Context, inv *Investigation) error

	// Delete removes an investigation. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes idle investigations and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore is an in-memory [Store]. Investigations idle for longer than
// the TTL are dropped by Cleanup; when full, Put evicts the least recently
// used one.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Investigation
	ttl   time.Duration
	max   int
	now   func() time.Time
}

// NewMemoryStore creates a store. Zero values select [DefaultTTL] and
// [DefaultMaxSessions].
func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &MemoryStore{
		items: make(map[string]*Investigation),
		ttl:   ttl,
		max:   maxSessions,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Investigation, error) {
	s.mu.RLock()
	inv, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || s.expired(inv) {
		return nil, ogerrors.New(ogerrors.ErrCodeInvestigationNotFound, "investigation %s not found", id)
	}
	return inv, nil
}

func (s *MemoryStore) Put(_ context.Context, inv *Investigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[inv.ID]; !exists && len(s.items) >= s.max {
		s.evictLocked(len(s.items) - s.max + 1)
	}
	s.items[inv.ID] = inv
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, inv := range s.items {
		if s.expired(inv) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored investigations, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Run calls Cleanup every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.Cleanup(ctx)
		}
	}
}

func (s *MemoryStore) expired(inv *Investigation) bool {
	return s.now().Sub(inv.LastAccess()) > s.ttl
}

// evictLocked removes the n least recently used investigations.
func (s *MemoryStore) evictLocked(n int) {
	all := make([]*Investigation, 0, len(s.items))
	for _, inv := range s.items {
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].LastAccess().Before(all[j].LastAccess())
	})
	for i := 0; i < n && i < len(all); i++ {
		delete(s.items, all[i].ID)
	}
}

var _ Store = (*MemoryStore)(nil)
