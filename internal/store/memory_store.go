package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// MemoryStore keeps a thread-safe snapshot of the latest feed in memory.
// Each SetRaces replaces the feed wholesale; nothing is merged with the prior snapshot.
type MemoryStore struct {
	mu        sync.RWMutex
	races     []races.Race
	index     map[string]int
	updatedAt time.Time
	now       func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// ListRaces returns a copy of the current feed in feed order.
func (s *MemoryStore) ListRaces() []races.Race {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]races.Race, len(s.races))
	copy(result, s.races)
	return result
}

// GetRace retrieves a race by ID.
func (s *MemoryStore) GetRace(id string) (races.Race, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return races.Race{}, false
	}
	return s.races[i], true
}

// SetRaces replaces the existing feed with a new snapshot.
// A later duplicate race id overwrites the earlier entry's index.
func (s *MemoryStore) SetRaces(list []races.Race) {
	snapshot := make([]races.Race, len(list))
	copy(snapshot, list)
	index := make(map[string]int, len(snapshot))
	for i, r := range snapshot {
		index[r.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.races = snapshot
	s.index = index
	s.updatedAt = s.now()
}

// UpdatedAt reports when the feed was last replaced; zero if never.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
