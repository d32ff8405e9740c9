package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// StubProvider is a test double for providers.RaceProvider.
// Fields may be changed between calls but not while a call is in flight.
type StubProvider struct {
	Races  []races.Race
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
	// Release, when set, blocks each call until a value is received or ctx ends.
	Release chan struct{}

	notifyOnce sync.Once
}

// FetchRaces returns configured races and error while tracking calls.
func (s *StubProvider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	if s.Notify != nil {
		s.notifyOnce.Do(func() { close(s.Notify) })
	}
	s.Calls.Add(1)
	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Races, s.Err
}

// StubFeedWriter is a test double for poller.FeedWriter.
type StubFeedWriter struct {
	mu      sync.Mutex
	Written [][]races.Race
}

// ReplaceRaces records the feed for verification in tests.
func (w *StubFeedWriter) ReplaceRaces(list []races.Race) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Written = append(w.Written, list)
}

// Writes returns how many feeds were written.
func (w *StubFeedWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Written)
}

// Last returns the most recently written feed.
func (w *StubFeedWriter) Last() ([]races.Race, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.Written) == 0 {
		return nil, false
	}
	return w.Written[len(w.Written)-1], true
}
