package races

import (
	"sync"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/categories"
	domainraces "github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/timeutil"
)

// Store defines the contract for holding the current feed.
type Store interface {
	ListRaces() []domainraces.Race
	GetRace(id string) (domainraces.Race, bool)
	SetRaces(list []domainraces.Race)
	UpdatedAt() time.Time
}

// Service owns the feed and the caller's category selection and derives views on demand.
// The selection survives feed replacements.
type Service struct {
	store Store

	selMu     sync.RWMutex
	selection domainraces.Selection
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Races returns the current feed.
func (s *Service) Races() []domainraces.Race {
	return s.store.ListRaces()
}

// RaceByID returns a single race if present in the feed.
func (s *Service) RaceByID(id string) (domainraces.Race, bool) {
	return s.store.GetRace(id)
}

// ReplaceRaces swaps the feed with a new snapshot.
func (s *Service) ReplaceRaces(list []domainraces.Race) {
	s.store.SetRaces(list)
}

// LastFetch reports when the feed was last replaced.
func (s *Service) LastFetch() time.Time {
	return s.store.UpdatedAt()
}

// Visible applies the current selection to the feed at now.
func (s *Service) Visible(now time.Time) []domainraces.Race {
	return domainraces.Visible(s.store.ListRaces(), s.SelectedCategories(), now)
}

// SelectedCategories returns the selected category ids.
func (s *Service) SelectedCategories() []string {
	s.selMu.RLock()
	defer s.selMu.RUnlock()
	return s.selection.IDs()
}

// SelectedCategoryNames returns display names of selected categories.
func (s *Service) SelectedCategoryNames() []string {
	s.selMu.RLock()
	defer s.selMu.RUnlock()
	return s.selection.Names()
}

// ToggleCategory flips id in the selection and reports whether it is now selected.
func (s *Service) ToggleCategory(id string) bool {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	return s.selection.Toggle(id)
}

// SelectAllCategories selects every known category.
func (s *Service) SelectAllCategories() {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selection.SelectAll()
}

// ClearCategories empties the selection so no category filter applies.
func (s *Service) ClearCategories() {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selection.Clear()
}

// Countdown is the per-race display view.
type Countdown struct {
	Race             domainraces.Race         `json:"race"`
	Category         categories.Category      `json:"category"`
	SecondsRemaining int64                    `json:"secondsRemaining"`
	Display          string                   `json:"display"`
	Status           timeutil.CountdownStatus `json:"status"`
	StartClock       string                   `json:"startClock"`
}

// CountdownFor builds the countdown view for race at now, rendering the start clock in loc.
func CountdownFor(race domainraces.Race, now time.Time, loc *time.Location) Countdown {
	remaining := timeutil.SecondsRemaining(race.AdvertisedStart, now)
	return Countdown{
		Race:             race,
		Category:         categories.Resolve(race.CategoryID),
		SecondsRemaining: remaining,
		Display:          timeutil.FormatCountdown(remaining),
		Status:           timeutil.StatusFor(remaining),
		StartClock:       timeutil.FormatClock(race.StartTime(), loc),
	}
}

// VisibleCountdowns returns countdown views for the visible races at now.
func (s *Service) VisibleCountdowns(now time.Time, loc *time.Location) []Countdown {
	visible := s.Visible(now)
	out := make([]Countdown, 0, len(visible))
	for _, r := range visible {
		out = append(out, CountdownFor(r, now, loc))
	}
	return out
}
