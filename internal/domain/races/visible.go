package races

import (
	"sort"
	"time"
)

const (
	// ExpiryWindow is how long a race stays visible after its advertised start.
	ExpiryWindow = 60 * time.Second
	// MaxVisible caps the number of races returned by Visible.
	MaxVisible = 5
)

// Visible filters races by the selected categories, drops races whose start is at or before
// now minus ExpiryWindow, sorts by advertised start and keeps at most MaxVisible entries.
// An empty selectedIDs applies no category filter. The input slice is not modified.
func Visible(races []Race, selectedIDs []string, now time.Time) []Race {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}
	out := make([]Race, 0, len(races))
	for _, r := range races {
		if len(selected) > 0 {
			if _, ok := selected[r.CategoryID]; !ok {
				continue
			}
		}
		if IsExpired(r.AdvertisedStart, now, ExpiryWindow) {
			continue
		}
		out = append(out, r)
	}

	SortByStart(out)
	if len(out) > MaxVisible {
		out = out[:MaxVisible]
	}
	return out
}

// SortByStart orders races ascending by advertised start, breaking ties by race id.
func SortByStart(races []Race) {
	sort.SliceStable(races, func(i, j int) bool {
		if races[i].AdvertisedStart != races[j].AdvertisedStart {
			return races[i].AdvertisedStart < races[j].AdvertisedStart
		}
		return races[i].ID < races[j].ID
	})
}

// IsExpired reports whether a race starting at start (epoch seconds) has fallen out of the given window.
func IsExpired(start int64, now time.Time, window time.Duration) bool {
	return start <= now.Add(-window).Unix()
}
