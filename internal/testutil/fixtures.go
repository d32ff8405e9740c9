package testutil

import (
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/categories"
	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// SampleRace returns a horse race fixture starting at the given epoch second.
func SampleRace(id string, start int64) races.Race {
	return races.Race{
		ID:              id,
		Name:            "Race " + id,
		Number:          1,
		MeetingID:       "meeting-" + id,
		MeetingName:     "Flemington",
		CategoryID:      categories.HorseID,
		AdvertisedStart: start,
	}
}

// SampleRaceIn returns a race fixture in the given category starting offset from now.
func SampleRaceIn(id, categoryID string, now time.Time, offset time.Duration) races.Race {
	r := SampleRace(id, now.Add(offset).Unix())
	r.CategoryID = categoryID
	return r
}

// SampleFeed returns one race per known category, starting one, two and three minutes after now.
func SampleFeed(now time.Time) []races.Race {
	return []races.Race{
		SampleRaceIn("g1", categories.GreyhoundID, now, time.Minute),
		SampleRaceIn("h1", categories.HarnessID, now, 2*time.Minute),
		SampleRaceIn("t1", categories.HorseID, now, 3*time.Minute),
	}
}
