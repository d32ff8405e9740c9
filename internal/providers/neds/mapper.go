package neds

import (
	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// normalize keeps only races whose resolved id is listed in next_to_go_ids and
// orders them by start.
func normalize(data nextRacesData) []races.Race {
	listed := make(map[string]struct{}, len(data.NextToGoIDs))
	for _, id := range data.NextToGoIDs {
		listed[id] = struct{}{}
	}

	out := make([]races.Race, 0, len(data.NextToGoIDs))
	seen := make(map[string]struct{}, len(data.NextToGoIDs))
	for _, key := range data.NextToGoIDs {
		summary, ok := data.RaceSummaries[key]
		if !ok {
			continue
		}
		race := mapRace(key, summary)
		if _, ok := listed[race.ID]; !ok {
			continue
		}
		if _, dup := seen[race.ID]; dup {
			continue
		}
		seen[race.ID] = struct{}{}
		out = append(out, race)
	}
	races.SortByStart(out)
	return out
}

func mapRace(key string, s raceSummaryResponse) races.Race {
	id := s.RaceID
	if id == "" {
		id = key
	}
	return races.Race{
		ID:              id,
		Name:            s.RaceName,
		Number:          s.RaceNumber,
		MeetingID:       s.MeetingID,
		MeetingName:     s.MeetingName,
		CategoryID:      s.CategoryID,
		AdvertisedStart: s.AdvertisedStart.Seconds,
	}
}
