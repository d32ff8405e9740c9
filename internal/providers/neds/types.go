package neds

const providerName = "neds"

type nextRacesResponse struct {
	Status int            `json:"status"`
	Data   *nextRacesData `json:"data"`
}

// complete reports whether the envelope carries both the id list and the summaries.
// A missing field must not be read as an empty feed.
func (r nextRacesResponse) complete() bool {
	return r.Data != nil && r.Data.NextToGoIDs != nil && r.Data.RaceSummaries != nil
}

type nextRacesData struct {
	NextToGoIDs   []string                       `json:"next_to_go_ids"`
	RaceSummaries map[string]raceSummaryResponse `json:"race_summaries"`
}

type raceSummaryResponse struct {
	RaceID          string                  `json:"race_id"`
	RaceName        string                  `json:"race_name"`
	RaceNumber      int                     `json:"race_number"`
	MeetingID       string                  `json:"meeting_id"`
	MeetingName     string                  `json:"meeting_name"`
	CategoryID      string                  `json:"category_id"`
	AdvertisedStart advertisedStartResponse `json:"advertised_start"`
}

type advertisedStartResponse struct {
	Seconds int64 `json:"seconds"`
}
