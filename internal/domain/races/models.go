package races

import "time"

// Race is the canonical race shape exposed by the service.
// AdvertisedStart is in epoch seconds and may be in the past.
type Race struct {
	ID              string `json:"raceId"`
	Name            string `json:"raceName"`
	Number          int    `json:"raceNumber"`
	MeetingID       string `json:"meetingId"`
	MeetingName     string `json:"meetingName"`
	CategoryID      string `json:"categoryId"`
	AdvertisedStart int64  `json:"advertisedStart"`
}

// StartTime returns the advertised start as a UTC time.
func (r Race) StartTime() time.Time {
	return time.Unix(r.AdvertisedStart, 0).UTC()
}

// FeedResponse is the payload returned for a race listing.
type FeedResponse struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Races     []Race    `json:"races"`
}

// NewFeedResponse builds a FeedResponse payload.
func NewFeedResponse(updatedAt time.Time, races []Race) FeedResponse {
	if races == nil {
		races = []Race{}
	}
	return FeedResponse{
		UpdatedAt: updatedAt,
		Races:     races,
	}
}
