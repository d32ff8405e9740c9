package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/categories"
	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

const (
	providerName = "fixture"
	raceCount    = 10
	spacing      = 90 * time.Second
)

var meetings = [...]struct {
	id       string
	name     string
	category string
}{
	{id: "fixture-meeting-1", name: "Sandown Park", category: categories.GreyhoundID},
	{id: "fixture-meeting-2", name: "Menangle", category: categories.HarnessID},
	{id: "fixture-meeting-3", name: "Flemington", category: categories.HorseID},
}

// Provider returns a deterministic race list relative to its clock, useful for local runs.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string {
	return providerName
}

// FetchRaces returns raceCount races spaced apart, the first of which started 30 seconds ago.
func (p *Provider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := p.now().UTC().Truncate(time.Second).Add(-30 * time.Second)
	list := make([]races.Race, 0, raceCount)
	for i := 0; i < raceCount; i++ {
		m := meetings[i%len(meetings)]
		list = append(list, races.Race{
			ID:              fmt.Sprintf("fixture-race-%d", i+1),
			Name:            fmt.Sprintf("%s Race %d", m.name, i/len(meetings)+1),
			Number:          i/len(meetings) + 1,
			MeetingID:       m.id,
			MeetingName:     m.name,
			CategoryID:      m.category,
			AdvertisedStart: base.Add(time.Duration(i) * spacing).Unix(),
		})
	}
	return list, nil
}
