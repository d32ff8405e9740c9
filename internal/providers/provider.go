package providers

import (
	"context"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// RaceProvider fetches the upstream next-to-go list and normalizes it.
// Implementations return races ordered ascending by advertised start and
// must not retry internally; the scheduler re-invokes on its own interval.
type RaceProvider interface {
	FetchRaces(ctx context.Context) ([]races.Race, error)
}
