package testutil

import (
	"context"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
)

// GoodProvider returns the provided races with no error.
type GoodProvider struct {
	Races []races.Race
}

func (p GoodProvider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	_ = ctx
	return p.Races, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	_ = ctx
	return nil, p.Err
}

// EmptyProvider returns no races, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	_ = ctx
	return []races.Race{}, nil
}
