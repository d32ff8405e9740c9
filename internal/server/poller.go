package server

import (
	"context"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/poller"
)

// Poller defines the refresh behavior the server and its handlers need.
type Poller interface {
	Start(ctx context.Context, interval time.Duration)
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) ([]races.Race, error)
	Status() poller.Status
}
