package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/logging"
	"github.com/preston-bernstein/next-to-go-service/internal/metrics"
)

// instrumentedProvider records metrics and logs for every upstream attempt.
// It never retries: a failed fetch is reported as-is.
type instrumentedProvider struct {
	inner        RaceProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	now          func() time.Time
}

// NewInstrumentedProvider wraps inner with attempt metrics and failure logging.
func NewInstrumentedProvider(inner RaceProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string) RaceProvider {
	if providerName == "" {
		providerName = "provider"
	}
	return &instrumentedProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		now:          time.Now,
	}
}

func (p *instrumentedProvider) FetchRaces(ctx context.Context) ([]races.Race, error) {
	if p.inner == nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider unavailable")
		return nil, ErrProviderUnavailable
	}

	start := p.now()
	list, err := p.inner.FetchRaces(ctx)
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.providerName, elapsed, err)

	if err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider fetch failed",
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
			"error", err,
		)
		return nil, err
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, p.providerName, "provider fetch complete",
		slog.Int(logging.FieldCount, len(list)),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	return list, nil
}
