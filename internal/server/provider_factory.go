package server

import (
	"log/slog"

	"github.com/preston-bernstein/next-to-go-service/internal/config"
	"github.com/preston-bernstein/next-to-go-service/internal/metrics"
	"github.com/preston-bernstein/next-to-go-service/internal/providers"
)

// providerFactory assembles the provider with shared instrumentation.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.RaceProvider {
	return f.wrap(cfg, selectProvider(cfg, f.logger))
}

// wrap records every upstream attempt. Ticks are not rate limited; only manual refresh is.
func (f providerFactory) wrap(cfg config.Config, base providers.RaceProvider) providers.RaceProvider {
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base))
}
