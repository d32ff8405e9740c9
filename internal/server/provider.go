package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/next-to-go-service/internal/config"
	"github.com/preston-bernstein/next-to-go-service/internal/providers"
	"github.com/preston-bernstein/next-to-go-service/internal/providers/fixture"
	"github.com/preston-bernstein/next-to-go-service/internal/providers/neds"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.RaceProvider {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderNeds, "":
		return neds.NewClient(neds.Config{
			BaseURL: cfg.Neds.BaseURL,
			Count:   cfg.Neds.Count,
			Timeout: cfg.FetchTimeout,
		})
	case config.ProviderFixture:
		return fixture.New()
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
