package config

import "time"

const (
	envPort         = "PORT"
	envPollInterval = "POLL_INTERVAL"
	envFetchTimeout = "FETCH_TIMEOUT"
	envRefreshMin   = "REFRESH_MIN_INTERVAL"
	envAutoRefresh  = "AUTO_REFRESH"
	envProvider     = "PROVIDER"
	envNedsBaseURL  = "NEDS_BASE_URL"
	envNedsCount    = "NEDS_RACE_COUNT"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"

	defaultEnvFile = ".env"
	defaultPort    = "4000"
	// The feed is refreshed every 30 seconds.
	defaultPollInterval = 30 * Duration(time.Second)
	defaultFetchTimeout = 10 * Duration(time.Second)
	// Floor between manual refreshes so the upstream is not hammered from the UI.
	defaultRefreshMin  = 5 * Duration(time.Second)
	defaultAutoRefresh = true
	defaultProvider    = ProviderNeds
	defaultMetricsPort = "9090"
	defaultServiceName = "next-to-go-service"

	// ProviderNeds selects the live Neds racing API.
	ProviderNeds = "neds"
	// ProviderFixture selects the generated offline feed.
	ProviderFixture = "fixture"
)
