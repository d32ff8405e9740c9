package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port               string
	PollInterval       Duration
	FetchTimeout       Duration
	RefreshMinInterval Duration
	AutoRefresh        bool
	Provider           string
	Neds               NedsConfig
	Metrics            MetricsConfig
	Log                LogConfig
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads an optional .env file from the working directory, then configuration
// from environment variables with sensible defaults.
func Load() (Config, error) {
	return LoadFile(defaultEnvFile)
}

// LoadFile is Load with an explicit .env path. Variables already set in the
// environment take precedence over the file; a missing file is ignored.
// A file that cannot be read or parsed yields an error alongside a Config
// built from the environment and defaults.
func LoadFile(path string) (Config, error) {
	envErr := loadDotEnv(path)
	if envErr != nil {
		envErr = fmt.Errorf("load %s: %w", path, envErr)
	}
	return Config{
		Port:               envOrDefault(envPort, defaultPort),
		PollInterval:       durationEnvOrDefault(envPollInterval, defaultPollInterval),
		FetchTimeout:       durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
		RefreshMinInterval: durationEnvOrDefault(envRefreshMin, defaultRefreshMin),
		AutoRefresh:        boolEnvOrDefault(envAutoRefresh, defaultAutoRefresh),
		Provider:           envOrDefault(envProvider, defaultProvider),
		Neds:               loadNeds(),
		Metrics:            loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, ""),
			Format: envOrDefault(envLogFormat, ""),
		},
	}, envErr
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
