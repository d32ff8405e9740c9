package config

const (
	defaultNedsBaseURL = "https://api.neds.com.au/rest/v1/racing/"
	defaultNedsCount   = 10
)

// NedsConfig controls how we talk to the Neds racing API.
type NedsConfig struct {
	BaseURL string
	Count   int
}

func loadNeds() NedsConfig {
	return NedsConfig{
		BaseURL: envOrDefault(envNedsBaseURL, defaultNedsBaseURL),
		Count:   intEnvOrDefault(envNedsCount, defaultNedsCount),
	}
}
