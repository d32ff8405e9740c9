package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/next-to-go-service/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name for metrics and logs.
// The configured name wins, then the provider's own Name, then its type.
func normalizeProviderName(raw string, provider providers.RaceProvider) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if named, ok := provider.(interface{ Name() string }); ok && named.Name() != "" {
		return strings.ToLower(named.Name())
	}
	if provider != nil {
		return strings.ToLower(fmt.Sprintf("%T", provider))
	}
	return "provider"
}
