package driving

import "github.com/custodia-labs/lexrag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key after validating the value.
	Set(key, value string) error

	// Keys returns every recognised setting key, sorted.
	Keys() []string

	// ValidateProviders pings the configured embedding and LLM providers.
	ValidateProviders() error
}
