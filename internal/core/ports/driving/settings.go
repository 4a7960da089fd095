package driving

import "github.com/ppa-inteligente/ppa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set updates a single dotted key (e.g. "ingest.chunk_size") and persists it.
	Set(key, value string) error

	// Keys returns every supported settings key.
	Keys() []string

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
