package driven

import (
	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string

	// UpstreamApp assembles the upstream OAuth application registration
	// from the upstream.* configuration keys. The result may be
	// incomplete; callers validate with domain.UpstreamApp.Valid.
	UpstreamApp() domain.UpstreamApp
}

// Configuration keys recognised by the attest CLI.
const (
	ConfigKeyUpstreamClientID     = "upstream.client_id"
	ConfigKeyUpstreamClientSecret = "upstream.client_secret"
	ConfigKeyUpstreamTokenURL     = "upstream.token_url"
	ConfigKeyUpstreamAPIURL       = "upstream.api_url"
	ConfigKeySyncSchedule         = "sync.schedule"
)
