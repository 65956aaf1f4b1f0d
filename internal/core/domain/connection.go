package domain

import "time"

// Connection links one tenant's device-management instance to the upstream
// compliance platform. Exactly one Connection exists per tenant; a
// Connection with Active=false is never synced.
type Connection struct {
	// ID is the unique identifier (UUID).
	ID string

	// Name is the human-readable label for this tenant.
	Name string

	// Active marks whether this connection participates in sync runs.
	Active bool

	// SourceURL is the base URL of the tenant's device-management instance.
	SourceURL string

	// SourceAPIKey authenticates requests against the source instance.
	SourceAPIKey string

	// Upstream holds the OAuth tokens for the compliance platform.
	// Mutated only by the credential refresher; persisted immediately
	// after a successful refresh, before any downstream step.
	Upstream UpstreamCredentials

	// UpstreamSourceID is the tenant key on the upstream side.
	UpstreamSourceID string

	// UserResourceID identifies the upstream user-account resource type.
	UserResourceID string

	// DeviceResourceID identifies the upstream device resource type.
	DeviceResourceID string

	// CreatedAt is when the connection was created.
	CreatedAt time.Time
	// UpdatedAt is when the connection was last updated.
	UpdatedAt time.Time
}

// UpstreamCredentials is the OAuth token triple for the upstream platform.
type UpstreamCredentials struct {
	// AccessToken is the bearer token for upstream API access.
	AccessToken string
	// RefreshToken is exchanged for a new token pair on every run.
	RefreshToken string
	// ExpiresAt is when the access token expires. The pipeline refreshes
	// unconditionally each run, so this is informational only.
	ExpiresAt time.Time
}

// IsExpired returns true if the access token has expired.
func (c *UpstreamCredentials) IsExpired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

// CanRefresh returns true if a refresh token is available.
func (c *Connection) CanRefresh() bool {
	return c.Upstream.RefreshToken != ""
}
