package domain

// UpstreamApp is the process-wide OAuth client registration for the
// upstream compliance platform, shared by every tenant connection.
// It is built once at startup from configuration and passed by value into
// the adapters; nothing mutates it, so concurrent tenant workers can read
// it freely.
type UpstreamApp struct {
	// TokenURL is the OAuth token endpoint.
	TokenURL string
	// APIURL is the base URL of the resource-sync API.
	APIURL string
	// ClientID identifies this integration to the upstream platform.
	ClientID string
	// ClientSecret authenticates this integration.
	ClientSecret string
}

// Valid reports whether the app configuration is complete enough to sync.
func (a UpstreamApp) Valid() bool {
	return a.TokenURL != "" && a.APIURL != "" && a.ClientID != "" && a.ClientSecret != ""
}
