// Package oauth implements the upstream platform's refresh-token exchange.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/attest-cli/internal/adapters/driven/transport"
	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
)

// DefaultTimeout is the HTTP request timeout for token exchanges.
const DefaultTimeout = 30 * time.Second

// Ensure Refresher implements the interface.
var _ driven.CredentialRefresher = (*Refresher)(nil)

// Refresher renews upstream access tokens via the OAuth refresh_token
// grant. The client id/secret are process-wide; only the refresh token is
// per tenant.
type Refresher struct {
	app    domain.UpstreamApp
	client *http.Client
	policy transport.RetryPolicy
}

// NewRefresher creates a refresher for the given upstream app registration.
func NewRefresher(app domain.UpstreamApp) *Refresher {
	return &Refresher{
		app:    app,
		client: &http.Client{Timeout: DefaultTimeout},
		policy: transport.DefaultPolicy(),
	}
}

// tokenResponse holds the response from a token exchange.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Refresh exchanges the connection's refresh token for a new token triple.
// Every failure is wrapped in domain.ErrTokenRefreshFailed so the
// orchestrator can skip the tenant without inspecting transport details.
func (r *Refresher) Refresh(ctx context.Context, conn domain.Connection) (*domain.UpstreamCredentials, error) {
	if !conn.CanRefresh() {
		return nil, fmt.Errorf("%w: connection has no refresh token", domain.ErrTokenRefreshFailed)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", r.app.ClientID)
	data.Set("client_secret", r.app.ClientSecret)
	data.Set("refresh_token", conn.Upstream.RefreshToken)
	encoded := data.Encode()

	resp, err := transport.Do(ctx, r.client, r.policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.app.TokenURL, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%w: %s - %s", domain.ErrTokenRefreshFailed, errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrTokenRefreshFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTokenRefreshFailed, err)
	}

	creds := &domain.UpstreamCredentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if token.ExpiresIn > 0 {
		creds.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	return creds, nil
}
