// Package inventory implements the source-instance API client: user
// listing, exhaustive host pagination and per-host detail.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/attest-cli/internal/adapters/driven/transport"
	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
	"github.com/custodia-labs/attest-cli/internal/logger"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// PerPage is the fixed host-listing page size.
	PerPage = 100

	// MaxPages caps the pagination loop. A source instance that never
	// returns a short page is treated as timed out rather than looped
	// on forever.
	MaxPages = 300

	// ProactiveRate throttles requests per source instance (req/sec).
	ProactiveRate = 10

	// ProactiveBurst is the limiter's burst allowance: the detail
	// fan-out may fire this many requests back to back before the
	// steady rate applies.
	ProactiveBurst = 10

	// userAgent identifies this integration to source instances.
	userAgent = "attest-sync"
)

// Ensure Client implements the interface.
var _ driven.InventoryClient = (*Client)(nil)

// Client talks to a tenant's source instance using the connection's API
// key as a bearer credential. One Client serves all tenants; the limiter
// smooths the combined request rate.
type Client struct {
	base         *http.Client
	limiter      *rate.Limiter
	userPolicy   transport.RetryPolicy
	pagePolicy   transport.RetryPolicy
	detailPolicy transport.RetryPolicy
}

// NewClient creates a source-instance API client.
func NewClient() *Client {
	return &Client{
		base:         &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
		userPolicy:   transport.DefaultPolicy(),
		pagePolicy:   transport.DefaultPolicy(),
		detailPolicy: transport.DefaultPolicy(),
	}
}

// httpClient returns a client that injects the connection's bearer token
// into every request, reusing the shared base transport.
func (c *Client) httpClient(ctx context.Context, conn domain.Connection) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conn.SourceAPIKey})
	authCtx := context.WithValue(ctx, oauth2.HTTPClient, c.base)
	client := oauth2.NewClient(authCtx, ts)
	client.Timeout = DefaultTimeout
	return client
}

// FetchUsers returns the full user listing in a single request.
func (c *Client) FetchUsers(ctx context.Context, conn domain.Connection) ([]domain.SourceUser, error) {
	var payload struct {
		Users []domain.SourceUser `json:"users"`
	}
	if err := c.getJSON(ctx, conn, endpoint(conn, "/api/v1/users"), c.userPolicy, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// FetchAllHosts pages through the host listing starting at page 0 and
// stops once a page comes back with fewer than PerPage records. A final
// page of exactly PerPage records costs one extra request to confirm
// exhaustion.
func (c *Client) FetchAllHosts(ctx context.Context, conn domain.Connection) ([]domain.SourceHost, error) {
	var all []domain.SourceHost

	for page := 0; ; page++ {
		if page >= MaxPages {
			return nil, fmt.Errorf("%w: %d pages", domain.ErrPageLimitExceeded, MaxPages)
		}

		var payload struct {
			Hosts []domain.SourceHost `json:"hosts"`
		}
		u := endpoint(conn, fmt.Sprintf("/api/v1/hosts?per_page=%d&page=%d", PerPage, page))
		if err := c.getJSON(ctx, conn, u, c.pagePolicy, &payload); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		all = append(all, payload.Hosts...)
		if len(payload.Hosts) < PerPage {
			logger.Debug("Fetched %d hosts from %s over %d page(s)", len(all), conn.SourceURL, page+1)
			return all, nil
		}
	}
}

// FetchHostDetail retrieves one host's enriched detail.
func (c *Client) FetchHostDetail(ctx context.Context, conn domain.Connection, hostID uint) (*domain.HostDetail, error) {
	var payload struct {
		Host *domain.HostDetail `json:"host"`
	}
	u := endpoint(conn, fmt.Sprintf("/api/v1/hosts/%d", hostID))
	if err := c.getJSON(ctx, conn, u, c.detailPolicy, &payload); err != nil {
		return nil, err
	}
	if payload.Host == nil {
		return nil, fmt.Errorf("%w: host %d missing from detail response", domain.ErrSourceUnavailable, hostID)
	}
	return payload.Host, nil
}

// getJSON issues a rate-limited, retried GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, conn domain.Connection, rawURL string, policy transport.RetryPolicy, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	client := c.httpClient(ctx, conn)
	resp, err := transport.Do(ctx, client, policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d from %s", domain.ErrSourceUnavailable, resp.StatusCode, redact(rawURL))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpoint joins the connection's base URL with an API path.
func endpoint(conn domain.Connection, path string) string {
	return strings.TrimSuffix(conn.SourceURL, "/") + path
}

// redact strips query parameters from a URL for error messages.
func redact(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		u.RawQuery = ""
		return u.String()
	}
	return rawURL
}
