// Package upstream implements the compliance platform's bulk-sync API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/attest-cli/internal/adapters/driven/transport"
	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
)

// Upstream resource type identifiers addressed by the sync_all endpoint.
const (
	ResourceTypeUserAccount = "user_account"
	ResourceTypeMacDevice   = "macos_user_computer"
)

// DefaultTimeout is the HTTP request timeout for bulk-sync calls.
const DefaultTimeout = 60 * time.Second

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// Publisher submits full-replacement snapshots to the upstream platform.
type Publisher struct {
	app    domain.UpstreamApp
	client *http.Client
	policy transport.RetryPolicy
}

// NewPublisher creates a publisher for the given upstream app registration.
func NewPublisher(app domain.UpstreamApp) *Publisher {
	return &Publisher{
		app:    app,
		client: &http.Client{Timeout: DefaultTimeout},
		policy: transport.DefaultPolicy(),
	}
}

// syncAllRequest is the bulk-sync payload. Resources not present are
// considered removed by the upstream platform, so the slice must always be
// the tenant's complete current snapshot.
type syncAllRequest struct {
	SourceID   string `json:"sourceId"`
	ResourceID string `json:"resourceId"`
	Resources  any    `json:"resources"`
}

// SyncUserAccounts replaces the tenant's user-account resources.
func (p *Publisher) SyncUserAccounts(ctx context.Context, conn domain.Connection, users []domain.UserResource) error {
	if users == nil {
		users = []domain.UserResource{}
	}
	return p.syncAll(ctx, conn, ResourceTypeUserAccount, conn.UserResourceID, users)
}

// SyncDevices replaces the tenant's device resources.
func (p *Publisher) SyncDevices(ctx context.Context, conn domain.Connection, devices []domain.DeviceResource) error {
	if devices == nil {
		devices = []domain.DeviceResource{}
	}
	return p.syncAll(ctx, conn, ResourceTypeMacDevice, conn.DeviceResourceID, devices)
}

// syncAll issues one idempotent full-replacement call for a resource type.
func (p *Publisher) syncAll(ctx context.Context, conn domain.Connection, resourceType, resourceID string, resources any) error {
	payload, err := json.Marshal(syncAllRequest{
		SourceID:   conn.UpstreamSourceID,
		ResourceID: resourceID,
		Resources:  resources,
	})
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", resourceType, err)
	}

	syncURL := p.app.APIURL + "/v1/resources/" + url.PathEscape(resourceType) + "/sync_all"
	resp, err := transport.Do(ctx, p.client, p.policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, syncURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+conn.Upstream.AccessToken)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamRejected, resourceType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrUpstreamRejected, resourceType, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
