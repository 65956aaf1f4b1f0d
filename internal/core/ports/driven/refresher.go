package driven

import (
	"context"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// CredentialRefresher renews a connection's upstream access token via the
// OAuth refresh-token grant. The process-wide client id/secret is adapter
// configuration; only the per-tenant refresh token comes from the
// connection.
type CredentialRefresher interface {
	// Refresh exchanges the connection's refresh token for a new token
	// triple. Any transport or non-2xx failure is returned wrapped in
	// domain.ErrTokenRefreshFailed.
	Refresh(ctx context.Context, conn domain.Connection) (*domain.UpstreamCredentials, error)
}
