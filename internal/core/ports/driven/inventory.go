package driven

import (
	"context"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// InventoryClient reads user and host inventory from a tenant's source
// instance, authenticated with the connection's source API key.
type InventoryClient interface {
	// FetchUsers returns the full user listing in a single request.
	FetchUsers(ctx context.Context, conn domain.Connection) ([]domain.SourceUser, error)

	// FetchAllHosts pages through the host listing until a short page
	// signals exhaustion. A page cap bounds the loop; exceeding it
	// returns domain.ErrPageLimitExceeded.
	FetchAllHosts(ctx context.Context, conn domain.Connection) ([]domain.SourceHost, error)

	// FetchHostDetail retrieves one host's enriched detail (installed
	// software, disk-encryption state). Transient failures are retried
	// a bounded number of times before the error propagates.
	FetchHostDetail(ctx context.Context, conn domain.Connection, hostID uint) (*domain.HostDetail, error)
}
