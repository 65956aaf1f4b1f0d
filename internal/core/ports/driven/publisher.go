package driven

import (
	"context"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// Publisher submits transformed records to the upstream compliance
// platform's bulk-sync endpoints.
//
// Every call is a full replacement of that resource type for the tenant:
// records absent from the payload are considered removed upstream. Callers
// must therefore only publish complete snapshots.
type Publisher interface {
	// SyncUserAccounts replaces the tenant's user-account resources.
	SyncUserAccounts(ctx context.Context, conn domain.Connection, users []domain.UserResource) error

	// SyncDevices replaces the tenant's device resources.
	SyncDevices(ctx context.Context, conn domain.Connection, devices []domain.DeviceResource) error
}
