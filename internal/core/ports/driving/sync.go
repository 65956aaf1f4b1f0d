package driving

import (
	"context"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// SyncRunner drives one full synchronisation pass over every active
// connection. Used by the CLI and the scheduler.
type SyncRunner interface {
	// Run processes all active connections concurrently and returns the
	// per-connection report. The returned error is non-nil only for
	// run-level precondition failures (e.g. the connection store is
	// unreachable); per-tenant failures are captured in the report.
	Run(ctx context.Context) (*domain.RunReport, error)
}
