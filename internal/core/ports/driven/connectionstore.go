package driven

import (
	"context"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

// ConnectionStore persists tenant connections.
//
// The sync pipeline only reads active connections and writes refreshed
// credentials; the remaining methods serve the management CLI.
type ConnectionStore interface {
	// Save stores or updates a connection.
	Save(ctx context.Context, conn domain.Connection) error

	// Get retrieves a connection by ID.
	Get(ctx context.Context, id string) (*domain.Connection, error)

	// Delete removes a connection.
	Delete(ctx context.Context, id string) error

	// List returns all connections.
	List(ctx context.Context) ([]domain.Connection, error)

	// ListActive returns connections with Active=true, the only ones a
	// sync run processes.
	ListActive(ctx context.Context) ([]domain.Connection, error)

	// SaveCredentials updates a connection's upstream token triple and
	// returns the updated connection. The write is scoped to one row, so
	// concurrent tenant workers never contend.
	SaveCredentials(ctx context.Context, id string, creds domain.UpstreamCredentials) (*domain.Connection, error)

	// SetActive toggles whether a connection participates in sync runs.
	SetActive(ctx context.Context, id string, active bool) error
}
