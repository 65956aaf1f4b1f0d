package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync run is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrTokenRefreshFailed indicates the upstream refresh-token exchange
	// failed. The connection is skipped for the remainder of the run.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrPageLimitExceeded indicates the host listing never returned a
	// short page within the iteration cap. Treated as a tenant-scoped
	// timeout rather than looping forever.
	ErrPageLimitExceeded = errors.New("host pagination exceeded page limit")

	// ErrSourceUnavailable indicates the tenant's source instance rejected
	// or failed a request after retries.
	ErrSourceUnavailable = errors.New("source instance unavailable")

	// ErrUpstreamRejected indicates the compliance platform rejected a
	// bulk-sync call after retries.
	ErrUpstreamRejected = errors.New("upstream sync rejected")
)
