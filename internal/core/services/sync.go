package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driving"
	"github.com/custodia-labs/attest-cli/internal/logger"
)

// detailFetchParallelism bounds concurrent per-host detail requests within
// one tenant.
const detailFetchParallelism = 16

// Ensure SyncRunner implements the interface.
var _ driving.SyncRunner = (*SyncRunner)(nil)

// SyncRunner orchestrates one synchronisation pass: for every active
// connection it refreshes credentials, gathers inventory, transforms it and
// publishes the snapshot upstream. Connections are processed concurrently
// and independently; one connection's failure never affects another.
type SyncRunner struct {
	store     driven.ConnectionStore
	refresher driven.CredentialRefresher
	inventory driven.InventoryClient
	publisher driven.Publisher

	mu      sync.Mutex
	running bool
}

// NewSyncRunner creates a sync runner over the given ports.
func NewSyncRunner(
	store driven.ConnectionStore,
	refresher driven.CredentialRefresher,
	inventory driven.InventoryClient,
	publisher driven.Publisher,
) *SyncRunner {
	return &SyncRunner{
		store:     store,
		refresher: refresher,
		inventory: inventory,
		publisher: publisher,
	}
}

// Run processes all active connections and returns the per-connection
// report. Only a run-level precondition failure (the store being
// unreachable, or an overlapping run) returns an error; every tenant-scoped
// failure is captured in the report instead.
func (s *SyncRunner) Run(ctx context.Context) (*domain.RunReport, error) {
	if !s.tryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.unlock()

	connections, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active connections: %w", err)
	}

	logger.Info("Syncing inventory for %d connection(s)", len(connections))

	// One worker per connection, each reporting its terminal state over
	// the channel. No shared mutable state between workers.
	results := make(chan domain.ConnectionResult, len(connections))
	for _, conn := range connections {
		go func(conn domain.Connection) {
			results <- domain.ConnectionResult{
				ConnectionID: conn.ID,
				Err:          s.syncConnection(ctx, conn),
			}
		}(conn)
	}

	collected := make([]domain.ConnectionResult, 0, len(connections))
	for range connections {
		collected = append(collected, <-results)
	}

	report := domain.NewRunReport(collected)
	// Failure lines bypass the verbose gate: a non-verbose daemon must
	// still surface tenants that stopped syncing.
	for id, err := range report.Failures() {
		logger.Error("Connection %s failed: %v", id, err)
	}
	logger.Info("%s", report.Summary())

	return report, nil
}

// syncConnection runs the full pipeline for one tenant. Steps are strictly
// sequential; the first error is terminal for this connection this run.
// There are no orchestration-level retries: the next scheduled run is the
// retry mechanism.
func (s *SyncRunner) syncConnection(ctx context.Context, conn domain.Connection) error {
	// Refresh unconditionally every run rather than checking the stored
	// expiry; one extra round trip buys immunity to clock skew.
	creds, err := s.refresher.Refresh(ctx, conn)
	if err != nil {
		return fmt.Errorf("refresh credentials: %w", err)
	}

	// Persist the new token pair before anything that can fail, so a
	// mid-run crash costs at most one stale-token cycle.
	updated, err := s.store.SaveCredentials(ctx, conn.ID, *creds)
	if err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	conn = *updated

	users, err := s.inventory.FetchUsers(ctx, conn)
	if err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}

	hosts, err := s.inventory.FetchAllHosts(ctx, conn)
	if err != nil {
		return fmt.Errorf("fetch hosts: %w", err)
	}

	details, err := s.enrichHosts(ctx, conn, hosts)
	if err != nil {
		return fmt.Errorf("fetch host detail: %w", err)
	}

	userResources := ToUserResources(conn, users)
	deviceResources := ToDeviceResources(conn, details)

	// Both calls are full replacements; a failed user sync
	// short-circuits the device sync for this tenant.
	if err := s.publisher.SyncUserAccounts(ctx, conn, userResources); err != nil {
		return fmt.Errorf("publish user accounts: %w", err)
	}
	if err := s.publisher.SyncDevices(ctx, conn, deviceResources); err != nil {
		return fmt.Errorf("publish devices: %w", err)
	}

	logger.Debug("Connection %s: published %d users, %d devices", conn.ID, len(userResources), len(deviceResources))
	return nil
}

// enrichHosts fetches per-host detail for every supported, fully-enrolled
// host, concurrently within the tenant. Hosts with pending enrollment are
// carried through without detail. Any single detail failure fails the whole
// tenant: the upstream sync is a full replacement, so a short batch would
// silently drop devices from compliance tracking.
func (s *SyncRunner) enrichHosts(ctx context.Context, conn domain.Connection, hosts []domain.SourceHost) ([]domain.HostDetail, error) {
	macHosts := make([]domain.SourceHost, 0, len(hosts))
	for _, host := range hosts {
		if host.Platform == domain.PlatformMac {
			macHosts = append(macHosts, host)
		}
	}

	details := make([]domain.HostDetail, len(macHosts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchParallelism)
	for i, host := range macHosts {
		if host.PendingEnrollment() {
			details[i] = domain.HostDetail{SourceHost: host}
			continue
		}

		i, host := i, host
		g.Go(func() error {
			detail, err := s.inventory.FetchHostDetail(gctx, conn, host.ID)
			if err != nil {
				return fmt.Errorf("host %d: %w", host.ID, err)
			}
			details[i] = *detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return details, nil
}

// tryLock marks a run as in progress, failing if one already is.
func (s *SyncRunner) tryLock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *SyncRunner) unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}
