package services

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driving"
	"github.com/custodia-labs/attest-cli/internal/logger"
)

// DefaultSchedule is the cron spec used when none is configured.
const DefaultSchedule = "@hourly"

// Scheduler triggers sync runs on a cron schedule. Overlapping runs are
// skipped: the runner rejects a second concurrent invocation and the tick
// is logged and dropped. In-flight tenants are abandoned on Stop; that is
// safe because every upstream write is an idempotent full replacement.
type Scheduler struct {
	spec   string
	runner driving.SyncRunner
	cron   *cron.Cron
}

// NewScheduler creates a scheduler for the given cron spec. An empty spec
// falls back to DefaultSchedule.
func NewScheduler(spec string, runner driving.SyncRunner) *Scheduler {
	if spec == "" {
		spec = DefaultSchedule
	}
	return &Scheduler{
		spec:   spec,
		runner: runner,
		cron:   cron.New(),
	}
}

// Start validates the schedule and begins triggering runs. It does not
// block; call Stop to shut down.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("Scheduler started (%s)", s.spec)
	return nil
}

// Spec returns the effective cron schedule expression.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Stop shuts the scheduler down and returns a context that is done once
// any run already started has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runOnce() {
	report, err := s.runner.Run(context.Background())
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Warn("Previous sync still running, skipping this tick")
	case err != nil:
		logger.Error("Sync run aborted: %v", err)
	default:
		logger.Debug("Scheduled run finished: %d succeeded, %d failed", report.Succeeded(), report.Failed())
	}
}
