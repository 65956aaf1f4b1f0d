package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
	"github.com/custodia-labs/attest-cli/internal/core/services"
)

var serveSchedule string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync daemon on a schedule",
	Long: `Runs synchronisation passes on a cron schedule until interrupted.

The schedule comes from --schedule, falling back to the sync.schedule
configuration key and then to "` + services.DefaultSchedule + `". A tick that
arrives while a run is still in flight is skipped.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", "cron schedule expression (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if syncRunner == nil {
		return errors.New("sync service not configured")
	}
	if _, err := upstreamApp(); err != nil {
		return err
	}

	spec := serveSchedule
	if spec == "" {
		spec = configStore.GetString(driven.ConfigKeySyncSchedule)
	}

	scheduler := services.NewScheduler(spec, syncRunner)
	if err := scheduler.Start(); err != nil {
		return err
	}

	cmd.Printf("attest daemon started (schedule %q). Press Ctrl+C to stop.\n", scheduler.Spec())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	cmd.Println("Shutting down...")
	<-scheduler.Stop().Done()
	return nil
}
