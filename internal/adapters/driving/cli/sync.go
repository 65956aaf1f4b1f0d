package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronisation pass over all active connections",
	Long: `Refreshes each active connection's upstream credentials, fetches its
user and device inventory, and publishes the transformed snapshot upstream.

Connections are processed concurrently; one connection's failure never
affects another. Per-connection failures are reported but exit zero, so a
partially degraded fleet still syncs the healthy tenants on every run.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncRunner == nil {
		return errors.New("sync service not configured")
	}
	if _, err := upstreamApp(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Synchronising all active connections...")

	report, err := syncRunner.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println(report.Summary())
	return nil
}
