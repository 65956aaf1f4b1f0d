// Package cli implements the attest command-line interface. Commands are
// thin cobra wrappers over the driving ports; all wiring happens in
// Initialize so tests can substitute the package-level service variables.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attest-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/attest-cli/internal/adapters/driven/inventory"
	"github.com/custodia-labs/attest-cli/internal/adapters/driven/oauth"
	"github.com/custodia-labs/attest-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/attest-cli/internal/adapters/driven/upstream"
	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driving"
	"github.com/custodia-labs/attest-cli/internal/core/services"
	"github.com/custodia-labs/attest-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired by Initialize. Commands check for nil so
// tests can run them without a full stack.
var (
	configStore     driven.ConfigStore
	connectionStore driven.ConnectionStore
	syncRunner      driving.SyncRunner
	dataStore       *sqlite.Store
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "attest",
	Short: "Sync device and user inventory to your compliance platform",
	Long: `attest pulls user and device inventory from each configured
device-management instance and publishes it to your compliance platform.

Run 'attest sync' for a one-off pass or 'attest serve' to run on a schedule.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Initialize wires the adapters and services into package state.
func Initialize() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening connection store: %w", err)
	}
	dataStore = store
	connectionStore = store.ConnectionStore()

	app := cfg.UpstreamApp()
	syncRunner = services.NewSyncRunner(
		connectionStore,
		oauth.NewRefresher(app),
		inventory.NewClient(),
		upstream.NewPublisher(app),
	)

	return nil
}

// upstreamApp reads the OAuth application registration from the config
// store. Returns an error naming the config file when incomplete.
func upstreamApp() (domain.UpstreamApp, error) {
	if configStore == nil {
		return domain.UpstreamApp{}, errors.New("config store not configured")
	}

	app := configStore.UpstreamApp()
	if !app.Valid() {
		return domain.UpstreamApp{}, fmt.Errorf(
			"upstream credentials incomplete: set upstream.client_id, upstream.client_secret, upstream.token_url and upstream.api_url in %s",
			configStore.Path())
	}
	return app, nil
}

// Execute initializes the application and runs the root command.
func Execute() error {
	if err := Initialize(); err != nil {
		return err
	}
	defer func() {
		if dataStore != nil {
			_ = dataStore.Close()
		}
	}()

	return rootCmd.Execute()
}
