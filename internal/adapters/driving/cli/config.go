package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and set configuration values stored in the attest config file.

The upstream OAuth application registration lives here:
  upstream.client_id      OAuth client ID
  upstream.client_secret  OAuth client secret
  upstream.token_url      OAuth token endpoint
  upstream.api_url        resource-sync API base URL
  sync.schedule           cron expression for 'attest serve'`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Println("[upstream]")
	cmd.Printf("  client_id: %s\n", valueOrUnset(configStore.GetString(driven.ConfigKeyUpstreamClientID)))
	cmd.Printf("  client_secret: %s\n", maskSecret(configStore.GetString(driven.ConfigKeyUpstreamClientSecret)))
	cmd.Printf("  token_url: %s\n", valueOrUnset(configStore.GetString(driven.ConfigKeyUpstreamTokenURL)))
	cmd.Printf("  api_url: %s\n", valueOrUnset(configStore.GetString(driven.ConfigKeyUpstreamAPIURL)))
	cmd.Println()
	cmd.Println("[sync]")
	cmd.Printf("  schedule: %s\n", valueOrUnset(configStore.GetString(driven.ConfigKeySyncSchedule)))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
