package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

var connectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Manage tenant connections",
	Long: `A connection binds one device-management instance to its upstream
tenant: the source URL and API key to read inventory from, and the upstream
refresh token and resource identifiers to publish under.`,
	RunE: runConnectionList,
}

var connectionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new connection",
	Args:  cobra.NoArgs,
	RunE:  runConnectionAdd,
}

var connectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered connections",
	Args:  cobra.NoArgs,
	RunE:  runConnectionList,
}

var connectionRemoveCmd = &cobra.Command{
	Use:   "remove [connection-id]",
	Short: "Remove a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionRemove,
}

var connectionActivateCmd = &cobra.Command{
	Use:   "activate [connection-id]",
	Short: "Include a connection in sync runs",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetActive(true),
}

var connectionDeactivateCmd = &cobra.Command{
	Use:   "deactivate [connection-id]",
	Short: "Exclude a connection from sync runs",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetActive(false),
}

var addFlags struct {
	name             string
	sourceURL        string
	sourceAPIKey     string
	refreshToken     string
	upstreamSourceID string
	userResourceID   string
	deviceResourceID string
}

func init() {
	flags := connectionAddCmd.Flags()
	flags.StringVar(&addFlags.name, "name", "", "human-readable connection name")
	flags.StringVar(&addFlags.sourceURL, "source-url", "", "base URL of the device-management instance")
	flags.StringVar(&addFlags.sourceAPIKey, "source-api-key", "", "API key for the device-management instance")
	flags.StringVar(&addFlags.refreshToken, "refresh-token", "", "upstream OAuth refresh token for this tenant")
	flags.StringVar(&addFlags.upstreamSourceID, "upstream-source-id", "", "upstream source identifier (sourceId)")
	flags.StringVar(&addFlags.userResourceID, "user-resource-id", "", "upstream resource identifier for user accounts")
	flags.StringVar(&addFlags.deviceResourceID, "device-resource-id", "", "upstream resource identifier for devices")
	for _, name := range []string{
		"name", "source-url", "source-api-key", "refresh-token",
		"upstream-source-id", "user-resource-id", "device-resource-id",
	} {
		_ = connectionAddCmd.MarkFlagRequired(name)
	}

	connectionCmd.AddCommand(connectionAddCmd)
	connectionCmd.AddCommand(connectionListCmd)
	connectionCmd.AddCommand(connectionRemoveCmd)
	connectionCmd.AddCommand(connectionActivateCmd)
	connectionCmd.AddCommand(connectionDeactivateCmd)
	rootCmd.AddCommand(connectionCmd)
}

func runConnectionAdd(cmd *cobra.Command, _ []string) error {
	if connectionStore == nil {
		return errors.New("connection store not configured")
	}

	conn := domain.Connection{
		ID:           uuid.NewString(),
		Name:         addFlags.name,
		Active:       true,
		SourceURL:    addFlags.sourceURL,
		SourceAPIKey: addFlags.sourceAPIKey,
		Upstream: domain.UpstreamCredentials{
			RefreshToken: addFlags.refreshToken,
		},
		UpstreamSourceID: addFlags.upstreamSourceID,
		UserResourceID:   addFlags.userResourceID,
		DeviceResourceID: addFlags.deviceResourceID,
	}

	if err := connectionStore.Save(cmd.Context(), conn); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	cmd.Printf("Connection added: %s (%s)\n", conn.Name, conn.ID)
	return nil
}

func runConnectionList(cmd *cobra.Command, _ []string) error {
	if connectionStore == nil {
		return errors.New("connection store not configured")
	}

	connections, err := connectionStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}

	if len(connections) == 0 {
		cmd.Println("No connections registered. Add one with 'attest connection add'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tSOURCE URL")
	for _, conn := range connections {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", conn.ID, conn.Name, conn.Active, conn.SourceURL)
	}
	return w.Flush()
}

func runConnectionRemove(cmd *cobra.Command, args []string) error {
	if connectionStore == nil {
		return errors.New("connection store not configured")
	}

	id := args[0]
	if _, err := connectionStore.Get(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}
	if err := connectionStore.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}

	cmd.Printf("Connection %s removed.\n", id)
	return nil
}

func makeSetActive(active bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if connectionStore == nil {
			return errors.New("connection store not configured")
		}

		id := args[0]
		if err := connectionStore.SetActive(cmd.Context(), id, active); err != nil {
			return fmt.Errorf("failed to update connection: %w", err)
		}

		state := "activated"
		if !active {
			state = "deactivated"
		}
		cmd.Printf("Connection %s %s.\n", id, state)
		return nil
	}
}
