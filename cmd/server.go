package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MazeXD/cuwo/webapi"
)

var messageTo string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the web API version reported by the server",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

// timeCmd represents the time command
var timeCmd = &cobra.Command{
	Use:   "time [HH:MM]",
	Short: "Show or set the in-game time",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTime,
}

// messageCmd represents the message command
var messageCmd = &cobra.Command{
	Use:   "message TEXT...",
	Short: "Send a chat message to everyone or to one player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMessage,
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the web API",
	Long:  `Test the connection to the cuwo web API and display basic information.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(testCmd)

	messageCmd.Flags().StringVar(&messageTo, "to", "", "send the message only to this player")
}

func runVersion(cmd *cobra.Command, args []string) error {
	version, err := client.CheckVersion(cmd.Context())
	if errors.Is(err, webapi.ErrUnsupportedVersion) {
		fmt.Printf("Web API version: %s (unsupported, expected %s)\n", version, webapi.SupportedVersions)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	fmt.Printf("Web API version: %s\n", version)
	return nil
}

func runTime(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) == 0 {
		t, err := client.Time(ctx)
		if err != nil {
			return fmt.Errorf("failed to get time: %w", err)
		}
		fmt.Printf("In-game time: %s\n", t)
		return nil
	}

	if cfg.Safety.DryRun {
		logger.Info().Str("time", args[0]).Msg("DRY RUN MODE - Time not changed")
		return webapi.ValidateTime(args[0])
	}

	if _, err := client.SetTime(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to set time: %w", err)
	}

	logger.Info().Str("time", args[0]).Msg("Time set")
	return nil
}

func runMessage(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if cfg.Safety.DryRun {
		logger.Info().
			Str("to", messageTo).
			Str("text", text).
			Msg("DRY RUN MODE - Message not sent")
		return nil
	}

	if _, err := client.Message(cmd.Context(), text, messageTo); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	logger.Info().Str("to", messageTo).Msg("Message sent")
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to web API at %s:%d...\n", cfg.Server.Host, cfg.Server.Port)

	ctx := cmd.Context()
	if err := client.TestConnection(ctx); err != nil {
		if errors.Is(err, webapi.ErrUnauthorized) {
			return fmt.Errorf("server rejected the key, check server.key: %w", err)
		}
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")

	// Get some basic stats
	version, err := client.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	fmt.Printf("\nServer Statistics:\n")
	fmt.Printf("- Web API version: %s\n", version)
	fmt.Printf("- Players: %d/%d\n", len(status.Players), status.PlayerLimit)
	fmt.Printf("- Seed: %d\n", status.Seed)
	fmt.Printf("- Dry run: %s\n", boolToStatus(cfg.Safety.DryRun))

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
