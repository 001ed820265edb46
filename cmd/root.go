package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MazeXD/cuwo/config"
	"github.com/MazeXD/cuwo/roster"
	"github.com/MazeXD/cuwo/webapi"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *webapi.Client
	operations *roster.Operations

	appVersion = "dev"
	buildTime  = "unknown"

	// Global flags
	dryRun bool
	host   string
	port   int
	key    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cuwo",
	Short: "Administer a cuwo server through its web API",
	Long: `cuwo is a CLI tool for the cuwo web API script. It lists and inspects
players, kicks them by name or by filter expression, reads and sets the
in-game time and sends chat messages.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version and update commands
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "server host (overrides server.host)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "web API port (overrides server.port)")
	rootCmd.PersistentFlags().StringVar(&key, "key", "", "web API key (overrides server.key)")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration, command line flags take precedence
	flags := cmd.Flags()
	var err error
	cfg, err = config.Load(cfgFile, func(c *config.Config) {
		if flags.Changed("dry-run") {
			c.Safety.DryRun = dryRun
		}
		if flags.Changed("host") {
			c.Server.Host = host
		}
		if flags.Changed("port") {
			c.Server.Port = port
		}
		if flags.Changed("key") {
			c.Server.Key = key
		}
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	client, err = webapi.NewClient(cfg.Server.Key, cfg.Server.Host, logger,
		webapi.WithPort(cfg.Server.Port),
		webapi.WithTimeout(cfg.Server.Timeout),
		webapi.WithUserAgent(cfg.Server.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create web API client: %w", err)
	}

	operations = roster.NewOperations(client, logger,
		roster.WithConcurrency(cfg.Roster.Concurrency),
		roster.WithInput(os.Stdin, isatty.IsTerminal(os.Stdin.Fd())),
	)

	logger.Debug().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("dry_run", cfg.Safety.DryRun).
		Msg("Initialized web API client")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; no colors when stderr is redirected
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
