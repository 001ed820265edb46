// Package roster implements the admin workflows built on top of the web API client:
// bulk player lookups, filtered searches and guarded kicks.
package roster

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MazeXD/cuwo/filter"
	"github.com/MazeXD/cuwo/webapi"
)

// ErrConfirmationRequired is returned when a kick needs confirmation but no terminal is attached
var ErrConfirmationRequired = errors.New("confirmation required but input is not a terminal (use --no-confirm)")

// KickOptions contains options for kicking players
type KickOptions struct {
	DryRun  bool
	Confirm bool
}

// Operations handles player search and kick workflows
type Operations struct {
	api         webapi.API
	logger      zerolog.Logger
	formatter   *ConsoleFormatter
	concurrency int
	out         io.Writer
	in          *bufio.Reader
	interactive bool
}

// Option configures Operations
type Option func(*Operations)

// WithConcurrency sets the maximum number of concurrent web API calls
func WithConcurrency(n int) Option {
	return func(o *Operations) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithOutput sets where listings and prompts are written
func WithOutput(w io.Writer) Option {
	return func(o *Operations) {
		o.out = w
	}
}

// WithInput sets where confirmations are read from. interactive tells whether
// the input is a terminal a person can answer on.
func WithInput(r io.Reader, interactive bool) Option {
	return func(o *Operations) {
		o.in = bufio.NewReader(r)
		o.interactive = interactive
	}
}

// NewOperations creates a new Operations instance
func NewOperations(api webapi.API, logger zerolog.Logger, opts ...Option) *Operations {
	o := &Operations{
		api:         api,
		logger:      logger,
		formatter:   NewConsoleFormatter(),
		concurrency: DefaultConcurrency,
		out:         os.Stdout,
		in:          bufio.NewReader(os.Stdin),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Formatter returns the formatter used for console output
func (o *Operations) Formatter() *ConsoleFormatter {
	return o.formatter
}

// OnlinePlayers returns details for every joined player
func (o *Operations) OnlinePlayers(ctx context.Context, include webapi.Include) ([]*webapi.Player, error) {
	status, err := o.api.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return o.FetchPlayers(ctx, status.Players, include)
}

// SearchPlayers returns the online players matching f.
// The include sections the filter needs are always requested.
func (o *Operations) SearchPlayers(ctx context.Context, f *filter.Filter, include webapi.Include) ([]*webapi.Player, error) {
	players, err := o.OnlinePlayers(ctx, include|f.NeedsInclude())
	if err != nil {
		return nil, err
	}

	matches, errs := f.Select(players)
	for _, err := range errs {
		o.logger.Warn().Err(err).Msg("Skipping player")
	}

	o.logger.Info().
		Str("filter", f.Expression()).
		Int("online", len(players)).
		Int("matched", len(matches)).
		Msg("Filtered players")

	return matches, nil
}

// KickPlayers kicks the named players, honoring dry run and confirmation settings
func (o *Operations) KickPlayers(ctx context.Context, names []string, opts KickOptions) error {
	if len(names) == 0 {
		o.logger.Info().Msg("No players to kick")
		return nil
	}

	if opts.DryRun {
		o.logger.Info().Msg("DRY RUN MODE - No players will be kicked")
		fmt.Fprint(o.out, o.formatter.FormatPlayersToKick(names))
		return nil
	}

	if opts.Confirm {
		if !o.interactive {
			return ErrConfirmationRequired
		}
		fmt.Fprint(o.out, o.formatter.FormatPlayersToKick(names))
		if !o.confirmKick(len(names)) {
			o.logger.Info().Msg("Kick cancelled by user")
			return nil
		}
	}

	result := o.BatchKickPlayers(ctx, names)

	o.logger.Info().
		Int("kicked", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Msg("Kick complete")

	// Log individual failures
	for _, failure := range result.Failed {
		o.logger.Error().
			Err(failure.Err).
			Str("player", failure.Player).
			Msg("Failed to kick player")
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("failed to kick %d players", len(result.Failed))
	}

	return nil
}

// confirmKick prompts the user for confirmation
func (o *Operations) confirmKick(count int) bool {
	fmt.Fprintf(o.out, "\nAre you sure you want to kick %d player(s)? [y/N]: ", count)

	response, _ := o.in.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
