package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MazeXD/cuwo/filter"
	"github.com/MazeXD/cuwo/roster"
	"github.com/MazeXD/cuwo/webapi"
)

var (
	// Command flags
	filterExpr    string
	preset        string
	noConfirm     bool
	withEquipment bool
	withSkills    bool
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show joined players, player limit and world seed",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// playerCmd represents the player command
var playerCmd = &cobra.Command{
	Use:   "player NAME",
	Short: "Show details of a joined player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

// playersCmd represents the players command
var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List joined players, optionally matching a filter expression",
	Long: `List all joined players. With --filter or --preset only players matching the
expression are shown, for example:

  cuwo players --filter 'Level >= 50 && hasItemRarity(4)'`,
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

// kickCmd represents the kick command
var kickCmd = &cobra.Command{
	Use:   "kick [NAME...]",
	Short: "Kick players by name or by filter expression",
	RunE:  runKick,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(kickCmd)

	for _, c := range []*cobra.Command{playerCmd, playersCmd} {
		c.Flags().BoolVar(&withEquipment, "equipment", false, "include equipment")
		c.Flags().BoolVar(&withSkills, "skills", false, "include skills")
	}

	playersCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	playersCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	kickCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	kickCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	kickCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func requestedInclude() webapi.Include {
	var include webapi.Include
	if withEquipment {
		include |= webapi.IncludeEquipment
	}
	if withSkills {
		include |= webapi.IncludeSkills
	}
	return include
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := client.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	fmt.Print(operations.Formatter().FormatStatus(status))
	return nil
}

func runPlayer(cmd *cobra.Command, args []string) error {
	player, err := client.Player(cmd.Context(), args[0], requestedInclude())
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	fmt.Print(operations.Formatter().FormatPlayer(player))
	return nil
}

func runPlayers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	include := requestedInclude()

	var (
		players []*webapi.Player
		err     error
	)
	if filterExpr == "" && preset == "" && cfg.Filter.DefaultExpression == "" {
		players, err = operations.OnlinePlayers(ctx, include)
	} else {
		players, err = searchPlayers(ctx, include)
	}
	if err != nil {
		return err
	}

	fmt.Print(operations.Formatter().FormatPlayerList(players, roster.FormatOptions{
		ShowDetails:   cfg.Safety.ShowDetails,
		ShowEquipment: withEquipment,
		ShowSkills:    withSkills,
	}))
	return nil
}

func runKick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) > 0 && (filterExpr != "" || preset != "") {
		return fmt.Errorf("pass either player names or a filter, not both")
	}

	names := args
	if len(names) == 0 {
		if filterExpr == "" && preset == "" {
			return fmt.Errorf("no players specified (pass names, --filter or --preset)")
		}

		players, err := searchPlayers(ctx, 0)
		if err != nil {
			return err
		}
		for _, p := range players {
			names = append(names, p.Name)
		}
	}

	return operations.KickPlayers(ctx, names, roster.KickOptions{
		DryRun:  cfg.Safety.DryRun,
		Confirm: cfg.Safety.ConfirmKick && !noConfirm,
	})
}

func searchPlayers(ctx context.Context, include webapi.Include) ([]*webapi.Player, error) {
	// Determine filter expression
	expr, err := getFilterExpression()
	if err != nil {
		return nil, err
	}

	logger.Info().Str("filter", expr).Msg("Searching players")

	f, err := filter.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	return operations.SearchPlayers(ctx, f, include)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetFilter, ok := cfg.Filter.Presets[preset]; ok {
			return presetFilter.Expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	if cfg.Filter.DefaultExpression != "" {
		return cfg.Filter.DefaultExpression, nil
	}

	return "", fmt.Errorf("no filter expression specified")
}
