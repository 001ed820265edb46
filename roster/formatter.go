package roster

import (
	"fmt"
	"strings"

	"github.com/MazeXD/cuwo/webapi"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails   bool
	ShowEquipment bool
	ShowSkills    bool
}

// ConsoleFormatter provides console output formatting for players
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatStatus formats a server status
func (f *ConsoleFormatter) FormatStatus(status *webapi.Status) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Players: %d/%d\n", len(status.Players), status.PlayerLimit)
	fmt.Fprintf(&sb, "Seed:    %d\n", status.Seed)

	for i, name := range status.Players {
		prefix := "├"
		if i == len(status.Players)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s\n", prefix, name)
	}

	return sb.String()
}

// FormatPlayerList formats a list of players for console display
func (f *ConsoleFormatter) FormatPlayerList(players []*webapi.Player, options FormatOptions) string {
	if len(players) == 0 {
		return "No players found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nPlayer")
	if len(players) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(players))

	for i, player := range players {
		isLast := i == len(players)-1
		f.formatPlayer(&sb, player, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatPlayer formats a single player with every section it carries
func (f *ConsoleFormatter) FormatPlayer(player *webapi.Player) string {
	var sb strings.Builder
	f.formatPlayer(&sb, player, true, FormatOptions{
		ShowDetails:   true,
		ShowEquipment: true,
		ShowSkills:    true,
	})
	return sb.String()
}

// FormatPlayersToKick formats players for kick confirmation
func (f *ConsoleFormatter) FormatPlayersToKick(names []string) string {
	if len(names) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("\nPlayer")
	if len(names) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " to be kicked (%d):\n\n", len(names))

	for i, name := range names {
		prefix := "├"
		if i == len(names)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s\n", prefix, name)
	}

	return sb.String()
}

func (f *ConsoleFormatter) formatPlayer(sb *strings.Builder, player *webapi.Player, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s (level %d)\n", prefix, player.Name, player.Level)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		fmt.Fprintf(sb, "%sClass: %s/%s\n", indent, player.ClassType, player.Specialization)
		fmt.Fprintf(sb, "%sPower: %g\n", indent, player.PowerLevel)
		fmt.Fprintf(sb, "%sPosition: %.0f, %.0f, %.0f\n", indent, player.Position.X, player.Position.Y, player.Position.Z)
	}

	if options.ShowSkills && player.HasSkills {
		skills := player.Skills.Map()
		parts := make([]string, 0, len(webapi.SkillNames))
		for _, name := range webapi.SkillNames {
			parts = append(parts, fmt.Sprintf("%s=%d", name, skills[name]))
		}
		fmt.Fprintf(sb, "%sSkills: %s\n", indent, strings.Join(parts, ", "))
	}

	if options.ShowEquipment && player.HasEquipment {
		fmt.Fprintf(sb, "%sEquipment (%d):\n", indent, len(player.Equipment))
		for _, item := range player.Equipment {
			fmt.Fprintf(sb, "%s  - type %d/%d, rarity %d, level %d, %d upgrades\n",
				indent, item.Type, item.SubType, item.Rarity, item.Level, len(item.Upgrades))
		}
	}
}
