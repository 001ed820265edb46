package webapitest

import "github.com/MazeXD/cuwo/webapi"

// Player is a joined player held by the fake server
type Player struct {
	Name           string
	X, Y, Z        int64
	Class          int
	Specialization int
	Level          int
	Equipment      []Item
	// Skills holds the nine skill levels in server order
	Skills [9]int
}

// Item is a piece of equipment held by a Player
type Item struct {
	Type          int
	SubType       int
	Modifier      int
	MinusModifier int
	Rarity        int
	Material      int
	Flags         int
	Level         int
	Upgrades      []webapi.ItemUpgrade
}

var skillKeys = [9]string{
	"pet-master",
	"riding",
	"climbing",
	"hang-gliding",
	"swimming",
	"sailing",
	"class-skill-1",
	"class-skill-2",
	"class-skill-3",
}

// encode renders the player the way the webapi script does
func (p *Player) encode(equipment, skills bool) map[string]any {
	out := map[string]any{
		"name":           p.Name,
		"position":       map[string]any{"x": p.X, "y": p.Y, "z": p.Z},
		"class":          p.Class,
		"specialization": p.Specialization,
		"level":          p.Level,
		"power-level":    webapi.PowerLevel(p.Level),
	}

	if skills {
		encoded := make(map[string]any, len(skillKeys))
		for i, key := range skillKeys {
			encoded[key] = p.Skills[i]
		}
		out["skills"] = encoded
	}

	if equipment {
		items := make([]map[string]any, 0, len(p.Equipment))
		for _, it := range p.Equipment {
			items = append(items, it.encode())
		}
		out["equipment"] = items
	}

	return out
}

func (it Item) encode() map[string]any {
	upgrades := make([]map[string]any, 0, len(it.Upgrades))
	for _, u := range it.Upgrades {
		upgrades = append(upgrades, map[string]any{
			"x":        u.X,
			"y":        u.Y,
			"z":        u.Z,
			"material": u.Material,
			"level":    u.Level,
		})
	}

	return map[string]any{
		"type":           it.Type,
		"sub-type":       it.SubType,
		"modifier":       it.Modifier,
		"minus-modifier": it.MinusModifier,
		"rarity":         it.Rarity,
		"material":       it.Material,
		"flags":          it.Flags,
		"level":          it.Level,
		"power-level":    webapi.PowerLevel(it.Level),
		"upgrades":       upgrades,
	}
}
