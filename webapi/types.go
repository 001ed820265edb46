package webapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is a snapshot of the server returned by the status endpoint
type Status struct {
	// Players holds the names of joined players in server order
	Players     []string
	PlayerLimit int
	Seed        int64
}

// HasPlayer reports whether name is online, ignoring case like the server does
func (s *Status) HasPlayer(name string) bool {
	for _, p := range s.Players {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// String returns a short description of the status
func (s *Status) String() string {
	return fmt.Sprintf("Status {players=%v, player_limit=%d, seed=%d}", s.Players, s.PlayerLimit, s.Seed)
}

// DecodeStatus builds a Status from the status endpoint payload
func DecodeStatus(data []byte) (*Status, error) {
	obj, err := decodeObject("status", data)
	if err != nil {
		return nil, err
	}

	var s Status
	if err := obj.field("players", &s.Players); err != nil {
		return nil, err
	}
	if err := obj.field("player-limit", &s.PlayerLimit); err != nil {
		return nil, err
	}
	if err := obj.field("seed", &s.Seed); err != nil {
		return nil, err
	}
	if s.Players == nil {
		s.Players = []string{}
	}

	return &s, nil
}

// Position is a location in world coordinates
type Position struct {
	X float64
	Y float64
	Z float64
}

// Player describes an online player
type Player struct {
	Name           string
	Position       Position
	ClassType      string
	Specialization string
	Level          int
	PowerLevel     float64

	// HasEquipment is set when the response carried an equipment list; Equipment is nil otherwise
	HasEquipment bool
	Equipment    []Item

	// HasSkills is set when the response carried skills; Skills is nil otherwise
	HasSkills bool
	Skills    *Skills
}

// String returns a short description of the player
func (p *Player) String() string {
	s := fmt.Sprintf("Player {name=%s, position=(%g, %g, %g), level=%d, ...}",
		p.Name, p.Position.X, p.Position.Y, p.Position.Z, p.Level)
	if p.HasEquipment {
		s += " [Has_Equipment]"
	}
	if p.HasSkills {
		s += " [Has_Skills]"
	}
	return s
}

// DecodePlayer builds a Player from the object found under the "player" key
func DecodePlayer(data []byte) (*Player, error) {
	obj, err := decodeObject("player", data)
	if err != nil {
		return nil, err
	}

	var p Player
	if err := obj.field("name", &p.Name); err != nil {
		return nil, err
	}

	pos, err := obj.raw("position")
	if err != nil {
		return nil, err
	}
	if p.Position, err = decodePosition(pos); err != nil {
		return nil, err
	}

	if p.ClassType, err = obj.text("class"); err != nil {
		return nil, err
	}
	if p.Specialization, err = obj.text("specialization"); err != nil {
		return nil, err
	}
	if err := obj.field("level", &p.Level); err != nil {
		return nil, err
	}
	if err := obj.field("power-level", &p.PowerLevel); err != nil {
		return nil, err
	}

	if obj.has("equipment") {
		var items []json.RawMessage
		if err := obj.field("equipment", &items); err != nil {
			return nil, err
		}
		p.Equipment = make([]Item, 0, len(items))
		for i, raw := range items {
			item, err := DecodeItem(raw)
			if err != nil {
				return nil, fmt.Errorf("equipment[%d]: %w", i, err)
			}
			p.Equipment = append(p.Equipment, *item)
		}
		p.HasEquipment = true
	}

	if obj.has("skills") {
		raw, err := obj.raw("skills")
		if err != nil {
			return nil, err
		}
		skills, err := DecodeSkills(raw)
		if err != nil {
			return nil, err
		}
		p.Skills = skills
		p.HasSkills = true
	}

	return &p, nil
}

func decodePosition(data []byte) (Position, error) {
	obj, err := decodeObject("position", data)
	if err != nil {
		return Position{}, err
	}

	var pos Position
	if err := obj.field("x", &pos.X); err != nil {
		return Position{}, err
	}
	if err := obj.field("y", &pos.Y); err != nil {
		return Position{}, err
	}
	if err := obj.field("z", &pos.Z); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// Skill names as exposed by Skills.Map
const (
	SkillPetMaster   = "pet_master"
	SkillRiding      = "riding"
	SkillClimbing    = "climbing"
	SkillHangGliding = "hang_gliding"
	SkillSwimming    = "swimming"
	SkillSailing     = "sailing"
	SkillClass1      = "class_skill_1"
	SkillClass2      = "class_skill_2"
	SkillClass3      = "class_skill_3"
)

// SkillNames lists every skill in server order
var SkillNames = []string{
	SkillPetMaster,
	SkillRiding,
	SkillClimbing,
	SkillHangGliding,
	SkillSwimming,
	SkillSailing,
	SkillClass1,
	SkillClass2,
	SkillClass3,
}

// Skills holds the skill levels of a player
type Skills struct {
	PetMaster   int
	Riding      int
	Climbing    int
	HangGliding int
	Swimming    int
	Sailing     int
	ClassSkill1 int
	ClassSkill2 int
	ClassSkill3 int
}

// Map returns the skills keyed by their names in SkillNames
func (s *Skills) Map() map[string]int {
	return map[string]int{
		SkillPetMaster:   s.PetMaster,
		SkillRiding:      s.Riding,
		SkillClimbing:    s.Climbing,
		SkillHangGliding: s.HangGliding,
		SkillSwimming:    s.Swimming,
		SkillSailing:     s.Sailing,
		SkillClass1:      s.ClassSkill1,
		SkillClass2:      s.ClassSkill2,
		SkillClass3:      s.ClassSkill3,
	}
}

// DecodeSkills builds Skills from a skills object. All nine keys are required.
func DecodeSkills(data []byte) (*Skills, error) {
	obj, err := decodeObject("skills", data)
	if err != nil {
		return nil, err
	}

	var s Skills
	targets := []struct {
		key string
		dst *int
	}{
		{"pet-master", &s.PetMaster},
		{"riding", &s.Riding},
		{"climbing", &s.Climbing},
		{"hang-gliding", &s.HangGliding},
		{"swimming", &s.Swimming},
		{"sailing", &s.Sailing},
		{"class-skill-1", &s.ClassSkill1},
		{"class-skill-2", &s.ClassSkill2},
		{"class-skill-3", &s.ClassSkill3},
	}
	for _, t := range targets {
		if *t.dst, err = obj.level(t.key); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// Item is a piece of equipment
type Item struct {
	Type          int
	SubType       int
	Modifier      int
	MinusModifier int
	Rarity        int
	Material      int
	Flags         int
	Level         int
	PowerLevel    float64
	// Upgrades is never nil
	Upgrades []ItemUpgrade
}

// String returns a short description of the item
func (i *Item) String() string {
	return fmt.Sprintf("Item {type=%d, sub_type=%d, rarity=%d, ...} [%d upgrades]",
		i.Type, i.SubType, i.Rarity, len(i.Upgrades))
}

// DecodeItem builds an Item from an equipment entry
func DecodeItem(data []byte) (*Item, error) {
	obj, err := decodeObject("item", data)
	if err != nil {
		return nil, err
	}

	var it Item
	ints := []struct {
		key string
		dst *int
	}{
		{"type", &it.Type},
		{"sub-type", &it.SubType},
		{"modifier", &it.Modifier},
		{"minus-modifier", &it.MinusModifier},
		{"rarity", &it.Rarity},
		{"material", &it.Material},
		{"flags", &it.Flags},
		{"level", &it.Level},
	}
	for _, f := range ints {
		if err := obj.field(f.key, f.dst); err != nil {
			return nil, err
		}
	}
	if err := obj.field("power-level", &it.PowerLevel); err != nil {
		return nil, err
	}

	var upgrades []json.RawMessage
	if err := obj.field("upgrades", &upgrades); err != nil {
		return nil, err
	}
	it.Upgrades = make([]ItemUpgrade, 0, len(upgrades))
	for i, raw := range upgrades {
		up, err := DecodeItemUpgrade(raw)
		if err != nil {
			return nil, fmt.Errorf("upgrades[%d]: %w", i, err)
		}
		it.Upgrades = append(it.Upgrades, *up)
	}

	return &it, nil
}

// ItemUpgrade is a single voxel upgrade applied to an item
type ItemUpgrade struct {
	X        int
	Y        int
	Z        int
	Material int
	Level    int
}

// String returns a short description of the upgrade
func (u *ItemUpgrade) String() string {
	return fmt.Sprintf("ItemUpgrade {x=%d, y=%d, z=%d, material=%d, level=%d}",
		u.X, u.Y, u.Z, u.Material, u.Level)
}

// DecodeItemUpgrade builds an ItemUpgrade from an upgrade entry
func DecodeItemUpgrade(data []byte) (*ItemUpgrade, error) {
	obj, err := decodeObject("upgrade", data)
	if err != nil {
		return nil, err
	}

	var u ItemUpgrade
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"x", &u.X},
		{"y", &u.Y},
		{"z", &u.Z},
		{"material", &u.Material},
		{"level", &u.Level},
	} {
		if err := obj.field(f.key, f.dst); err != nil {
			return nil, err
		}
	}

	return &u, nil
}

// PowerLevel returns the power level the server derives from a character or item level
func PowerLevel(level int) int {
	return int(101 - 100/(0.05*float64(level-1)+1))
}
