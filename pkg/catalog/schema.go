// Package catalog loads the game-specific static tables the planner treats
// as authored data (spec.md §4.4, §9(c)): the PrepAction catalog, dark-room
// membership, teleport edges, and treasure->required-flag mappings. It
// plays the role the teacher's pkg/themes/pkg/content loaders play for a
// generated dungeon's flavor data, retargeted at a fixed game's prep/
// treasure data.
package catalog

// RawCatalog is the top-level YAML document shape.
type RawCatalog struct {
	Preps     []RawPrep     `yaml:"preps"`
	Treasures []RawTreasure `yaml:"treasures"`
	DarkRooms []string      `yaml:"dark_rooms"`
	Teleports []RawTeleport `yaml:"teleports"`
	Weapons   []string      `yaml:"weapons"`

	// FlagRequirements is spec.md §6's flag_requirements table: room name
	// -> the one flag that must be set before that room can be entered,
	// independent of (and in addition to) any exit's own conditional
	// guard. Rooms absent from this map carry no such requirement.
	FlagRequirements map[string]string `yaml:"flag_requirements"`
}

// RawPrep mirrors prep.PrepAction in a YAML-friendly shape: references to
// rooms/objects/flags are plain strings, interned on load.
type RawPrep struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Locations   []string `yaml:"locations"`
	Requires    []string `yaml:"requires"` // "flag:name" or "item:name"
	Produces    []string `yaml:"produces"` // immediate flags
	Delayed     *struct {
		Flag  string `yaml:"flag"`
		Turns uint32 `yaml:"turns"`
	} `yaml:"delayed,omitempty"`
	Kind   string   `yaml:"kind"` // immediate|combat|timed|atomic
	Target string   `yaml:"target,omitempty"`
	Steps  []string `yaml:"steps,omitempty"`
	Window uint32   `yaml:"window,omitempty"`
	Verb   string   `yaml:"verb,omitempty"`
	Object string   `yaml:"object,omitempty"`
	With   string   `yaml:"with,omitempty"`
	Word   string   `yaml:"word,omitempty"`
}

// RawTreasure ties a treasure object to the flags required before it can
// be collected/deposited.
type RawTreasure struct {
	Object         string   `yaml:"object"`
	RequiresFlags  []string `yaml:"requires_flags"`
}

// RawTeleport is one static teleport edge (e.g. praying at the temple).
type RawTeleport struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Verb string `yaml:"verb"`
	Word string `yaml:"word,omitempty"`
}
