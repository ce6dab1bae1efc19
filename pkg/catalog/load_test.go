package catalog

import (
	"testing"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/prep"
)

const fixtureYAML = `
preps:
  - id: open_grating
    description: open the grating from below
    locations: [grating_room]
    requires: ["item:key"]
    produces: [grating_open]
    verb: unlock
    object: grating
    with: key
  - id: exorcise_spirits
    description: exorcise the spirits with bell, book and candle
    requires: ["flag:grating_open"]
    produces: [spirits_exorcised]
    kind: atomic
    steps: [ring_bell, read_book, light_candle]
    window: 3
treasures:
  - object: egg
    requires_flags: [grating_open]
dark_rooms: [cellar, troll_room]
teleports:
  - from: forest
    to: temple
    verb: pray
weapons: [sword, nasty_knife]
flag_requirements:
  temple: torch_lit
`

func TestLoadParsesPrepsDarkRoomsTeleportsAndTreasures(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")

	loaded, err := Load([]byte(fixtureYAML), in, global)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(loaded.Catalog.Preps) != 2 {
		t.Fatalf("expected 2 preps, got %d", len(loaded.Catalog.Preps))
	}
	pa, ok := loaded.Catalog.Preps[prep.Id("open_grating")]
	if !ok {
		t.Fatalf("expected open_grating prep to be present")
	}
	if pa.Action.Verb != engine.VerbUnlock {
		t.Fatalf("expected unlock verb, got %v", pa.Action.Verb)
	}
	if len(pa.Requires) != 1 || pa.Requires[0].IsFlag {
		t.Fatalf("expected one item requirement, got %+v", pa.Requires)
	}

	atomic, ok := loaded.Catalog.Preps[prep.Id("exorcise_spirits")]
	if !ok {
		t.Fatalf("expected exorcise_spirits prep")
	}
	if atomic.Kind != prep.KindAtomic || len(atomic.Steps) != 3 || atomic.Window != 3 {
		t.Fatalf("expected atomic prep with 3 steps and window 3, got %+v", atomic)
	}

	cellar := in.Room("cellar")
	if !loaded.DarkRooms[cellar] {
		t.Fatalf("expected cellar to be a dark room")
	}

	sword := in.Object("sword")
	if !loaded.Weapons[sword] {
		t.Fatalf("expected sword to be a weapon")
	}

	if len(loaded.Teleports) != 1 || loaded.Teleports[0].Action.Verb != engine.VerbPray {
		t.Fatalf("expected one pray teleport, got %+v", loaded.Teleports)
	}

	egg := in.Object("egg")
	if len(loaded.Treasures) != 1 || loaded.Treasures[0] != egg {
		t.Fatalf("expected egg treasure, got %+v", loaded.Treasures)
	}
	flags := loaded.Catalog.TreasureRequiresFlags[egg]
	if len(flags) != 1 {
		t.Fatalf("expected egg to require one flag, got %+v", flags)
	}

	temple := in.Room("temple")
	torchLit := in.Flag("torch_lit")
	if loaded.RoomFlags[temple] != torchLit {
		t.Fatalf("expected temple to require torch_lit, got %+v", loaded.RoomFlags)
	}
}

func TestLoadRejectsMalformedRequirement(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")
	bad := `
preps:
  - id: broken
    requires: ["nonsense"]
`
	if _, err := Load([]byte(bad), in, global); err == nil {
		t.Fatalf("expected an error for a malformed requirement")
	}
}

func TestLoadBuildsDependencyGraphWithoutCycle(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")

	loaded, err := Load([]byte(fixtureYAML), in, global)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := prep.NewDependencyGraph(loaded.Catalog); err != nil {
		t.Fatalf("expected acyclic catalog, got %v", err)
	}
}
