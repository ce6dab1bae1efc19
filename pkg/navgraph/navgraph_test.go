package navgraph_test

import (
	"testing"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/engine/testengine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/obslog"
)

func buildWorld(t *testing.T) (*testengine.World, *testengine.Engine, *ids.Interner, ids.Id, ids.Id, ids.Id, ids.Id) {
	t.Helper()
	in := ids.NewInterner()
	global := in.Entity("global")
	w := testengine.NewWorld(in, global, 1)

	hall := in.Room("hall")
	vault := in.Room("vault")
	attic := in.Room("attic")
	north := in.Direction("north")
	south := in.Direction("south")
	up := in.Direction("up")

	goldFlag := in.Flag("gold_visible")

	w.AddRoom(hall, map[ids.Id]engine.ExitSpec{
		north: {Kind: engine.ExitConditional, To: vault, RequiresFlag: goldFlag},
		up:    {Kind: engine.ExitBlocked, BlockedMessage: "The attic ladder is broken."},
	}, false)
	w.AddRoom(vault, map[ids.Id]engine.ExitSpec{
		south: {Kind: engine.ExitDirect, To: hall},
	}, true)
	w.AddRoom(attic, map[ids.Id]engine.ExitSpec{}, false)

	w.SetHere(hall)

	return w, testengine.NewEngine(w), in, hall, vault, attic, goldFlag
}

func TestBuildExcludesBlockedAndUngatedConditionalEdges(t *testing.T) {
	w, e, in, hall, vault, attic, goldFlag := buildWorld(t)
	_ = w
	b := navgraph.NewBuilder(in.Entity("global"), nil, nil, nil, obslog.NoOp())

	g := b.Build(e.Current(), []ids.Id{hall, vault, attic}, navgraph.CurrentBudget(), 1)

	for _, edge := range g.Adjacency[hall] {
		if edge.To == vault {
			t.Fatalf("expected the conditional edge to vault to be excluded when %v is unset", goldFlag)
		}
	}
	if len(g.Adjacency[hall]) != 0 {
		t.Fatalf("expected the blocked exit to be excluded entirely, got %d edges", len(g.Adjacency[hall]))
	}
}

func TestBuildIncludesConditionalEdgeOnceFlagSet(t *testing.T) {
	w, e, in, hall, vault, _, goldFlag := buildWorld(t)
	w.SetFlag(in.Entity("global"), goldFlag, true)
	b := navgraph.NewBuilder(in.Entity("global"), nil, nil, nil, obslog.NoOp())

	g := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 2)

	found := false
	for _, edge := range g.Adjacency[hall] {
		if edge.To == vault {
			found = true
			if len(edge.Guards) != 1 {
				t.Fatalf("expected exactly one guard flag recorded on the conditional edge")
			}
		}
	}
	if !found {
		t.Fatalf("expected the conditional edge to vault once %v is set", goldFlag)
	}
}

func TestBuildMarksDarkRoomEdges(t *testing.T) {
	w, e, in, hall, vault, _, goldFlag := buildWorld(t)
	w.SetFlag(in.Entity("global"), goldFlag, true)
	b := navgraph.NewBuilder(in.Entity("global"), nil, navgraph.DarkRooms{vault: true}, nil, obslog.NoOp())

	g := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 1)

	for _, edge := range g.Adjacency[hall] {
		if edge.To == vault && !edge.IntoDarkRoom {
			t.Fatalf("expected edge into vault to be flagged IntoDarkRoom")
		}
	}
}

func TestBuildAddsTeleportEdges(t *testing.T) {
	_, e, in, hall, _, attic, _ := buildWorld(t)
	teleports := []navgraph.TeleportEdge{{From: hall, To: attic, Action: engine.Action{Verb: engine.VerbPray}}}
	b := navgraph.NewBuilder(in.Entity("global"), teleports, nil, nil, obslog.NoOp())

	g := b.Build(e.Current(), []ids.Id{hall, attic}, navgraph.CurrentBudget(), 1)

	found := false
	for _, edge := range g.Adjacency[hall] {
		if edge.To == attic && edge.Via == navgraph.ViaTeleport {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a teleport edge from hall to attic")
	}
}

func TestBuildAllKnownBudgetIgnoresLiveFlags(t *testing.T) {
	_, e, in, hall, vault, _, goldFlag := buildWorld(t)
	b := navgraph.NewBuilder(in.Entity("global"), nil, nil, nil, obslog.NoOp())

	known := map[ids.Id]struct{}{goldFlag: {}}
	g := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.AllKnownBudget(known), 1)

	found := false
	for _, edge := range g.Adjacency[hall] {
		if edge.To == vault {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected AllKnownBudget to include the conditional edge even though the live flag is unset")
	}
}

// TestBuildExcludesDirectEdgeIntoRoomGatedByRoomFlagRequirement proves Rule 2
// (RoomFlagRequirements) gates an ExitDirect destination on its own, with no
// ExitConditional involved — the hall->vault exit here carries no per-edge
// guard at all.
func TestBuildExcludesDirectEdgeIntoRoomGatedByRoomFlagRequirement(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")
	w := testengine.NewWorld(in, global, 1)

	hall := in.Room("hall")
	vault := in.Room("vault")
	north := in.Direction("north")
	torchFlag := in.Flag("torch_lit")

	w.AddRoom(hall, map[ids.Id]engine.ExitSpec{
		north: {Kind: engine.ExitDirect, To: vault},
	}, false)
	w.AddRoom(vault, map[ids.Id]engine.ExitSpec{}, false)
	w.SetHere(hall)
	e := testengine.NewEngine(w)

	roomFlags := navgraph.RoomFlagRequirements{vault: torchFlag}
	b := navgraph.NewBuilder(global, nil, nil, roomFlags, obslog.NoOp())

	g := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 1)
	for _, edge := range g.Adjacency[hall] {
		if edge.To == vault {
			t.Fatalf("expected the ExitDirect edge into vault to be excluded while torch_lit is unset")
		}
	}

	w.SetFlag(global, torchFlag, true)
	g2 := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 2)
	found := false
	for _, edge := range g2.Adjacency[hall] {
		if edge.To == vault {
			found = true
			if _, ok := edge.Guards[torchFlag]; !ok {
				t.Fatalf("expected the room-level flag to be recorded in Guards, got %+v", edge.Guards)
			}
		}
	}
	if !found {
		t.Fatalf("expected the ExitDirect edge into vault once torch_lit is set")
	}
}

func TestInvalidateAllForcesCacheRebuild(t *testing.T) {
	w, e, in, hall, vault, _, goldFlag := buildWorld(t)
	b := navgraph.NewBuilder(in.Entity("global"), nil, nil, nil, obslog.NoOp())

	g1 := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 1)
	if len(g1.Adjacency[hall]) != 0 {
		t.Fatalf("expected no edges before the flag is set")
	}

	w.SetFlag(in.Entity("global"), goldFlag, true)
	b.InvalidateAll()
	g2 := b.Build(e.Current(), []ids.Id{hall, vault}, navgraph.CurrentBudget(), 1)

	if len(g2.Adjacency[hall]) == 0 {
		t.Fatalf("expected InvalidateAll to force a rebuild reflecting the new flag state")
	}
}
