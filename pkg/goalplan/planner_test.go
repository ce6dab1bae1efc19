package goalplan

import (
	"testing"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/engine/testengine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/obslog"
)

// fixture builds a tiny two-room world: a kitchen holding the lantern and
// the deposit case, and a dark cellar below it holding the egg. Scenario modeled on spec.md §8 S1 ("deposit the egg").
type fixture struct {
	in       *ids.Interner
	global   ids.Id
	world    *testengine.World
	eng      *testengine.Engine
	kitchen  ids.Id
	cellar   ids.Id
	egg      ids.Id
	lantern  ids.Id
	onFlag   ids.Id
	openFlag ids.Id
	kase     ids.Id
}

func buildFixture(t *testing.T) *fixture {
	t.Helper()
	in := ids.NewInterner()
	global := in.Entity("global")
	w := testengine.NewWorld(in, global, 1)

	kitchen := in.Room("kitchen")
	cellar := in.Room("cellar")
	down := in.Direction("down")
	up := in.Direction("up")

	w.AddRoom(kitchen, map[ids.Id]engine.ExitSpec{
		down: {Kind: engine.ExitDirect, To: cellar},
	}, false)
	w.AddRoom(cellar, map[ids.Id]engine.ExitSpec{
		up: {Kind: engine.ExitDirect, To: kitchen},
	}, true)

	lantern := in.Object("lantern")
	onFlag := in.Flag("on")
	w.SetLantern(lantern, onFlag)
	w.AddObject(lantern, engine.Location{Kind: engine.LocationRoom, Room: kitchen}, false, false)

	openFlag := in.Flag("open")
	w.SetOpenFlag(openFlag)

	kase := in.Object("trophy_case")
	w.AddObject(kase, engine.Location{Kind: engine.LocationRoom, Room: kitchen}, true, false)
	w.SetFlag(kase, openFlag, true)

	egg := in.Object("egg")
	w.AddObject(egg, engine.Location{Kind: engine.LocationRoom, Room: cellar}, false, false)

	w.SetHere(kitchen)

	return &fixture{
		in: in, global: global, world: w, eng: testengine.NewEngine(w),
		kitchen: kitchen, cellar: cellar, egg: egg, lantern: lantern,
		onFlag: onFlag, openFlag: openFlag, kase: kase,
	}
}

func (f *fixture) newPlanner(t *testing.T, root Goal, maxTurns int) *Planner {
	t.Helper()
	navB := navgraph.NewBuilder(f.global, nil, navgraph.DarkRooms{f.cellar: true}, nil, obslog.NoOp())
	cfg := Config{
		GlobalEntity:     f.global,
		Lantern:          f.lantern,
		LanternRoom:      f.kitchen,
		OnFlag:           f.onFlag,
		OpenFlag:         f.openFlag,
		DepositRoom:      f.kitchen,
		DepositContainer: f.kase,
		Treasures:        []ids.Id{f.egg},
		AllObjects:       []ids.Id{f.egg, f.lantern, f.kase},
		KnownRooms:       []ids.Id{f.kitchen, f.cellar},
		WeaponFor:        func(ids.Id) ids.Id { return ids.Id{} },
	}
	return New(f.eng, navB, cfg, Hooks{}, obslog.NoOp(), maxTurns, root)
}

func TestPlannerDepositsEggEndToEnd(t *testing.T) {
	f := buildFixture(t)
	p := f.newPlanner(t, ItemDeposited(f.egg), 50)

	status := p.Run()
	if status != StatusComplete {
		t.Fatalf("expected Complete, got %v (reason=%v) trace=%+v", status, p.StuckReason(), p.Trace())
	}

	snap := f.eng.Current()
	loc := snap.ObjectLocation(f.egg)
	if loc.Kind != engine.LocationContainer || loc.Container != f.kase {
		t.Fatalf("expected egg deposited in case, got %+v", loc)
	}
}

func TestPlannerTurnsOnLanternBeforeEnteringDarkRoom(t *testing.T) {
	f := buildFixture(t)
	p := f.newPlanner(t, AtRoom(f.cellar), 50)

	status := p.Run()
	if status != StatusComplete {
		t.Fatalf("expected Complete, got %v (reason=%v)", status, p.StuckReason())
	}
	if !f.eng.Current().Alive() {
		t.Fatalf("expected player alive (should have lit the lantern before descending)")
	}
	if f.eng.Current().Here() != f.cellar {
		t.Fatalf("expected player in cellar")
	}
}

func TestPlannerStuckWhenItemDoesNotExist(t *testing.T) {
	f := buildFixture(t)
	ghost := f.in.Object("nonexistent")
	p := f.newPlanner(t, HaveItem(ghost), 20)

	status := p.Run()
	if status != StatusStuck {
		t.Fatalf("expected Stuck, got %v", status)
	}
	if p.StuckReason() != StuckMissingItem {
		t.Fatalf("expected StuckMissingItem, got %v", p.StuckReason())
	}
}

func TestPlannerTimesOutWhenMaxTurnsTooLow(t *testing.T) {
	f := buildFixture(t)
	p := f.newPlanner(t, ItemDeposited(f.egg), 1)

	status := p.Run()
	if status != StatusTimeout {
		t.Fatalf("expected Timeout with an unreasonably low turn budget, got %v", status)
	}
}
