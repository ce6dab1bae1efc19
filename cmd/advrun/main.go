// Command advrun drives a Planner/Optimizer pair over an in-process
// testengine fixture: the Reactive Planner plays turn-by-turn toward
// AllTreasuresDeposited while the Route Optimizer plans the same errand
// offline, and both can export their results. It exists so this repo has
// something runnable, the way the teacher's cmd/dungeongen exercises its
// own generator end-to-end.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/engine/testengine"
	"github.com/kobold/advplanner/pkg/export"
	"github.com/kobold/advplanner/pkg/goalplan"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/obslog"
	"github.com/kobold/advplanner/pkg/prep"
	"github.com/kobold/advplanner/pkg/route"
	"github.com/kobold/advplanner/pkg/verify"
)

const version = "0.1.0"

var (
	outputDir = flag.String("output", ".", "Output directory for the exported schedule")
	format    = flag.String("format", "yaml", "Schedule export format: yaml, json, svg, or all")
	maxTurns  = flag.Int("max-turns", 50, "Maximum Reactive Planner turns before Timeout")
	seedFlag  = flag.Uint64("seed", 1, "Engine PRNG seed")
	verbose   = flag.Bool("verbose", false, "Print the Planner's turn-by-turn trace")
	versionF  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("advrun version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	validFormats := map[string]bool{"yaml": true, "json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		return fmt.Errorf("invalid format %q, must be one of: yaml, json, svg, all", *format)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fx := buildFixture(*seedFlag)
	log := obslog.NoOp()

	navB := navgraph.NewBuilder(fx.world.Global, nil, fx.darkRooms, nil, log)
	checker := verify.New(fx.verifyConfig(), log, nil)
	hooks := goalplan.Hooks{PreCheck: checker.PreCheckHook, PostCheck: checker.PostCheckHook}

	eng := testengine.NewEngine(fx.world)
	planner := goalplan.New(eng, navB, fx.plannerConfig(), hooks, log, *maxTurns, goalplan.AllTreasuresDeposited())

	status := planner.Run()
	if *verbose {
		printTrace(fx.world.Interner, planner.Trace())
	}
	fmt.Printf("Planner finished after %d turns: %s\n", planner.Turn(), status)

	sched, err := fx.plan()
	if err != nil {
		return fmt.Errorf("route optimizer failed: %w", err)
	}

	return fx.exportSchedule(sched)
}

// fixture bundles the testengine.World built by buildFixture with the
// room/object handles and dark-room table every component (Planner,
// Optimizer, Checker, SVG export) needs, so those don't have to re-derive
// them from the Interner by name.
type fixture struct {
	world *testengine.World

	livingRoom, cellar, treasureRoom ids.Id
	lantern, trophyCase, egg         ids.Id
	onFlag, openFlag                 ids.Id
	darkRooms                        navgraph.DarkRooms
}

func buildFixture(seed uint64) *fixture {
	in := ids.NewInterner()
	global := in.Entity("global")
	w := testengine.NewWorld(in, global, seed)

	livingRoom := in.Room("living_room")
	cellar := in.Room("cellar")
	treasureRoom := in.Room("treasure_room")

	down := in.Direction("down")
	up := in.Direction("up")
	north := in.Direction("north")
	south := in.Direction("south")

	w.AddRoom(livingRoom, map[ids.Id]engine.ExitSpec{
		down: {Kind: engine.ExitDirect, To: cellar},
	}, false)
	w.AddRoom(cellar, map[ids.Id]engine.ExitSpec{
		up:    {Kind: engine.ExitDirect, To: livingRoom},
		north: {Kind: engine.ExitDirect, To: treasureRoom},
	}, true)
	w.AddRoom(treasureRoom, map[ids.Id]engine.ExitSpec{
		south: {Kind: engine.ExitDirect, To: cellar},
	}, true)

	lantern := in.Object("lantern")
	onFlag := in.Flag("on")
	w.AddObject(lantern, engine.Location{Kind: engine.LocationRoom, Room: livingRoom}, false, false)
	w.SetLantern(lantern, onFlag)

	openFlag := in.Flag("open")
	w.SetOpenFlag(openFlag)
	trophyCase := in.Object("trophy_case")
	w.AddObject(trophyCase, engine.Location{Kind: engine.LocationRoom, Room: livingRoom}, true, false)

	egg := in.Object("jeweled_egg")
	w.AddObject(egg, engine.Location{Kind: engine.LocationRoom, Room: treasureRoom}, false, false)

	w.SetHere(livingRoom)

	return &fixture{
		world:        w,
		livingRoom:   livingRoom,
		cellar:       cellar,
		treasureRoom: treasureRoom,
		lantern:      lantern,
		trophyCase:   trophyCase,
		egg:          egg,
		onFlag:       onFlag,
		openFlag:     openFlag,
		darkRooms:    navgraph.DarkRooms{cellar: true, treasureRoom: true},
	}
}

func (fx *fixture) knownRooms() []ids.Id {
	return []ids.Id{fx.livingRoom, fx.cellar, fx.treasureRoom}
}

func (fx *fixture) plannerConfig() goalplan.Config {
	return goalplan.Config{
		GlobalEntity:     fx.world.Global,
		Lantern:          fx.lantern,
		LanternRoom:      fx.livingRoom,
		VictoryRoom:      fx.livingRoom,
		OnFlag:           fx.onFlag,
		OpenFlag:         fx.openFlag,
		DepositRoom:      fx.livingRoom,
		DepositContainer: fx.trophyCase,
		Treasures:        []ids.Id{fx.egg},
		AllObjects:       []ids.Id{fx.lantern, fx.trophyCase, fx.egg},
		KnownRooms:       fx.knownRooms(),
		WeaponFor:        func(ids.Id) ids.Id { return ids.Id{} },
	}
}

func (fx *fixture) verifyConfig() verify.Config {
	return verify.Config{
		GlobalEntity: fx.world.Global,
		Lantern:      fx.lantern,
		OnFlag:       fx.onFlag,
		OpenFlag:     fx.openFlag,
		MinStrength:  0,
		DarkRooms:    fx.darkRooms,
	}
}

func (fx *fixture) plan() (*route.Schedule, error) {
	catalog := prep.NewCatalog()
	depGraph, err := prep.NewDependencyGraph(catalog)
	if err != nil {
		return nil, fmt.Errorf("building prep dependency graph: %w", err)
	}

	navB := navgraph.NewBuilder(fx.world.Global, nil, fx.darkRooms, nil, obslog.NoOp())
	optCfg := route.Config{
		GlobalEntity: fx.world.Global,
		StartRoom:    fx.livingRoom,
		DepositRoom:  fx.livingRoom,
		KnownRooms:   fx.knownRooms(),
		KnownFlags:   map[ids.Id]struct{}{},
		Treasures:    []ids.Id{fx.egg},
		TreasureRoom: func(ids.Id) ids.Id { return fx.treasureRoom },
		Catalog:      catalog,
		DepGraph:     depGraph,
		PrepRoom:     func(prep.Id) ids.Id { return ids.Id{} },
		NameOf:       fx.world.Interner.Name,
	}

	opt := route.New(navB, optCfg, obslog.NoOp(), nil)
	eng := testengine.NewEngine(fx.world)
	return opt.Plan(eng.Current(), 1), nil
}

func (fx *fixture) exportSchedule(sched *route.Schedule) error {
	in := fx.world.Interner

	if *format == "yaml" || *format == "all" {
		path := filepath.Join(*outputDir, "schedule.yaml")
		if err := export.SaveScheduleYAMLToFile(sched, path, in); err != nil {
			return fmt.Errorf("exporting YAML schedule: %w", err)
		}
		if *verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	if *format == "json" || *format == "all" {
		path := filepath.Join(*outputDir, "schedule.json")
		if err := export.SaveScheduleJSONToFile(sched, path, in); err != nil {
			return fmt.Errorf("exporting JSON schedule: %w", err)
		}
		if *verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	if *format == "svg" || *format == "all" {
		path := filepath.Join(*outputDir, "route_map.svg")

		navB := navgraph.NewBuilder(fx.world.Global, nil, fx.darkRooms, nil, obslog.NoOp())
		eng := testengine.NewEngine(fx.world)
		g := navB.Build(eng.Current(), fx.knownRooms(), navgraph.AllKnownBudget(nil), 1)

		roles := export.RoomRoles{
			Start:    fx.livingRoom,
			Deposit:  fx.livingRoom,
			Treasure: map[ids.Id]bool{fx.egg: true},
		}
		opts := export.DefaultRouteMapOptions()
		data, err := export.ExportRouteMapSVG(g, sched, roles, in, opts)
		if err != nil {
			return fmt.Errorf("rendering route map: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing route map: %w", err)
		}
		if *verbose {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	return nil
}

func printTrace(in *ids.Interner, trace []goalplan.TraceEntry) {
	for _, entry := range trace {
		if entry.Action != nil {
			fmt.Printf("turn %3d  room=%-16s goal=%-24s action=%v  %q\n",
				entry.Turn, in.Name(entry.Room), entry.Goal, entry.Action.Verb, entry.Message)
		} else {
			fmt.Printf("turn %3d  room=%-16s goal=%-24s event=%s\n",
				entry.Turn, in.Name(entry.Room), entry.Goal, entry.Event)
		}
	}
}
