// Package testengine is a from-scratch, in-memory reference implementation
// of the Engine Contract (pkg/engine), built the way the teacher's
// graph_test.go and pkg/themes/loader_test.go build hand-authored fixtures
// (newTestRoom, mustAddRoom): a small, fully-specified world good enough to
// drive this module's own tests and cmd/advrun, not a real parser/game.
package testengine

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/rng"
)

// roomDef is static per-room data: the exit table never changes after
// World construction (flags gating a conditional/door exit are looked up
// dynamically; the table entry itself is fixed).
type roomDef struct {
	exits map[ids.Id]engine.ExitSpec
	dark  bool
}

// objectDef is static per-object data (location is mutable world state,
// tracked separately in World.location).
type objectDef struct {
	isContainer bool
	isWeapon    bool
}

// World is the mutable game state testengine.Engine drives. It is the
// single non-reentrant resource spec.md §5 describes: exactly one Engine
// wraps one World.
type World struct {
	Interner *ids.Interner
	Global   ids.Id

	rooms   map[ids.Id]*roomDef
	objects map[ids.Id]*objectDef
	// objOrder preserves AddObject's insertion order so logic that must scan
	// all objects (the thief daemon's steal roll) stays deterministic rather
	// than depending on Go's randomized map iteration.
	objOrder []ids.Id

	location map[ids.Id]engine.Location
	flags    map[ids.Id]map[ids.Id]bool

	here        ids.Id
	score       int
	moves       int
	deaths      int
	alive       bool
	strength    int
	lanternFuel float64
	lantern     ids.Id
	onFlag      ids.Id
	openFlag    ids.Id

	thief *thiefState

	cyclops     ids.Id
	ulyssesWord string

	prng *rng.Stream
}

type thiefState struct {
	room     ids.Id
	alive    bool
	bag      map[ids.Id]struct{}
	roomPool []ids.Id // rooms the thief wanders between
}

// NewWorld constructs an empty World. Callers (the tests and cmd/advrun's
// demo) populate rooms/objects via AddRoom/AddObject before play begins.
func NewWorld(in *ids.Interner, global ids.Id, seed uint64) *World {
	return &World{
		Interner:    in,
		Global:      global,
		rooms:       make(map[ids.Id]*roomDef),
		objects:     make(map[ids.Id]*objectDef),
		location:    make(map[ids.Id]engine.Location),
		flags:       make(map[ids.Id]map[ids.Id]bool),
		alive:       true,
		strength:    7,
		lanternFuel: 1.0,
		prng:        rng.NewStream(seed),
	}
}

// AddRoom registers a room and its exit table.
func (w *World) AddRoom(r ids.Id, exits map[ids.Id]engine.ExitSpec, dark bool) {
	w.rooms[r] = &roomDef{exits: exits, dark: dark}
}

// AddObject registers an object at an initial location.
func (w *World) AddObject(obj ids.Id, loc engine.Location, isContainer, isWeapon bool) {
	w.objects[obj] = &objectDef{isContainer: isContainer, isWeapon: isWeapon}
	w.location[obj] = loc
	w.objOrder = append(w.objOrder, obj)
}

// SetLantern designates the light source object and its "lit" flag.
func (w *World) SetLantern(lantern, onFlag ids.Id) {
	w.lantern = lantern
	w.onFlag = onFlag
}

// SetOpenFlag designates the flag name meaning "this container is open".
func (w *World) SetOpenFlag(f ids.Id) { w.openFlag = f }

// SetThief installs the thief daemon, wandering among rooms.
func (w *World) SetThief(start ids.Id, wander []ids.Id) {
	w.thief = &thiefState{room: start, alive: true, bag: make(map[ids.Id]struct{}), roomPool: wander}
}

// SetFlag sets entity's name flag (catalog fixture setup, not an Action).
func (w *World) SetFlag(entity, name ids.Id, v bool) {
	if w.flags[entity] == nil {
		w.flags[entity] = make(map[ids.Id]bool)
	}
	w.flags[entity][name] = v
}

// SetHere places the player (fixture setup, not an Action).
func (w *World) SetHere(r ids.Id) { w.here = r }

// SetCyclops wires the Cyclops/Ulysses-word puzzle (spec.md §4.6's special
// case for KillEnemy(cyclops)): saying word while the cyclops is present
// scares it off instead of requiring combat.
func (w *World) SetCyclops(enemy ids.Id, word string) {
	w.cyclops = enemy
	w.ulyssesWord = word
}

func (w *World) flag(entity, name ids.Id) bool {
	return w.flags[entity][name]
}

// lanternLit reports whether the lantern is both on and either carried or
// sitting in the current room — an off-stage lantern left behind in
// another room doesn't light the player's way.
func (w *World) lanternLit() bool {
	if w.lantern.Zero() || !w.flag(w.lantern, w.onFlag) {
		return false
	}
	loc := w.location[w.lantern]
	return loc.Kind == engine.LocationCarried ||
		(loc.Kind == engine.LocationRoom && loc.Room == w.here)
}
