package testengine

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
)

// snapshot is an immutable copy of World's dynamic state at one instant;
// exits are read through to World's static room table, which never
// mutates after construction (spec.md §9's "copy-on-write" suggestion).
type snapshot struct {
	w *World

	here        ids.Id
	inventory   map[ids.Id]struct{} // top-level carried only
	inventoryAll map[ids.Id]struct{} // carried, including nested in carried containers
	location    map[ids.Id]engine.Location
	flags       map[ids.Id]map[ids.Id]bool
	score       int
	moves       int
	deaths      int
	alive       bool
	lit         bool
	won         bool
	finished    bool
	strength    int
	lanternFuel float64
}

func (w *World) snapshotNow() *snapshot {
	inv := make(map[ids.Id]struct{})
	loc := make(map[ids.Id]engine.Location, len(w.location))
	for obj, l := range w.location {
		loc[obj] = l
		if l.Kind == engine.LocationCarried {
			inv[obj] = struct{}{}
		}
	}
	invAll := make(map[ids.Id]struct{}, len(inv))
	for obj := range inv {
		invAll[obj] = struct{}{}
	}
	for {
		added := false
		for obj, l := range w.location {
			if l.Kind == engine.LocationContainer {
				if _, inside := invAll[l.Container]; inside {
					if _, seen := invAll[obj]; !seen {
						invAll[obj] = struct{}{}
						added = true
					}
				}
			}
		}
		if !added {
			break
		}
	}
	flags := make(map[ids.Id]map[ids.Id]bool, len(w.flags))
	for entity, fs := range w.flags {
		cp := make(map[ids.Id]bool, len(fs))
		for k, v := range fs {
			cp[k] = v
		}
		flags[entity] = cp
	}

	wonFlag := w.Interner.Flag("won")
	dark := false
	if rd, ok := w.rooms[w.here]; ok {
		dark = rd.dark
	}
	return &snapshot{
		w:            w,
		here:         w.here,
		inventory:    inv,
		inventoryAll: invAll,
		location:     loc,
		flags:        flags,
		score:        w.score,
		moves:        w.moves,
		deaths:       w.deaths,
		alive:        w.alive,
		lit:          !dark || w.lanternLit(),
		won:          w.flag(w.Global, wonFlag),
		finished:     !w.alive || w.flag(w.Global, wonFlag),
		strength:     w.strength,
		lanternFuel: w.lanternFuel,
	}
}

func (s *snapshot) Here() ids.Id                      { return s.here }
func (s *snapshot) Inventory() map[ids.Id]struct{}    { return s.inventory }
func (s *snapshot) InventoryAll() map[ids.Id]struct{} { return s.inventoryAll }

func (s *snapshot) ObjectLocation(obj ids.Id) engine.Location {
	loc, ok := s.location[obj]
	if !ok {
		// An object this World never registered is nowhere, not "in room
		// zero" — LocationRoom is Go's zero LocationKind, so a bare map
		// lookup would otherwise misreport an unknown object as located in
		// the zero Room.
		return engine.Location{Kind: engine.LocationLimbo}
	}
	return loc
}

func (s *snapshot) Flag(entity, name ids.Id) bool { return s.flags[entity][name] }

func (s *snapshot) Exits(room ids.Id) map[ids.Id]engine.ExitSpec {
	rd, ok := s.w.rooms[room]
	if !ok {
		return nil
	}
	return rd.exits
}

func (s *snapshot) Score() int           { return s.score }
func (s *snapshot) Moves() int           { return s.moves }
func (s *snapshot) Deaths() int          { return s.deaths }
func (s *snapshot) Alive() bool          { return s.alive }
func (s *snapshot) Lit() bool            { return s.lit }
func (s *snapshot) Won() bool            { return s.won }
func (s *snapshot) Finished() bool       { return s.finished }
func (s *snapshot) Strength() int        { return s.strength }
func (s *snapshot) LanternFuel() float64 { return s.lanternFuel }
