// Package observer implements C1: a read-only projection over an
// engine.Snapshot. Every query here is a pure function of the snapshot; the
// package never calls back into the engine beyond the Observation API, and
// every query is total (no errors) per spec.md §4.1.
package observer

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/obslog"
)

// maxContainerDepth bounds the container-chain walk so a misconfigured (or
// adversarially cyclic) container graph cannot loop forever.
const maxContainerDepth = 10

// Observer wraps an engine.Snapshot with composite queries. It holds no
// mutable state of its own beyond an injected logger.
type Observer struct {
	log obslog.Logger
}

// New creates an Observer. A zero-value Logger (obslog.NoOp()) is fine.
func New(log obslog.Logger) *Observer {
	return &Observer{log: log.Category(obslog.CategoryParser)}
}

// HasItem reports whether obj is anywhere in the player's carried
// inventory, including nested inside carried containers.
func (o *Observer) HasItem(s engine.Snapshot, obj ids.Id) bool {
	_, ok := s.InventoryAll()[obj]
	return ok
}

// FindObjectRoom returns the room enclosing obj, walking through any
// container chain, or the zero Id and false if obj is carried or in limbo.
// The walk is depth-limited to guard against a pathologically cyclic
// container graph in badly-authored static data.
func (o *Observer) FindObjectRoom(s engine.Snapshot, obj ids.Id) (ids.Id, bool) {
	loc := s.ObjectLocation(obj)
	depth := 0
	for {
		switch loc.Kind {
		case engine.LocationRoom:
			return loc.Room, true
		case engine.LocationCarried, engine.LocationLimbo:
			return ids.Id{}, false
		case engine.LocationContainer:
			depth++
			if depth > maxContainerDepth {
				o.log.Warnw("container chain exceeded max depth",
					"object", obj, "max_depth", maxContainerDepth)
				return ids.Id{}, false
			}
			loc = s.ObjectLocation(loc.Container)
		default:
			return ids.Id{}, false
		}
	}
}

// ObjectInRoomTransitive reports whether obj is located in room, directly
// or nested inside a container that is itself in room.
func (o *Observer) ObjectInRoomTransitive(s engine.Snapshot, obj, room ids.Id) bool {
	r, ok := o.FindObjectRoom(s, obj)
	return ok && r == room
}

// VisibleObjects returns every object transitively located in the current
// room (not inside carried containers — those are never "visible" in the
// room sense even if the player is holding the container). Objects inside
// a closed container are still reported; callers distinguish visible vs.
// takeable by reading the container's open flag via Snapshot.Flag.
func (o *Observer) VisibleObjects(s engine.Snapshot, allObjects []ids.Id) []ids.Id {
	here := s.Here()
	visible := make([]ids.Id, 0, len(allObjects))
	for _, obj := range allObjects {
		if o.ObjectInRoomTransitive(s, obj, here) {
			visible = append(visible, obj)
		}
	}
	return visible
}

// Flag is a thin pass-through kept here so callers depend on Observer
// uniformly rather than reaching into engine.Snapshot directly for simple
// queries; entity is the owning Room/Object Id, or the global pseudo-Id.
func (o *Observer) Flag(s engine.Snapshot, entity, name ids.Id) bool {
	return s.Flag(entity, name)
}

// Here returns the player's current room.
func (o *Observer) Here(s engine.Snapshot) ids.Id { return s.Here() }

// Alive, Lit, Won, Finished, Score, Moves, Deaths pass through to the
// snapshot; kept as Observer methods so every component depends on one
// query surface.
func (o *Observer) Alive(s engine.Snapshot) bool    { return s.Alive() }
func (o *Observer) Lit(s engine.Snapshot) bool      { return s.Lit() }
func (o *Observer) Won(s engine.Snapshot) bool      { return s.Won() }
func (o *Observer) Finished(s engine.Snapshot) bool { return s.Finished() }
func (o *Observer) Score(s engine.Snapshot) int     { return s.Score() }
func (o *Observer) Moves(s engine.Snapshot) int     { return s.Moves() }
func (o *Observer) Deaths(s engine.Snapshot) int    { return s.Deaths() }
