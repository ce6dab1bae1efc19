// Package ids provides interned symbolic identifiers shared across the
// planner: rooms, objects, directions and flags are all opaque, value-equal
// handles in the source material, and this package unifies them into a
// single comparable Id so hot paths (graph construction, distance
// computation) compare small integers instead of strings.
package ids

import "sync"

// Kind distinguishes what an Id names. Two Ids of different Kind are never
// equal even if they share a handle, since handles are allocated per-kind.
type Kind uint8

const (
	Room Kind = iota
	Object
	Direction
	Flag
	Entity // global/room/object flag owner, for flag(entity, name) lookups
)

func (k Kind) String() string {
	switch k {
	case Room:
		return "Room"
	case Object:
		return "Object"
	case Direction:
		return "Direction"
	case Flag:
		return "Flag"
	case Entity:
		return "Entity"
	default:
		return "Unknown"
	}
}

// Id is a small, comparable handle standing in for a symbolic identifier.
// The zero Id is never issued by an Interner and is used as a "no id" value.
type Id struct {
	kind   Kind
	handle uint32
}

// Kind reports which namespace this Id belongs to.
func (id Id) Kind() Kind { return id.kind }

// Zero reports whether id is the unset zero value.
func (id Id) Zero() bool { return id.kind == 0 && id.handle == 0 }

// Interner maps symbolic string names to Ids and back, per Kind. One
// Interner is shared by a single planner invocation's static tables and
// derived graphs; it is never mutated concurrently with graph queries
// beyond the initial load, but operations are synchronized regardless
// since catalog loading and testengine fixture construction may race in
// tests.
type Interner struct {
	mu      sync.RWMutex
	byName  map[Kind]map[string]uint32
	byID    map[Kind][]string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		byName: make(map[Kind]map[string]uint32),
		byID:   make(map[Kind][]string),
	}
}

// Intern returns the Id for name under kind, allocating a new handle the
// first time name is seen for that kind.
func (in *Interner) Intern(kind Kind, name string) Id {
	in.mu.Lock()
	defer in.mu.Unlock()

	names, ok := in.byName[kind]
	if !ok {
		names = make(map[string]uint32)
		in.byName[kind] = names
	}
	if handle, exists := names[name]; exists {
		return Id{kind: kind, handle: handle}
	}

	// Handles are 1-based so the zero Id stays reserved for "unset."
	handle := uint32(len(in.byID[kind])) + 1
	names[name] = handle
	in.byID[kind] = append(in.byID[kind], name)
	return Id{kind: kind, handle: handle}
}

// Name returns the symbolic string name id was interned from, or "" if id
// is unknown to this Interner.
func (in *Interner) Name(id Id) string {
	in.mu.RLock()
	defer in.mu.RUnlock()

	names := in.byID[id.kind]
	if id.handle == 0 || int(id.handle) > len(names) {
		return ""
	}
	return names[id.handle-1]
}

// Room interns name as a Room Id.
func (in *Interner) Room(name string) Id { return in.Intern(Room, name) }

// Object interns name as an Object Id.
func (in *Interner) Object(name string) Id { return in.Intern(Object, name) }

// Direction interns name as a Direction Id.
func (in *Interner) Direction(name string) Id { return in.Intern(Direction, name) }

// Flag interns name as a Flag Id.
func (in *Interner) Flag(name string) Id { return in.Intern(Flag, name) }

// Entity interns name as an Entity Id (a flag owner: "global", a room, or
// an object).
func (in *Interner) Entity(name string) Id { return in.Intern(Entity, name) }
