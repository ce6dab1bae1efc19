// Package engine defines the Engine Contract the planner depends on: a
// read-only Observation API over an immutable Snapshot, an Action API that
// advances the engine one command at a time, and a PRNG API the Speculative
// Executor uses to save, restore and advance the engine's random stream.
//
// Nothing in this package implements a game. It specifies the boundary the
// rest of the planner (pkg/observer .. pkg/verify) is built against; see
// pkg/engine/testengine for a reference implementation used by this
// module's own tests.
package engine

import "github.com/kobold/advplanner/pkg/ids"

// Location describes where an Object currently is.
type Location struct {
	Kind LocationKind
	Room ids.Id // valid when Kind == LocationRoom
	// Container is the enclosing object when Kind == LocationContainer.
	Container ids.Id
}

// LocationKind discriminates the Location variant.
type LocationKind uint8

const (
	LocationRoom LocationKind = iota
	LocationContainer
	LocationCarried
	LocationLimbo
)

// Snapshot is an immutable, point-in-time view of the full game state. The
// planner never mutates a Snapshot; every action produces a new one.
type Snapshot interface {
	// Here returns the player's current room.
	Here() ids.Id

	// Inventory returns the top-level carried objects (not walking into
	// carried containers).
	Inventory() map[ids.Id]struct{}

	// InventoryAll returns carried objects including everything nested in
	// carried containers.
	InventoryAll() map[ids.Id]struct{}

	// ObjectLocation returns where obj currently is.
	ObjectLocation(obj ids.Id) Location

	// Flag reports a unified boolean over global, room and object flags:
	// entity is the global pseudo-entity, a RoomId, or an ObjectId; name
	// is the flag being queried.
	Flag(entity ids.Id, name ids.Id) bool

	// Exits returns the exits known for room.
	Exits(room ids.Id) map[ids.Id]ExitSpec

	Score() int
	Moves() int
	Deaths() int
	Alive() bool
	Lit() bool
	Won() bool
	Finished() bool

	// Strength is the player's current combat/carry strength, consulted by
	// the Verifier's pre-condition and side-effect checks (spec.md §4.8).
	Strength() int

	// LanternFuel is the active light source's remaining fuel, as a
	// fraction of full (1.0 == full); the Verifier watches for a drop of
	// more than 10% between steps as a side effect.
	LanternFuel() float64
}

// ExitKind discriminates the ExitSpec variant.
type ExitKind uint8

const (
	ExitDirect ExitKind = iota
	ExitConditional
	ExitDoor
	ExitBlocked
)

// PreAction describes an action that must succeed before a Door exit can be
// traversed (e.g. moving a rug before entering a cellar).
type PreAction struct {
	Action Action
	// RequiresFlag is set when the pre-action is unnecessary once a flag
	// is already true (e.g. the door is already open).
	RequiresFlag   ids.Id
	RequiresEntity ids.Id
}

// ExitSpec is a tagged variant describing one exit from a room.
type ExitSpec struct {
	Kind ExitKind

	// Direct, Conditional, Door all use To.
	To ids.Id

	// Conditional: traversable iff RequiresFlag is set on the global
	// entity.
	RequiresFlag ids.Id

	// Door fields.
	Door         ids.Id
	OneWay       bool
	NeedsUnlock  bool
	Key          ids.Id // zero Id if Key is not set (no key needed)
	HasKey       bool
	Pre          *PreAction

	// Blocked carries a human-readable reason; the exit is never
	// traversable.
	BlockedMessage string
}

// Verb enumerates the Action grammar's tag per spec.md §6.
type Verb uint8

const (
	VerbGo Verb = iota
	VerbTake
	VerbDrop
	VerbPutIn
	VerbOpen
	VerbClose
	VerbUnlock
	VerbTurnOn
	VerbTurnOff
	VerbAttack
	VerbSay
	VerbMove
	VerbTie
	VerbPush
	VerbTurn
	VerbPray
	VerbWait
	VerbLook
	VerbInventory
	VerbDiagnose
	VerbRing
	VerbLight
	VerbRead
	VerbWave
	VerbInflate
)

// Action is the single tagged-variant type submitted to Execute. Not every
// field is meaningful for every Verb; constructors below build a
// well-formed Action per verb so callers never hand-assemble an invalid
// combination.
type Action struct {
	Verb      Verb
	Object    ids.Id
	Secondary ids.Id // container/target/key/with/to, depending on Verb
	Word      string // Say{word}
}

func Go(direction ids.Id) Action             { return Action{Verb: VerbGo, Object: direction} }
func Take(obj ids.Id) Action                 { return Action{Verb: VerbTake, Object: obj} }
func Drop(obj ids.Id) Action                 { return Action{Verb: VerbDrop, Object: obj} }
func PutIn(obj, container ids.Id) Action     { return Action{Verb: VerbPutIn, Object: obj, Secondary: container} }
func Open(obj ids.Id) Action                 { return Action{Verb: VerbOpen, Object: obj} }
func Close(obj ids.Id) Action                { return Action{Verb: VerbClose, Object: obj} }
func Unlock(obj, key ids.Id) Action          { return Action{Verb: VerbUnlock, Object: obj, Secondary: key} }
func TurnOn(obj ids.Id) Action               { return Action{Verb: VerbTurnOn, Object: obj} }
func TurnOff(obj ids.Id) Action              { return Action{Verb: VerbTurnOff, Object: obj} }
func Attack(enemy, weapon ids.Id) Action     { return Action{Verb: VerbAttack, Object: enemy, Secondary: weapon} }
func Say(word string) Action                 { return Action{Verb: VerbSay, Word: word} }
func Move(obj ids.Id) Action                 { return Action{Verb: VerbMove, Object: obj} }
func Tie(obj, to ids.Id) Action              { return Action{Verb: VerbTie, Object: obj, Secondary: to} }
func Push(obj ids.Id) Action                 { return Action{Verb: VerbPush, Object: obj} }
func Turn(obj, with ids.Id) Action           { return Action{Verb: VerbTurn, Object: obj, Secondary: with} }
func Pray() Action                           { return Action{Verb: VerbPray} }
func Wait() Action                           { return Action{Verb: VerbWait} }
func Look() Action                           { return Action{Verb: VerbLook} }
func Inventory() Action                      { return Action{Verb: VerbInventory} }
func Diagnose() Action                       { return Action{Verb: VerbDiagnose} }
func Ring(obj ids.Id) Action                 { return Action{Verb: VerbRing, Object: obj} }
func Light(obj, with ids.Id) Action          { return Action{Verb: VerbLight, Object: obj, Secondary: with} }
func Read(obj ids.Id) Action                 { return Action{Verb: VerbRead, Object: obj} }
func Wave(obj ids.Id) Action                 { return Action{Verb: VerbWave, Object: obj} }
func Inflate(obj, with ids.Id) Action        { return Action{Verb: VerbInflate, Object: obj, Secondary: with} }

// Message is the engine's human-readable narration of an action's effect.
// The planner logs it but never parses it for control flow.
type Message string

// Engine is the full contract the planner drives. Execute is deterministic
// given (Snapshot, PRNG state) and never panics on a well-formed Action;
// malformed actions are reported via Message/EngineError, not a Go error
// return, mirroring spec.md §6 ("does not throw").
type Engine interface {
	Current() Snapshot
	Execute(a Action) (Snapshot, Message)
	PRNG() PRNG
}

// PRNG is the engine's PRNG API (spec.md §6): a seeded, reversible,
// call-counted random stream.
type PRNG interface {
	Save() Checkpoint
	Restore(Checkpoint)
	Advance(n int)
	CallCount() uint64
}

// Checkpoint is an opaque snapshot of PRNG state, including its call
// counter. Implementations must make Restore(Save()) a no-op and Save
// cheap (spec.md §3).
type Checkpoint interface {
	// CallCount is the PRNG's monotone call counter at the moment this
	// checkpoint was taken.
	CallCount() uint64
}
