// Package navgraph implements C2: deriving a NavigationGraph from an
// engine.Snapshot and a flag budget. The graph is purely topological (no
// coordinates — pkg/embedding adds those later, for visualization only) and
// mirrors the teacher's pkg/graph.Graph/Connector shape, generalized to the
// planner's edge-guard and pre-action semantics.
package navgraph

import (
	"fmt"
	"sync"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/obslog"
)

// Via discriminates how an edge is traversed.
type Via uint8

const (
	ViaDirection Via = iota
	ViaTeleport
)

// Edge is one directed connection in the graph.
type Edge struct {
	From, To ids.Id
	Via      Via
	// Direction is set when Via == ViaDirection.
	Direction ids.Id
	// TeleportAction is set when Via == ViaTeleport: the explicit action
	// (e.g. "pray") that performs the teleport.
	TeleportAction engine.Action

	// Guards is the set of flags that must be in the active budget for
	// this edge to have been included. Recorded so callers can explain
	// why an edge exists, and so invalidation can detect which edges a
	// flag change affects.
	Guards map[ids.Id]struct{}

	// PreAction is non-nil when traversal requires an action first (open
	// door, unlock, move rug).
	PreAction *engine.PreAction

	// IntoDarkRoom is true when To is a dark room; the Reactive Planner
	// (not this package) is responsible for requiring a light source
	// before using such an edge.
	IntoDarkRoom bool
}

// Graph is the NavigationGraph of spec.md §3: nodes are rooms, edges carry
// guard/pre-action metadata for command translation.
type Graph struct {
	Nodes     map[ids.Id]struct{}
	Adjacency map[ids.Id][]Edge
}

// Budget selects which flags are considered "set" when deciding whether a
// conditional/gated edge is included.
type Budget struct {
	// Current, when true, consults the live snapshot's flags. When false,
	// Known is consulted instead (the Route Optimizer's "all-known flags"
	// planning mode, spec.md §4.2).
	Current bool
	Known   map[ids.Id]struct{}
}

// CurrentBudget builds a Budget that reflects exactly the flags set in s.
func CurrentBudget() Budget { return Budget{Current: true} }

// AllKnownBudget builds a Budget that treats every flag in known as set,
// regardless of the live snapshot — used to plan through future state.
func AllKnownBudget(known map[ids.Id]struct{}) Budget {
	return Budget{Current: false, Known: known}
}

func (b Budget) has(s engine.Snapshot, global ids.Id, f ids.Id) bool {
	if b.Current {
		return s.Flag(global, f)
	}
	_, ok := b.Known[f]
	return ok
}

// TeleportEdge is a static table entry: praying at south_temple teleports
// to forest_1, performed via action.
type TeleportEdge struct {
	From, To ids.Id
	Action   engine.Action
}

// DarkRooms is the static, authored set of rooms requiring light
// (spec.md §9(c): authored, not derived).
type DarkRooms map[ids.Id]bool

// RoomFlagRequirements is the static, authored table spec.md §6 calls
// flag_requirements: RoomId -> Option<FlagName>. A room named here can
// only be entered — through any exit kind, not only an ExitConditional
// one — when its flag is in the active budget. This is Graph Builder
// Rule 2 of spec.md §4.2, kept independent of Rule 3's per-edge
// ExitConditional check: an ExitDirect or ExitDoor exit into a
// flag-gated room is excluded just as an ExitConditional one would be.
type RoomFlagRequirements map[ids.Id]ids.Id

// Builder derives NavigationGraphs from snapshots. It is stateless except
// for a small per-(revision,budget) cache, mirroring the teacher's
// sync.RWMutex-guarded synthesis registry rather than reaching for an
// external cache — there is exactly one engine per planner (spec.md §5).
type Builder struct {
	GlobalEntity ids.Id // the pseudo-entity Flag queries use for global flags
	Teleports    []TeleportEdge
	Dark         DarkRooms
	RoomFlags    RoomFlagRequirements

	log obslog.Logger

	mu    sync.Mutex
	cache map[cacheKey]*Graph
}

type cacheKey struct {
	revision int
	current  bool
}

// NewBuilder constructs a Builder over the given static tables. roomFlags
// may be nil when no room in the graph carries an independent flag
// requirement.
func NewBuilder(globalEntity ids.Id, teleports []TeleportEdge, dark DarkRooms, roomFlags RoomFlagRequirements, log obslog.Logger) *Builder {
	return &Builder{
		GlobalEntity: globalEntity,
		Teleports:    teleports,
		Dark:         dark,
		RoomFlags:    roomFlags,
		log:          log,
		cache:        make(map[cacheKey]*Graph),
	}
}

// Build derives a Graph from s under budget. rooms enumerates every known
// room (the Observer/catalog owns discovery of "known" rooms; this package
// only consumes the list). revision identifies the snapshot's cache
// generation: callers should bump it whenever any flag in the graph's
// input set changes (spec.md §3 "Lifecycles").
func (b *Builder) Build(s engine.Snapshot, rooms []ids.Id, budget Budget, revision int) *Graph {
	key := cacheKey{revision: revision, current: budget.Current}
	if budget.Current {
		if g, ok := b.lookup(key); ok {
			return g
		}
	}

	g := &Graph{
		Nodes:     make(map[ids.Id]struct{}, len(rooms)),
		Adjacency: make(map[ids.Id][]Edge),
	}
	for _, r := range rooms {
		g.Nodes[r] = struct{}{}
	}

	for _, from := range rooms {
		for dir, exit := range s.Exits(from) {
			edge, ok := b.buildEdge(s, from, dir, exit, budget)
			if ok {
				g.Adjacency[from] = append(g.Adjacency[from], edge)
			}
		}
	}

	for _, t := range b.Teleports {
		if _, known := g.Nodes[t.From]; !known {
			continue
		}
		g.Adjacency[t.From] = append(g.Adjacency[t.From], Edge{
			From: t.From, To: t.To, Via: ViaTeleport, TeleportAction: t.Action,
		})
	}

	if budget.Current {
		b.store(key, g)
	}
	return g
}

func (b *Builder) buildEdge(s engine.Snapshot, from ids.Id, dir ids.Id, exit engine.ExitSpec, budget Budget) (Edge, bool) {
	switch exit.Kind {
	case engine.ExitBlocked:
		// Rule 1: one-way blocked exits are excluded unconditionally.
		return Edge{}, false

	case engine.ExitConditional:
		if !budget.has(s, b.GlobalEntity, exit.RequiresFlag) {
			return Edge{}, false
		}
		guards := oneFlag(exit.RequiresFlag)
		if !b.admitRoom(s, budget, exit.To, guards) {
			return Edge{}, false
		}
		return Edge{
			From: from, To: exit.To, Via: ViaDirection, Direction: dir,
			Guards:       guards,
			IntoDarkRoom: b.Dark[exit.To],
		}, true

	case engine.ExitDoor:
		guards := map[ids.Id]struct{}{}
		if !b.admitRoom(s, budget, exit.To, guards) {
			return Edge{}, false
		}
		e := Edge{
			From: from, To: exit.To, Via: ViaDirection, Direction: dir,
			IntoDarkRoom: b.Dark[exit.To],
		}
		if len(guards) > 0 {
			e.Guards = guards
		}
		if exit.Pre != nil {
			pre := *exit.Pre
			e.PreAction = &pre
		}
		return e, true

	case engine.ExitDirect:
		guards := map[ids.Id]struct{}{}
		if !b.admitRoom(s, budget, exit.To, guards) {
			return Edge{}, false
		}
		e := Edge{
			From: from, To: exit.To, Via: ViaDirection, Direction: dir,
			IntoDarkRoom: b.Dark[exit.To],
		}
		if len(guards) > 0 {
			e.Guards = guards
		}
		return e, true

	default:
		return Edge{}, false
	}
}

// admitRoom enforces Rule 2 (RoomFlagRequirements, see the type doc above)
// independently of whichever exit kind led to room: when room carries a
// requirement, it gates traversal regardless of the exit's own
// ExitConditional check (Rule 3), and the gating flag is recorded into
// guards so callers can still explain why the edge exists or was excluded.
func (b *Builder) admitRoom(s engine.Snapshot, budget Budget, room ids.Id, guards map[ids.Id]struct{}) bool {
	f, ok := b.RoomFlags[room]
	if !ok {
		return true
	}
	if !budget.has(s, b.GlobalEntity, f) {
		return false
	}
	guards[f] = struct{}{}
	return true
}

func oneFlag(f ids.Id) map[ids.Id]struct{} {
	return map[ids.Id]struct{}{f: {}}
}

func (b *Builder) lookup(key cacheKey) (*Graph, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.cache[key]
	return g, ok
}

func (b *Builder) store(key cacheKey, g *Graph) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache[key] = g
}

// InvalidateAll drops every cached graph, forcing the next Build to
// recompute. Called whenever a flag affecting any cached budget changes.
func (b *Builder) InvalidateAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache = make(map[cacheKey]*Graph)
}

// String renders a Graph for debugging.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph[nodes=%d, edges=%d]", len(g.Nodes), edgeCount(g))
}

func edgeCount(g *Graph) int {
	n := 0
	for _, es := range g.Adjacency {
		n += len(es)
	}
	return n
}
