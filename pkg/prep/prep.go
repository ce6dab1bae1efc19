// Package prep implements C4: the static Prep Catalog and the dependency
// graph derived from it. The catalog is authored data (spec.md §4.4); this
// package's job is to validate it (acyclic, per spec.md §3's
// PrepDependencyGraph invariant) and answer the queries the Route
// Optimizer and Reactive Planner need.
//
// The catalog/registry shape follows the teacher's pkg/synthesis.Register/
// Get/List (a RWMutex-guarded package map) for lookup, and its
// pkg/graph/constraint.go ConstraintKind/Severity enums for the
// declarative, data-first texture of a PrepAction.
package prep

import (
	"sort"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
)

// Kind discriminates a PrepAction's execution shape.
type Kind uint8

const (
	KindImmediate Kind = iota
	KindCombat
	KindTimed
	KindAtomic
)

// Requirement is either an Object or a Flag the prep needs present/set
// before it can run.
type Requirement struct {
	IsFlag bool
	Id     ids.Id
}

// Effect describes what a PrepAction produces.
type Effect struct {
	ImmediateFlags []ids.Id
	HasDelayed     bool
	DelayedFlag    ids.Id
	DelayedTurns   uint32
}

// Id identifies a PrepAction within a Catalog.
type Id string

// PrepAction is one node of the prep DAG (spec.md §3).
type PrepAction struct {
	ID          Id
	Description string
	Locations   []ids.Id
	Requires    []Requirement
	Effect      Effect
	Kind        Kind

	// Combat: the enemy this prep fights.
	Target ids.Id

	// Atomic: the ordered sub-steps and the turn window they must all
	// complete within.
	Steps  []Id
	Window uint32

	// Action is the engine action(s) this prep performs when not Atomic;
	// Atomic preps instead look up each step's own Action.
	Action engine.Action
}

// Catalog is the full static prep table plus the treasure->required-flags
// map used to resolve preps_for_treasure.
type Catalog struct {
	Preps             map[Id]*PrepAction
	order              []Id // insertion order, for stable iteration/ties
	TreasureRequiresFlags map[ids.Id][]ids.Id
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Preps:                 make(map[Id]*PrepAction),
		TreasureRequiresFlags: make(map[ids.Id][]ids.Id),
	}
}

// Add registers a PrepAction, preserving insertion order for Kahn's
// algorithm tie-breaking.
func (c *Catalog) Add(p *PrepAction) {
	if _, exists := c.Preps[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	c.Preps[p.ID] = p
}

// producesFlag reports whether p's effect (immediate or delayed) includes f.
func (p *PrepAction) producesFlag(f ids.Id) bool {
	for _, pf := range p.Effect.ImmediateFlags {
		if pf == f {
			return true
		}
	}
	return p.Effect.HasDelayed && p.Effect.DelayedFlag == f
}

// DependencyGraph holds directed edges prep -> prep, p -> q meaning q
// requires a flag p produces (spec.md §3: "directed edges from each
// PrepAction to any PrepAction whose produced flag it requires" — we store
// it as producer -> consumer so a topological sort naturally orders
// producers first).
type DependencyGraph struct {
	catalog *Catalog
	edges   map[Id][]Id // producer -> consumers
}

// ErrCyclicCatalog is returned by NewDependencyGraph when the catalog's
// prep requirements form a cycle; per spec.md §4.4 this is a construction
// failure (a ConfigError), not a recoverable planner Stuck.
type ErrCyclicCatalog struct {
	Cycle []Id
}

func (e *ErrCyclicCatalog) Error() string {
	s := "prep: cyclic catalog dependency: "
	for i, id := range e.Cycle {
		if i > 0 {
			s += " -> "
		}
		s += string(id)
	}
	return s
}

// NewDependencyGraph builds and validates the DependencyGraph for catalog.
// Construction fails (returns *ErrCyclicCatalog) if the requirements form a
// cycle, per spec.md §3's PrepDependencyGraph invariant.
func NewDependencyGraph(catalog *Catalog) (*DependencyGraph, error) {
	dg := &DependencyGraph{catalog: catalog, edges: make(map[Id][]Id)}

	for _, consumerID := range catalog.order {
		consumer := catalog.Preps[consumerID]
		for _, req := range consumer.Requires {
			if !req.IsFlag {
				continue
			}
			for _, producerID := range catalog.order {
				if producerID == consumerID {
					continue
				}
				if catalog.Preps[producerID].producesFlag(req.Id) {
					dg.edges[producerID] = append(dg.edges[producerID], consumerID)
				}
			}
		}
	}

	if cycle, ok := dg.findCycle(); ok {
		return nil, &ErrCyclicCatalog{Cycle: cycle}
	}
	return dg, nil
}

func (dg *DependencyGraph) findCycle() ([]Id, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Id]int, len(dg.catalog.order))
	var stack []Id

	var visit func(Id) ([]Id, bool)
	visit = func(id Id) ([]Id, bool) {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range dg.edges[id] {
			switch color[next] {
			case white:
				if cyc, found := visit(next); found {
					return cyc, true
				}
			case gray:
				// Found the back edge; slice the stack from next's
				// position to build a minimal cycle trace.
				for i, s := range stack {
					if s == next {
						cyc := append([]Id(nil), stack[i:]...)
						return append(cyc, next), true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil, false
	}

	for _, id := range dg.catalog.order {
		if color[id] == white {
			if cyc, found := visit(id); found {
				return cyc, true
			}
		}
	}
	return nil, false
}

// TopologicalSort orders ids using Kahn's algorithm: a prep appears only
// after every prep it depends on. Ties (multiple preps with no remaining
// dependency at the same step) are broken by catalog insertion order for
// determinism. Panics if dg was somehow constructed over a cyclic
// catalog — NewDependencyGraph already rejects that, so reaching this
// panic means a caller bypassed construction, a programmer error per
// spec.md §7.
func (dg *DependencyGraph) TopologicalSort(subset []Id) []Id {
	inSubset := make(map[Id]bool, len(subset))
	for _, id := range subset {
		inSubset[id] = true
	}

	indegree := make(map[Id]int, len(subset))
	for _, id := range subset {
		indegree[id] = 0
	}
	for producer, consumers := range dg.edges {
		if !inSubset[producer] {
			continue
		}
		for _, consumer := range consumers {
			if inSubset[consumer] {
				indegree[consumer]++
			}
		}
	}

	// Seed the ready queue in catalog insertion order for determinism.
	var ready []Id
	for _, id := range dg.catalog.order {
		if inSubset[id] && indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var out []Id
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)

		// Consumers become ready in catalog insertion order.
		var newlyReady []Id
		for _, consumer := range dg.edges[id] {
			if !inSubset[consumer] {
				continue
			}
			indegree[consumer]--
			if indegree[consumer] == 0 {
				newlyReady = append(newlyReady, consumer)
			}
		}
		sort.SliceStable(newlyReady, func(i, j int) bool {
			return dg.insertionIndex(newlyReady[i]) < dg.insertionIndex(newlyReady[j])
		})
		ready = append(ready, newlyReady...)
		sort.SliceStable(ready, func(i, j int) bool {
			return dg.insertionIndex(ready[i]) < dg.insertionIndex(ready[j])
		})
	}

	if len(out) != len(subset) {
		panic("prep: TopologicalSort invoked on a cyclic subset; NewDependencyGraph should have rejected this catalog")
	}
	return out
}

func (dg *DependencyGraph) insertionIndex(id Id) int {
	for i, oid := range dg.catalog.order {
		if oid == id {
			return i
		}
	}
	return len(dg.catalog.order)
}

// PrepsForTreasure returns the preps required for treasure, closed under
// transitive dependency, topologically sorted.
func (dg *DependencyGraph) PrepsForTreasure(treasure ids.Id) []Id {
	return dg.PrepsForTreasures([]ids.Id{treasure})
}

// PrepsForTreasures returns the union of preps required across treasures,
// closed under transitive dependency and topologically sorted.
func (dg *DependencyGraph) PrepsForTreasures(treasures []ids.Id) []Id {
	needed := make(map[Id]bool)
	var collect func(f ids.Id)
	var queue []ids.Id

	for _, t := range treasures {
		queue = append(queue, dg.catalog.TreasureRequiresFlags[t]...)
	}

	collect = func(f ids.Id) {
		for _, id := range dg.catalog.order {
			p := dg.catalog.Preps[id]
			if needed[id] {
				continue
			}
			if p.producesFlag(f) {
				needed[id] = true
				for _, req := range p.Requires {
					if req.IsFlag {
						collect(req.Id)
					}
				}
			}
		}
	}
	for _, f := range queue {
		collect(f)
	}

	var subset []Id
	for id := range needed {
		subset = append(subset, id)
	}
	return dg.TopologicalSort(subset)
}

// MissingPreps returns the subset of want whose produced flag is not yet
// set in s.
func (dg *DependencyGraph) MissingPreps(s engine.Snapshot, globalEntity ids.Id, want []Id) []Id {
	var missing []Id
	for _, id := range want {
		p := dg.catalog.Preps[id]
		satisfied := true
		for _, f := range p.Effect.ImmediateFlags {
			if !s.Flag(globalEntity, f) {
				satisfied = false
				break
			}
		}
		if satisfied && p.Effect.HasDelayed && !s.Flag(globalEntity, p.Effect.DelayedFlag) {
			satisfied = false
		}
		if !satisfied {
			missing = append(missing, id)
		}
	}
	return missing
}

// ReadyPreps returns every prep whose requirements are all satisfied in s.
func (dg *DependencyGraph) ReadyPreps(s engine.Snapshot, globalEntity ids.Id, hasItem func(ids.Id) bool) []Id {
	var ready []Id
	for _, id := range dg.catalog.order {
		p := dg.catalog.Preps[id]
		ok := true
		for _, req := range p.Requires {
			if req.IsFlag {
				if !s.Flag(globalEntity, req.Id) {
					ok = false
					break
				}
			} else if !hasItem(req.Id) {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, id)
		}
	}
	return ready
}

// PrepLevels partitions the full catalog into dependency levels: level 0
// has no deps, level k depends only on levels < k.
func (dg *DependencyGraph) PrepLevels() [][]Id {
	level := make(map[Id]int, len(dg.catalog.order))
	var compute func(Id) int
	visiting := make(map[Id]bool)
	compute = func(id Id) int {
		if l, done := level[id]; done {
			return l
		}
		if visiting[id] {
			panic("prep: PrepLevels encountered a cycle; catalog should have been validated")
		}
		visiting[id] = true
		max := -1
		p := dg.catalog.Preps[id]
		for _, req := range p.Requires {
			if !req.IsFlag {
				continue
			}
			for _, producerID := range dg.catalog.order {
				if dg.catalog.Preps[producerID].producesFlag(req.Id) {
					if l := compute(producerID); l > max {
						max = l
					}
				}
			}
		}
		visiting[id] = false
		level[id] = max + 1
		return max + 1
	}

	var maxLevel int
	for _, id := range dg.catalog.order {
		l := compute(id)
		if l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]Id, maxLevel+1)
	for _, id := range dg.catalog.order {
		l := level[id]
		levels[l] = append(levels[l], id)
	}
	return levels
}
