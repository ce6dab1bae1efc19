// Package route implements C5: the offline Route Optimizer. It plans
// through future state using the all-known flag budget (spec.md §9 open
// question (b): "this specification adopts the permissive (all-flags)
// routing semantics"), producing a Schedule the Reactive Planner (pkg/
// goalplan) later walks turn-by-turn against the live engine.
package route

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/obslog"
	"github.com/kobold/advplanner/pkg/pathfind"
	"github.com/kobold/advplanner/pkg/prep"
)

// carryCapacity is the inventory limit spec.md §4.5 step 5 names.
const carryCapacity = 7

// Config is the static, game-specific knowledge the Optimizer needs: where
// treasures and preps live, and the deposit point they're collected
// toward. Mirrors goalplan.Config's role for C6 and verify.Config's for
// C8 — one small struct of authored facts per component, rather than a
// shared "world config" god object.
type Config struct {
	GlobalEntity ids.Id
	StartRoom    ids.Id
	DepositRoom  ids.Id
	KnownRooms   []ids.Id
	KnownFlags   map[ids.Id]struct{}

	Treasures    []ids.Id
	TreasureRoom func(ids.Id) ids.Id // resolves a treasure's static room

	Catalog  *prep.Catalog
	DepGraph *prep.DependencyGraph
	PrepRoom func(prep.Id) ids.Id // resolves a prep's static room

	// ParallelWorkTurns is how many turns of collecting the Optimizer is
	// willing to schedule during a delayed prep's timer (spec.md §4.5
	// step 5: "parallel_work_turns >= delay").
	ParallelWorkTurns int

	NameOf func(ids.Id) string // for deterministic tie-breaking (SortedRoomOrder)
}

// Optimizer is C5: nearest-neighbor + 2-opt TSP over treasure locations,
// prep insertion, and schedule construction.
type Optimizer struct {
	nav     *navgraph.Builder
	cfg     Config
	log     obslog.Logger
	metrics *Metrics
}

// New constructs an Optimizer. metrics may be nil (Plan then skips
// instrumentation) for callers that don't want Prometheus wired in.
func New(nav *navgraph.Builder, cfg Config, log obslog.Logger, metrics *Metrics) *Optimizer {
	return &Optimizer{nav: nav, cfg: cfg, log: log.Category(obslog.CategoryActions), metrics: metrics}
}

// Plan derives a Schedule from s, a snapshot of any revision (the
// Optimizer plans offline, through the all-known budget, so it doesn't
// need the live revision-cache invalidation pkg/goalplan relies on).
func (o *Optimizer) Plan(s engine.Snapshot, revision int) *Schedule {
	rooms := pathfind.SortedRoomOrder(o.cfg.KnownRooms, o.cfg.NameOf)
	g := o.nav.Build(s, rooms, navgraph.AllKnownBudget(o.cfg.KnownFlags), revision)
	ap := pathfind.FloydWarshall(g, rooms)
	dist := func(a, b ids.Id) int { return ap.Distance(a, b) }

	reachable, unreachable := o.partitionTreasures(ap)

	stopsByRoom := make(map[ids.Id]*stop)
	var stopRooms []ids.Id
	for _, t := range reachable {
		room := o.cfg.TreasureRoom(t)
		st, ok := stopsByRoom[room]
		if !ok {
			st = &stop{room: room}
			stopsByRoom[room] = st
			stopRooms = append(stopRooms, room)
		}
		st.treasures = append(st.treasures, t)
	}

	tour := nearestNeighborTour(dist, o.cfg.StartRoom, pathfind.SortedRoomOrder(stopRooms, o.cfg.NameOf))
	tour, iterations := twoOptImprove(dist, tour)
	if o.metrics != nil {
		o.metrics.TSPIterations.Add(float64(iterations))
		o.metrics.TourCost.Set(float64(tourCost(dist, tour)))
	}

	// tour[0] is always StartRoom (nearestNeighborTour seeds it there and
	// twoOptImprove never moves index 0); the treasure/prep visit order
	// itself is tour[1:].
	stops := o.insertPreps(dist, tour[1:], stopsByRoom)
	entries := o.buildSchedule(stops)

	return &Schedule{Entries: entries, Unreachable: unreachable}
}

// partitionTreasures splits Treasures into those reachable from StartRoom
// under the all-known budget and those that are not (spec.md §4.5 step
// 2); unreachable treasures are retained in Unreachable rather than
// silently dropped.
func (o *Optimizer) partitionTreasures(ap *pathfind.AllPairs) (reachable, unreachable []ids.Id) {
	for _, t := range o.cfg.Treasures {
		room := o.cfg.TreasureRoom(t)
		if ap.Reachable(o.cfg.StartRoom, room) {
			reachable = append(reachable, t)
		} else {
			o.log.Warnw("treasure unreachable under all-known budget", "treasure", o.cfg.NameOf(t))
			unreachable = append(unreachable, t)
		}
	}
	return reachable, unreachable
}

// stop is one room the tour visits: the treasures to collect there and
// the preps to run there, merged by location (spec.md §4.5 step 4: "preps
// sharing a location with a treasure are merged").
type stop struct {
	room      ids.Id
	treasures []ids.Id
	preps     []prep.Id
}

// insertPreps walks tour, a room sequence, and inserts a stop for each
// required prep at the position minimizing
// d(prev, prep_loc) + d(prep_loc, next) - d(prev, next), merging into an
// existing stop at the same room instead of creating a new one. Preps are
// processed in dependency order so that if a prep's cheapest slot would
// land before a prep it depends on, it is clamped to just after it —
// preserving the PrepDependencyGraph invariant even when geography alone
// would suggest otherwise.
func (o *Optimizer) insertPreps(dist distanceFunc, tour []ids.Id, stopsByRoom map[ids.Id]*stop) []*stop {
	stops := make([]*stop, 0, len(tour))
	for _, r := range tour {
		stops = append(stops, stopsByRoom[r])
	}

	if o.cfg.DepGraph == nil || o.cfg.Catalog == nil {
		return stops
	}

	// PrepsForTreasures already returns needed in topological order
	// (producers before consumers); walking it in that order and
	// clamping each prep's earliest insertion index to just after the
	// previous prep's placement is a conservative but simple way to keep
	// every later prep after every earlier one, which is always a
	// superset of the true per-flag dependency constraint.
	needed := o.cfg.DepGraph.PrepsForTreasures(o.cfg.Treasures)
	placedAt := make(map[prep.Id]int, len(needed))
	minIdx := 0

	for _, pid := range needed {
		loc := o.cfg.PrepRoom(pid)

		// Merge into an existing stop at the same room.
		merged := false
		for i, st := range stops {
			if i >= minIdx && st != nil && st.room == loc {
				st.preps = append(st.preps, pid)
				placedAt[pid] = i
				merged = true
				break
			}
		}
		if merged {
			minIdx = placedAt[pid] + 1
			continue
		}

		bestIdx := len(stops)
		bestCost := -1
		for i := minIdx; i <= len(stops); i++ {
			var prevRoom, nextRoom ids.Id
			havePrev, haveNext := false, false
			if i > 0 {
				prevRoom, havePrev = stops[i-1].room, true
			}
			if i < len(stops) {
				nextRoom, haveNext = stops[i].room, true
			}
			cost := 0
			switch {
			case havePrev && haveNext:
				cost = dist(prevRoom, loc) + dist(loc, nextRoom) - dist(prevRoom, nextRoom)
			case havePrev:
				cost = dist(prevRoom, loc)
			case haveNext:
				cost = dist(loc, nextRoom)
			}
			if bestCost == -1 || cost < bestCost {
				bestCost = cost
				bestIdx = i
			}
		}

		newStop := &stop{room: loc, preps: []prep.Id{pid}}
		stops = append(stops, nil)
		copy(stops[bestIdx+1:], stops[bestIdx:])
		stops[bestIdx] = newStop
		for id, at := range placedAt {
			if at >= bestIdx {
				placedAt[id] = at + 1
			}
		}
		placedAt[pid] = bestIdx
		minIdx = bestIdx + 1
	}

	out := make([]*stop, 0, len(stops))
	for _, st := range stops {
		if st != nil {
			out = append(out, st)
		}
	}
	return out
}

// buildSchedule walks stops in order and emits Move/Prep/Collect entries,
// interspersing DepositAll before carrying capacity would be exceeded
// (spec.md §4.5 step 5), Atomic preps as a single contiguous
// AtomicSequence, and delayed preps within ParallelWorkTurns as
// ParallelWork entries wrapping upcoming treasures.
func (o *Optimizer) buildSchedule(stops []*stop) []ScheduleEntry {
	var entries []ScheduleEntry
	current := o.cfg.StartRoom
	carried := 0
	anyCollected := false

	flushDeposit := func() {
		if carried == 0 {
			return
		}
		if current != o.cfg.DepositRoom {
			entries = append(entries, moveEntry(o.cfg.DepositRoom))
			current = o.cfg.DepositRoom
		}
		entries = append(entries, depositAllEntry())
		carried = 0
	}

	for si, st := range stops {
		if st.room != current {
			entries = append(entries, moveEntry(st.room))
			current = st.room
		}

		remainingPreps := stopPreps(st.preps)
		for len(remainingPreps) > 0 {
			pid := remainingPreps[0]
			remainingPreps = remainingPreps[1:]
			p := o.cfg.Catalog.Preps[pid]

			if p.Kind == prep.KindAtomic {
				entries = append(entries, atomicSequenceEntry(string(pid), st.room, p.Steps, p.Window))
				continue
			}

			entries = append(entries, prepEntry(pid))

			if p.Effect.HasDelayed && uint32(o.cfg.ParallelWorkTurns) >= p.Effect.DelayedTurns {
				parallel := o.collectTreasuresWithinWindow(stops, si+1, p.Effect.DelayedTurns)
				if len(parallel) > 0 {
					entries = append(entries, parallelWorkEntry(p.Effect.DelayedFlag, p.Effect.DelayedTurns, parallel))
				}
			}
		}

		for _, t := range st.treasures {
			if carried >= carryCapacity {
				flushDeposit()
				if st.room != current {
					entries = append(entries, moveEntry(st.room))
					current = st.room
				}
			}
			entries = append(entries, collectEntry(t))
			carried++
			anyCollected = true
		}
	}

	if anyCollected {
		flushDeposit()
	}

	return entries
}

// collectTreasuresWithinWindow names the treasures from upcoming stops the
// Optimizer judges safe to fold into a ParallelWork entry: their stop must
// be within turns of the current stop, estimated as one turn per
// intervening stop (a conservative stand-in for true travel-turn
// estimation, since pkg/route plans offline with no live move-count
// oracle).
func (o *Optimizer) collectTreasuresWithinWindow(stops []*stop, from int, turns uint32) []ids.Id {
	var out []ids.Id
	for i := from; i < len(stops) && uint32(i-from) < turns; i++ {
		out = append(out, stops[i].treasures...)
	}
	return out
}

// stopPreps returns a stop's merged preps in the order insertPreps
// accumulated them, already topo-consistent since it walks the
// dependency graph's topologically-sorted PrepsForTreasures result.
func stopPreps(pids []prep.Id) []prep.Id {
	return append([]prep.Id(nil), pids...)
}
