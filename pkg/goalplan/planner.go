package goalplan

import (
	"github.com/google/uuid"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/observer"
	"github.com/kobold/advplanner/pkg/obslog"
	"github.com/kobold/advplanner/pkg/pathfind"
)

// Status is the planner's state machine (spec.md §4.8's diagram).
type Status uint8

const (
	StatusRunning Status = iota
	StatusComplete
	StatusStuck
	StatusDead
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusComplete:
		return "Complete"
	case StatusStuck:
		return "Stuck"
	case StatusDead:
		return "Dead"
	case StatusTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// StuckReason classifies why the planner halted in Stuck.
type StuckReason uint8

const (
	StuckNone StuckReason = iota
	StuckNoPath
	StuckMissingItem
	StuckNoStrategy
)

// TraceEntry is one step's record (spec.md §4.6: "turn, room, goal,
// action|event, message, inventory, score").
type TraceEntry struct {
	Turn      int
	Room      ids.Id
	Goal      Goal
	Action    *engine.Action
	Event     string
	Message   engine.Message
	Inventory []ids.Id
	Score     int
}

// Config wires the static, game-specific knowledge the selection rules need
// that cannot be derived from the engine contract alone (spec.md §9(c)
// treats this as authored data, same as navgraph's DarkRooms table).
type Config struct {
	GlobalEntity ids.Id
	Lantern      ids.Id
	LanternRoom  ids.Id // room the lantern is normally found in
	VictoryRoom  ids.Id
	Cyclops      ids.Id
	UlyssesWord  string

	// OnFlag and OpenFlag are the interned flag names meaning "this light
	// source is lit" and "this container is open", shared across every
	// object/room that can be lit or opened.
	OnFlag   ids.Id
	OpenFlag ids.Id

	DepositRoom      ids.Id
	DepositContainer ids.Id
	Treasures        []ids.Id

	// AllObjects lists every object the planner may ever reference, for
	// Observer.VisibleObjects's transitive room scan.
	AllObjects []ids.Id
	// KnownRooms lists every room navgraph.Builder should consider when
	// deriving the current-budget graph.
	KnownRooms []ids.Id

	// WeaponFor returns the weapon to use against enemy (spec.md's KillEnemy
	// decomposition "decompose into weapon ... as needed").
	WeaponFor func(enemy ids.Id) ids.Id

	// RouteBlockers maps a "this enemy being alive gates this flag" pair:
	// when AtRoom's pathfind fails because a route is gated behind a flag
	// that enemy's death would set, the planner decomposes into KillEnemy
	// instead of halting Stuck(NoPath) — spec.md scenario S2 ("reroute
	// around troll").
	RouteBlockers []RouteBlocker
}

// RouteBlocker names one enemy whose death sets GateFlag, opening a route.
type RouteBlocker struct {
	Enemy    ids.Id
	GateFlag ids.Id
}

// Hooks let an external verifier (C8) guard and audit every step without
// goalplan importing pkg/verify — pkg/verify depends on goalplan instead,
// avoiding a cycle.
type Hooks struct {
	// PreCheck runs before an Action is submitted; a false return aborts the
	// step with the given StuckReason instead of calling Execute.
	PreCheck func(g Goal, s engine.Snapshot) (ok bool, reason StuckReason)
	// PostCheck runs after an Action executes; it may request a recovery
	// goal be pushed in place of the current stuck state.
	PostCheck func(pre, post engine.Snapshot, a engine.Action) (recoveryGoal *Goal)
}

// Planner drives one engine via the step algorithm in spec.md §4.6.
type Planner struct {
	RunID uuid.UUID

	eng     engine.Engine
	obs     *observer.Observer
	navB    *navgraph.Builder
	cfg     Config
	hooks   Hooks
	log     obslog.Logger

	stack    []Goal
	stackSet map[Goal]int

	turn     int
	maxTurns int
	status   Status
	reason   StuckReason

	trace        []TraceEntry
	traceEnabled bool

	revision int // bumped on every flag-affecting action, for navgraph's cache
}

// New constructs a Planner with a single root goal (typically Win()).
func New(eng engine.Engine, navB *navgraph.Builder, cfg Config, hooks Hooks, log obslog.Logger, maxTurns int, root Goal) *Planner {
	p := &Planner{
		RunID:        uuid.New(),
		eng:          eng,
		obs:          observer.New(log),
		navB:         navB,
		cfg:          cfg,
		hooks:        hooks,
		log:          log.Category(obslog.CategoryActions),
		maxTurns:     maxTurns,
		traceEnabled: true,
	}
	p.pushUnchecked(root)
	return p
}

// Status returns the planner's current state.
func (p *Planner) Status() Status       { return p.status }
func (p *Planner) StuckReason() StuckReason { return p.reason }
func (p *Planner) Trace() []TraceEntry  { return p.trace }
func (p *Planner) Turn() int            { return p.turn }

// SetTracing toggles trace-entry allocation (spec.md §4.6: "when disabled,
// trace entries are not allocated").
func (p *Planner) SetTracing(enabled bool) { p.traceEnabled = enabled }

// Run steps the planner until it reaches a terminal status.
func (p *Planner) Run() Status {
	for p.status == StatusRunning {
		p.Step()
	}
	return p.status
}

// Step performs exactly one unit of the algorithm in spec.md §4.6: either a
// status transition, a stack mutation, or one engine action.
func (p *Planner) Step() {
	if p.status != StatusRunning {
		return
	}

	s := p.eng.Current()

	if len(p.stack) == 0 {
		p.status = StatusComplete
		return
	}
	if p.turn >= p.maxTurns {
		p.status = StatusTimeout
		return
	}
	if !p.obs.Alive(s) {
		p.status = StatusDead
		return
	}
	if p.obs.Finished(s) {
		p.status = StatusComplete
		return
	}

	g := p.stack[len(p.stack)-1]

	if p.hooks.PreCheck != nil {
		if ok, reason := p.hooks.PreCheck(g, s); !ok {
			p.status = StatusStuck
			p.reason = reason
			p.recordEvent(g, "precheck_failed")
			return
		}
	}

	result := p.selectActionFor(g, s)
	switch result.kind {
	case selectSatisfied:
		p.pop()
		p.recordEvent(g, "satisfied")

	case selectDecompose:
		p.decompose(g, result.subs)

	case selectAction:
		p.submit(g, result.action)

	case selectStuck:
		p.status = StatusStuck
		p.reason = result.reason
		p.recordEvent(g, "stuck")
	}
}

func (p *Planner) decompose(g Goal, subs []Goal) {
	var fresh []Goal
	for _, sub := range subs {
		if p.stackSet[sub] == 0 {
			fresh = append(fresh, sub)
		}
	}
	if len(fresh) == 0 {
		p.pop()
		p.recordEvent(g, "cycle_skip")
		return
	}
	// subs[0] must execute next: push in reverse so it ends up on top.
	for i := len(fresh) - 1; i >= 0; i-- {
		p.push(fresh[i])
	}
	p.recordEvent(g, "decompose")
}

func (p *Planner) submit(g Goal, a engine.Action) {
	pre := p.eng.Current()
	post, msg := p.eng.Execute(a)
	p.turn++
	p.revision++
	p.navB.InvalidateAll()

	if p.hooks.PostCheck != nil {
		if recovery := p.hooks.PostCheck(pre, post, a); recovery != nil {
			p.push(*recovery)
		}
	}

	entry := TraceEntry{
		Turn: p.turn, Room: post.Here(), Goal: g, Action: &a, Message: msg,
		Score: post.Score(),
	}
	if p.traceEnabled {
		entry.Inventory = idSlice(post.Inventory())
		p.trace = append(p.trace, entry)
	}
}

func (p *Planner) recordEvent(g Goal, event string) {
	if !p.traceEnabled {
		return
	}
	s := p.eng.Current()
	p.trace = append(p.trace, TraceEntry{
		Turn: p.turn, Room: s.Here(), Goal: g, Event: event,
		Inventory: idSlice(s.Inventory()), Score: s.Score(),
	})
}

func (p *Planner) push(g Goal) {
	p.stack = append(p.stack, g)
	p.stackSet[g]++
}

func (p *Planner) pushUnchecked(g Goal) {
	if p.stackSet == nil {
		p.stackSet = make(map[Goal]int)
	}
	p.push(g)
}

func (p *Planner) pop() Goal {
	g := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.stackSet[g]--
	if p.stackSet[g] == 0 {
		delete(p.stackSet, g)
	}
	return g
}

func idSlice(m map[ids.Id]struct{}) []ids.Id {
	out := make([]ids.Id, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// buildGraph derives the current-budget navigation graph for this step.
func (p *Planner) buildGraph(s engine.Snapshot) *navgraph.Graph {
	return p.navB.Build(s, p.cfg.KnownRooms, navgraph.CurrentBudget(), p.revision)
}

// shortestPath is a convenience wrapper combining graph build + BFS.
func (p *Planner) shortestPath(s engine.Snapshot, to ids.Id) (*pathfind.Path, error) {
	g := p.buildGraph(s)
	return pathfind.ShortestPath(g, s.Here(), to)
}
