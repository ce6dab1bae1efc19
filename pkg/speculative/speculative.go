// Package speculative implements C7: scoped save/restore/advance over the
// engine's PRNG, and the combat/thief search routines built on top of it.
// Nothing here mutates real engine state — every search runs against
// simulation-local PRNG instances manufactured by a caller-supplied
// factory, never the engine's own PRNG, so a bounded concurrent sweep (via
// golang.org/x/sync/errgroup) never races with itself or with the real
// game.
package speculative

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/obslog"
)

// Guard scopes one speculative block over the real PRNG: construction saves
// a checkpoint, Release restores it. Callers must defer Release immediately
// after NewGuard so restoration happens on every exit path, including
// panic, per spec.md §5's "pair save with restore on all exit paths" rule.
type Guard struct {
	prng     engine.PRNG
	cp       engine.Checkpoint
	released bool
}

// NewGuard checkpoints prng. Call Release (typically via defer) to restore
// it; Release is idempotent.
func NewGuard(prng engine.PRNG) *Guard {
	return &Guard{prng: prng, cp: prng.Save()}
}

// Release restores prng to the checkpoint taken at construction. Safe to
// call multiple times or not at all if the checkpoint was never meant to be
// restored (callers that want to keep real draws simply never call it).
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.prng.Restore(g.cp)
	g.released = true
}

// CallsConsumed reports how many PRNG draws have happened since the
// checkpoint was taken, without restoring.
func (g *Guard) CallsConsumed() uint64 {
	return g.prng.CallCount() - g.cp.CallCount()
}

// WithSpeculative runs f against prng, always restores prng to its
// pre-call state afterward (even if f panics), and returns f's result along
// with the number of PRNG draws f consumed.
func WithSpeculative[T any](prng engine.PRNG, f func() T) (result T, callsConsumed uint64) {
	g := NewGuard(prng)
	defer func() {
		callsConsumed = g.CallsConsumed()
		g.Release()
	}()
	result = f()
	return
}

// SimPRNGFactory builds a simulation-local PRNG from a checkpoint taken off
// the real engine's PRNG. Implementations must be safe to call
// concurrently and must return an independent PRNG instance per call — the
// Speculative Executor never shares one simulated PRNG across goroutines.
type SimPRNGFactory func(cp engine.Checkpoint) engine.PRNG

// OffsetResult is one winning entry from a winning-offset search.
type OffsetResult struct {
	Offset int
	Result engine.CombatResult
}

// FindWinningOffset implements spec.md §4.7's winning-offset search: for
// each offset in [0, maxOffset), simulate combat from base advanced by
// offset draws, and among the offsets that win, return the one needing the
// fewest turns (ties broken by the smallest offset). Returns false if no
// offset wins within maxOffset.
func FindWinningOffset(
	ctx context.Context,
	sim engine.CombatSimulator,
	factory SimPRNGFactory,
	base engine.Checkpoint,
	enemy, weapon ids.Id,
	maxTurns, maxOffset int,
	log obslog.Logger,
) (OffsetResult, bool) {
	var (
		mu      sync.Mutex
		winners []OffsetResult
	)

	g, gctx := errgroup.WithContext(ctx)
	for offset := 0; offset < maxOffset; offset++ {
		offset := offset
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			p := factory(base)
			p.Advance(offset)
			res := sim.SimulateCombat(enemy, weapon, p, maxTurns)
			if res.Outcome == engine.CombatWin {
				mu.Lock()
				winners = append(winners, OffsetResult{Offset: offset, Result: res})
				mu.Unlock()
			}
			return nil
		})
	}
	// Errors are impossible here (ctx.Err only fires on cancellation the
	// caller itself triggered), so ignore the return: a cancelled search
	// simply returns whatever winners had already landed.
	_ = g.Wait()

	if len(winners) == 0 {
		log.Debugw("speculative: no winning offset found", "enemy", enemy, "max_offset", maxOffset)
		return OffsetResult{}, false
	}
	sort.Slice(winners, func(i, j int) bool {
		if winners[i].Result.TurnsUsed != winners[j].Result.TurnsUsed {
			return winners[i].Result.TurnsUsed < winners[j].Result.TurnsUsed
		}
		return winners[i].Offset < winners[j].Offset
	})
	return winners[0], true
}

// BurnAction is one of the "safe" actions (spec.md §4.7: wait, look,
// inventory) that consume zero RNG themselves but let the thief daemon
// draw once per turn they occupy.
type BurnAction uint8

const (
	BurnWait BurnAction = iota
	BurnLook
	BurnInventory
)

func (b BurnAction) Action() engine.Action {
	switch b {
	case BurnLook:
		return engine.Look()
	case BurnInventory:
		return engine.Inventory()
	default:
		return engine.Wait()
	}
}

// BurnResult is a winning burn-then-combat plan.
type BurnResult struct {
	Burn   []BurnAction
	Offset OffsetResult
}

// FindWinningBurnThenCombat extends FindWinningOffset across burn sequence
// lengths 0..maxBurn: each length advances the simulated PRNG by one call
// per burn turn (the thief daemon's draw), then searches offsets as usual.
// The shortest burn sequence with any winning offset is preferred; within
// equal-length burns, the usual turns/offset tie-break applies.
func FindWinningBurnThenCombat(
	ctx context.Context,
	sim engine.CombatSimulator,
	factory SimPRNGFactory,
	base engine.Checkpoint,
	enemy, weapon ids.Id,
	maxTurns, maxOffset, maxBurn int,
	log obslog.Logger,
) (BurnResult, bool) {
	for burnLen := 0; burnLen <= maxBurn; burnLen++ {
		burnCP := func() engine.Checkpoint {
			if burnLen == 0 {
				return base
			}
			p := factory(base)
			p.Advance(burnLen)
			return p.Save()
		}()

		if res, ok := FindWinningOffset(ctx, sim, factory, burnCP, enemy, weapon, maxTurns, maxOffset, log); ok {
			burn := make([]BurnAction, burnLen)
			for i := range burn {
				burn[i] = BurnWait
			}
			return BurnResult{Burn: burn, Offset: res}, true
		}
	}
	log.Debugw("speculative: no winning burn-then-combat plan found", "enemy", enemy, "max_burn", maxBurn)
	return BurnResult{}, false
}

// ThiefAction is C7's recommendation after predicting the thief daemon.
type ThiefAction uint8

const (
	ThiefProceed ThiefAction = iota
	ThiefWait
	ThiefAvoid
	ThiefEngage
)

// ThiefForecast is the result of PredictThief.
type ThiefForecast struct {
	Action       ThiefAction
	Events       []engine.ThiefEvent
	RouteContact []int // indices into Events where the thief occupies a route room
	BurnPlan     []BurnAction
}

// PredictThief simulates the thief daemon turn-by-turn for turns steps
// against a simulation-local PRNG, and recommends how the planner should
// proceed relative to route (spec.md §4.7's thief prediction): Proceed when
// the route is clear, Engage when the thief is predicted to appear and
// steal, Avoid(burn_seq) when burning 1..maxBurn safe turns first (each
// advancing the thief daemon's own draw, per FindWinningBurnThenCombat's
// same accounting) clears the route of contacts entirely, and Wait as the
// fallback when no such burn length does.
func PredictThief(
	sim engine.ThiefSimulator,
	factory SimPRNGFactory,
	base engine.Checkpoint,
	s engine.Snapshot,
	turns int,
	route []ids.Id,
	maxBurn int,
) ThiefForecast {
	onRoute := make(map[ids.Id]bool, len(route))
	for _, r := range route {
		onRoute[r] = true
	}

	simulate := func(cp engine.Checkpoint) ([]engine.ThiefEvent, []int, bool) {
		p := factory(cp)
		events := make([]engine.ThiefEvent, 0, turns)
		var contacts []int
		stealAhead := false
		for t := 0; t < turns; t++ {
			ev := sim.SimulateThiefTurn(s, p)
			events = append(events, ev)
			if onRoute[ev.Room] {
				contacts = append(contacts, t)
				if ev.Appeared {
					stealAhead = true
				}
			}
		}
		return events, contacts, stealAhead
	}

	events, contacts, stealAhead := simulate(base)
	forecast := ThiefForecast{Events: events, RouteContact: contacts}
	switch {
	case len(contacts) == 0:
		forecast.Action = ThiefProceed
		return forecast
	case stealAhead:
		forecast.Action = ThiefEngage
		return forecast
	}

	for burnLen := 1; burnLen <= maxBurn; burnLen++ {
		p := factory(base)
		p.Advance(burnLen)
		if _, burnedContacts, burnedSteal := simulate(p.Save()); len(burnedContacts) == 0 && !burnedSteal {
			burn := make([]BurnAction, burnLen)
			for i := range burn {
				burn[i] = BurnWait
			}
			forecast.Action = ThiefAvoid
			forecast.BurnPlan = burn
			return forecast
		}
	}

	forecast.Action = ThiefWait
	forecast.BurnPlan = []BurnAction{BurnWait}
	return forecast
}
