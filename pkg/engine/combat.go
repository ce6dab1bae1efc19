package engine

import "github.com/kobold/advplanner/pkg/ids"

// CombatOutcome is the result classification of one simulated fight
// (spec.md §4.7).
type CombatOutcome uint8

const (
	CombatWin CombatOutcome = iota
	CombatDeath
	CombatTimeout
)

// CombatResult is what a CombatSimulator reports for one simulated fight.
type CombatResult struct {
	Outcome    CombatOutcome
	TurnsUsed  int
	WeaponDrop bool
	// CallsUsed is how many prng values the simulated fight drew, so a
	// caller advancing the real PRNG after the fact can replicate it
	// exactly.
	CallsUsed uint64
}

// CombatSimulator is implemented by engines that support speculative combat.
// Simulate draws from prng (so the real engine's PRNG ends up exactly where
// a real fight would have left it) but must not mutate any other engine
// state — the planner's Speculative Executor (pkg/speculative) is the only
// caller, and only ever against a PRNG it owns for the duration of the call.
type CombatSimulator interface {
	SimulateCombat(enemy, weapon ids.Id, prng PRNG, maxTurns int) CombatResult
}

// ThiefEvent describes one simulated turn of the thief daemon.
type ThiefEvent struct {
	Room       ids.Id
	Appeared   bool
	Stole      bool
	ItemStolen ids.Id
}

// ThiefSimulator is implemented by engines with a thief daemon, letting the
// Speculative Executor forecast its behavior turn-by-turn without mutating
// real state.
type ThiefSimulator interface {
	SimulateThiefTurn(s Snapshot, prng PRNG) ThiefEvent
}
