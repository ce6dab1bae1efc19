package verify

import (
	"github.com/kobold/advplanner/pkg/goalplan"
	"github.com/kobold/advplanner/pkg/ids"
)

// RecoveryKind discriminates a recovery strategy. Values are declared in
// spec.md §4.8's stated priority order (lowest first == tried first).
type RecoveryKind uint8

const (
	RecoveryReroute RecoveryKind = iota
	RecoveryWeaponPickup
	RecoveryItemRecovery
	RecoveryEngageThief
	RecoveryWait
)

// RecoveryStrategy is one candidate fix for a Stuck planner, paired with
// the replacement goal it would push. Goal is nil for RecoveryWait, which
// asks the planner to retry without substituting any goal (the stuck goal
// itself is simply re-attempted next step).
type RecoveryStrategy struct {
	Kind RecoveryKind
	Goal *goalplan.Goal
}

// RecoveryContext carries the facts a recovery decision needs; the Checker
// has no direct engine access beyond what a caller supplies here, keeping
// pkg/verify decoupled from any one engine implementation.
type RecoveryContext struct {
	BlockedRoom      ids.Id
	WeaponInRoom     ids.Id // zero Id if none
	ThiefDead        bool
	ThiefBagItem     ids.Id // zero Id if the thief isn't dead or carries nothing
	PlayerStrong     bool
	SafeBurnPossible bool
	Enemy            ids.Id
}

// ProposeRecovery generates every applicable strategy for reason, sorts by
// priority, and returns the first — spec.md §4.8: "generated, filtered by
// applicability, sorted by priority, and the first returned."
func (c *Checker) ProposeRecovery(reason goalplan.StuckReason, ctx RecoveryContext) (RecoveryStrategy, bool) {
	var candidates []RecoveryStrategy

	goalPtr := func(g goalplan.Goal) *goalplan.Goal { return &g }

	if reason == goalplan.StuckNoPath && !ctx.BlockedRoom.Zero() {
		candidates = append(candidates, RecoveryStrategy{
			Kind: RecoveryReroute,
			Goal: goalPtr(goalplan.AtRoom(ctx.BlockedRoom)),
		})
	}
	if !ctx.WeaponInRoom.Zero() {
		candidates = append(candidates, RecoveryStrategy{
			Kind: RecoveryWeaponPickup,
			Goal: goalPtr(goalplan.HaveItem(ctx.WeaponInRoom)),
		})
	}
	if ctx.ThiefDead && !ctx.ThiefBagItem.Zero() {
		candidates = append(candidates, RecoveryStrategy{
			Kind: RecoveryItemRecovery,
			Goal: goalPtr(goalplan.HaveItem(ctx.ThiefBagItem)),
		})
	}
	if ctx.PlayerStrong && !ctx.Enemy.Zero() {
		candidates = append(candidates, RecoveryStrategy{
			Kind: RecoveryEngageThief,
			Goal: goalPtr(goalplan.KillEnemy(ctx.Enemy)),
		})
	}
	if ctx.SafeBurnPossible {
		candidates = append(candidates, RecoveryStrategy{Kind: RecoveryWait})
	}

	if len(candidates) == 0 {
		return RecoveryStrategy{}, false
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Kind < best.Kind {
			best = cand
		}
	}
	return best, true
}
