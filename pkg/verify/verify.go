// Package verify implements C8: pre-condition invariants, post-condition
// diffing, the thief monitor, and recovery-strategy selection (spec.md
// §4.8). It depends on pkg/goalplan (for Goal) rather than the reverse, so
// a goalplan.Planner can wire a Checker in via goalplan.Hooks without a
// import cycle.
package verify

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/goalplan"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/observer"
	"github.com/kobold/advplanner/pkg/obslog"
)

// Severity classifies a Check's failure impact.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityCritical
)

// Check is one pre-condition invariant result.
type Check struct {
	Name     string
	Passed   bool
	Severity Severity
	Message  string
}

// Config is the static, game-specific knowledge pre/post-condition checks
// need (mirrors goalplan.Config's role for C6).
type Config struct {
	GlobalEntity ids.Id
	Lantern      ids.Id
	OnFlag       ids.Id
	OpenFlag     ids.Id
	MinStrength  int
	Weapons      map[ids.Id]bool
	ThiefEntity  ids.Id
	DarkRooms    navgraph.DarkRooms
}

// Checker runs pre/post-condition checks and proposes recovery strategies.
type Checker struct {
	obs    *observer.Observer
	cfg    Config
	log    obslog.Logger
	metrics *Metrics
	thief  ThiefMonitor
}

// New constructs a Checker.
func New(cfg Config, log obslog.Logger, metrics *Metrics) *Checker {
	return &Checker{
		obs:     observer.New(log),
		cfg:     cfg,
		log:     log.Category(obslog.CategoryActions),
		metrics: metrics,
	}
}

// PreChecks runs the pre-condition invariants for g against s: alive and
// has_light for every goal (critical in a dark room, a warning elsewhere),
// plus has_weapon and combat_ready (strength at least Config.MinStrength)
// for KillEnemy goals. No at-expected-room check is made.
func (c *Checker) PreChecks(g goalplan.Goal, s engine.Snapshot) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name: "alive", Passed: s.Alive(), Severity: SeverityCritical,
		Message: "player must be alive to act",
	})

	if c.cfg.DarkRooms[s.Here()] {
		hasLight := c.obs.HasItem(s, c.cfg.Lantern) && s.Flag(c.cfg.Lantern, c.cfg.OnFlag)
		checks = append(checks, Check{
			Name: "has_light", Passed: hasLight, Severity: SeverityCritical,
			Message: "room is dark and no active light source is carried",
		})
	} else {
		lit := s.Lit() || (c.obs.HasItem(s, c.cfg.Lantern) && s.Flag(c.cfg.Lantern, c.cfg.OnFlag))
		checks = append(checks, Check{
			Name: "has_light", Passed: lit, Severity: SeverityWarning,
			Message: "no active light source carried, though the current room is lit",
		})
	}

	if g.Kind == goalplan.KindKillEnemy {
		armed := false
		for w := range c.cfg.Weapons {
			if c.obs.HasItem(s, w) {
				armed = true
				break
			}
		}
		checks = append(checks, Check{
			Name: "has_weapon", Passed: armed, Severity: SeverityCritical,
			Message: "no weapon carried for a KillEnemy goal",
		})
		checks = append(checks, Check{
			Name: "combat_ready", Passed: s.Strength() >= c.cfg.MinStrength, Severity: SeverityCritical,
			Message: "strength below the minimum required to fight",
		})
	}

	return checks
}

// CriticalFailure reports the first failing critical check, if any.
func CriticalFailure(checks []Check) (Check, bool) {
	for _, ch := range checks {
		if !ch.Passed && ch.Severity == SeverityCritical {
			return ch, true
		}
	}
	return Check{}, false
}

// PreCheckHook adapts PreChecks into the goalplan.Hooks.PreCheck signature.
func (c *Checker) PreCheckHook(g goalplan.Goal, s engine.Snapshot) (bool, goalplan.StuckReason) {
	checks := c.PreChecks(g, s)
	if fail, found := CriticalFailure(checks); found {
		c.log.Warnw("precondition failed", "check", fail.Name, "message", fail.Message)
		if c.metrics != nil {
			c.metrics.PreCheckFailures.WithLabelValues(fail.Name).Inc()
		}
		return false, goalplan.StuckNoStrategy
	}
	for _, ch := range checks {
		if !ch.Passed {
			c.log.Infow("precondition warning", "check", ch.Name, "message", ch.Message)
		}
	}
	return true, goalplan.StuckNone
}

// PostCheckHook adapts Verify into the goalplan.Hooks.PostCheck signature.
// It records side effects for metrics/logging but never substitutes a
// goal — recovery (spec.md §4.8) is a driver-level decision made once the
// planner actually reaches Stuck, via ProposeRecovery, not a per-step
// reaction to every side effect.
func (c *Checker) PostCheckHook(pre, post engine.Snapshot, a engine.Action) *goalplan.Goal {
	result := c.Verify(pre, post, a)
	for _, eff := range result.SideEffects {
		c.log.Warnw("side effect detected", "effect", eff, "verb", a.Verb)
		if c.metrics != nil {
			c.metrics.SideEffects.WithLabelValues(eff).Inc()
		}
	}
	return nil
}
