package verify_test

import (
	"testing"

	"github.com/kobold/advplanner/pkg/goalplan"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/obslog"
	"github.com/kobold/advplanner/pkg/verify"
)

func TestCriticalFailureFindsFirstCritical(t *testing.T) {
	checks := []verify.Check{
		{Name: "warn", Passed: false, Severity: verify.SeverityWarning},
		{Name: "crit", Passed: false, Severity: verify.SeverityCritical},
	}
	fail, found := verify.CriticalFailure(checks)
	if !found || fail.Name != "crit" {
		t.Fatalf("expected crit failure, got %+v found=%v", fail, found)
	}
}

func TestCriticalFailureNoneWhenAllPass(t *testing.T) {
	checks := []verify.Check{{Name: "a", Passed: true, Severity: verify.SeverityCritical}}
	_, found := verify.CriticalFailure(checks)
	if found {
		t.Fatalf("expected no critical failure")
	}
}

func TestThiefMonitorBoundsHistory(t *testing.T) {
	m := &verify.ThiefMonitor{}
	room := ids.NewInterner().Room("maze_1")
	for i := 0; i < 30; i++ {
		m.Observe(room, ids.Id{}, ids.Id{}, false)
	}
	if len(m.History) != 20 {
		t.Fatalf("expected history bounded to 20, got %d", len(m.History))
	}
}

func TestThiefMonitorRecordsTheftAndEncounter(t *testing.T) {
	m := &verify.ThiefMonitor{}
	in := ids.NewInterner()
	room := in.Room("cellar")
	egg := in.Object("egg")

	m.Observe(room, room, egg, true)
	if m.ThiefCount != 1 {
		t.Fatalf("expected ThiefCount 1, got %d", m.ThiefCount)
	}
	if _, stolen := m.ItemsStolen[egg]; !stolen {
		t.Fatalf("expected egg recorded as stolen")
	}
	if m.Encounters != 1 {
		t.Fatalf("expected 1 encounter, got %d", m.Encounters)
	}
}

func TestProposeRecoveryPrefersHighestPriority(t *testing.T) {
	in := ids.NewInterner()
	checker := verify.New(verify.Config{}, obslog.NoOp(), nil)

	ctx := verify.RecoveryContext{
		WeaponInRoom:     in.Object("sword"),
		SafeBurnPossible: true,
	}
	strat, ok := checker.ProposeRecovery(goalplan.StuckMissingItem, ctx)
	if !ok {
		t.Fatalf("expected a recovery strategy")
	}
	if strat.Kind != verify.RecoveryWeaponPickup {
		t.Fatalf("expected WeaponPickup to win over Wait, got %v", strat.Kind)
	}
}

func TestProposeRecoveryNoneWhenNoStrategyApplies(t *testing.T) {
	checker := verify.New(verify.Config{}, obslog.NoOp(), nil)
	_, ok := checker.ProposeRecovery(goalplan.StuckNoStrategy, verify.RecoveryContext{})
	if ok {
		t.Fatalf("expected no applicable recovery strategy")
	}
}
