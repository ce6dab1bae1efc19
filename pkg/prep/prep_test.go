package prep_test

import (
	"testing"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/prep"
)

func flagReq(f ids.Id) prep.Requirement { return prep.Requirement{IsFlag: true, Id: f} }

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	in := ids.NewInterner()
	ringBell := flagReq
	_ = ringBell

	fA, fB, fC := in.Flag("a_done"), in.Flag("b_done"), in.Flag("c_done")

	catalog := prep.NewCatalog()
	catalog.Add(&prep.PrepAction{ID: "A", Effect: prep.Effect{ImmediateFlags: []ids.Id{fA}}})
	catalog.Add(&prep.PrepAction{ID: "B", Requires: []prep.Requirement{flagReq(fA)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fB}}})
	catalog.Add(&prep.PrepAction{ID: "C", Requires: []prep.Requirement{flagReq(fB)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fC}}})

	dg, err := prep.NewDependencyGraph(catalog)
	if err != nil {
		t.Fatalf("unexpected cycle error: %v", err)
	}

	order := dg.TopologicalSort([]prep.Id{"C", "B", "A"})
	pos := map[prep.Id]int{}
	for i, id := range order {
		pos[id] = i
	}
	if !(pos["A"] < pos["B"] && pos["B"] < pos["C"]) {
		t.Fatalf("expected order A, B, C; got %v", order)
	}
}

func TestNewDependencyGraphRejectsCycle(t *testing.T) {
	in := ids.NewInterner()
	fA, fB := in.Flag("a_done"), in.Flag("b_done")

	catalog := prep.NewCatalog()
	catalog.Add(&prep.PrepAction{ID: "A", Requires: []prep.Requirement{flagReq(fB)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fA}}})
	catalog.Add(&prep.PrepAction{ID: "B", Requires: []prep.Requirement{flagReq(fA)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fB}}})

	_, err := prep.NewDependencyGraph(catalog)
	if err == nil {
		t.Fatalf("expected a cycle error, got nil")
	}
}

func TestPrepsForTreasureTransitiveClosure(t *testing.T) {
	in := ids.NewInterner()
	fUnlocked, fKeyFound := in.Flag("unlocked"), in.Flag("key_found")
	egg := in.Object("egg")

	catalog := prep.NewCatalog()
	catalog.Add(&prep.PrepAction{ID: "find_key", Effect: prep.Effect{ImmediateFlags: []ids.Id{fKeyFound}}})
	catalog.Add(&prep.PrepAction{ID: "unlock_case", Requires: []prep.Requirement{flagReq(fKeyFound)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fUnlocked}}})
	catalog.TreasureRequiresFlags[egg] = []ids.Id{fUnlocked}

	dg, err := prep.NewDependencyGraph(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := dg.PrepsForTreasure(egg)
	if len(got) != 2 || got[0] != "find_key" || got[1] != "unlock_case" {
		t.Fatalf("expected [find_key unlock_case], got %v", got)
	}
}

func TestPrepLevelsPartitionsByDependencyDepth(t *testing.T) {
	in := ids.NewInterner()
	fA, fB := in.Flag("a"), in.Flag("b")

	catalog := prep.NewCatalog()
	catalog.Add(&prep.PrepAction{ID: "root", Effect: prep.Effect{ImmediateFlags: []ids.Id{fA}}})
	catalog.Add(&prep.PrepAction{ID: "child", Requires: []prep.Requirement{flagReq(fA)}, Effect: prep.Effect{ImmediateFlags: []ids.Id{fB}}})

	dg, err := prep.NewDependencyGraph(catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	levels := dg.PrepLevels()
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d: %v", len(levels), levels)
	}
	if len(levels[0]) != 1 || levels[0][0] != "root" {
		t.Fatalf("expected level 0 == [root], got %v", levels[0])
	}
	if len(levels[1]) != 1 || levels[1][0] != "child" {
		t.Fatalf("expected level 1 == [child], got %v", levels[1])
	}
}
