package embedding

import (
	"testing"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/rng"
)

func TestPoseValidation(t *testing.T) {
	tests := []struct {
		name    string
		pose    Pose
		wantErr bool
	}{
		{name: "valid pose", pose: Pose{X: 10, Y: 20, Width: 5, Height: 8}, wantErr: false},
		{name: "zero width", pose: Pose{X: 0, Y: 0, Width: 0, Height: 3}, wantErr: true},
		{name: "negative height", pose: Pose{X: 0, Y: 0, Width: 3, Height: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pose.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPoseOverlaps(t *testing.T) {
	a := &Pose{X: 0, Y: 0, Width: 10, Height: 10}
	b := &Pose{X: 5, Y: 5, Width: 10, Height: 10}
	c := &Pose{X: 20, Y: 20, Width: 10, Height: 10}

	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected a and c not to overlap")
	}
}

func TestPathLengthAndBends(t *testing.T) {
	straight := &Path{Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	if straight.Length() != 10 {
		t.Errorf("expected length 10, got %f", straight.Length())
	}
	if straight.BendCount() != 0 {
		t.Errorf("expected 0 bends, got %d", straight.BendCount())
	}

	bent := &Path{Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	if bent.Length() != 20 {
		t.Errorf("expected length 20, got %f", bent.Length())
	}
	if bent.BendCount() != 1 {
		t.Errorf("expected 1 bend, got %d", bent.BendCount())
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	bad := DefaultConfig()
	bad.MaxIterations = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for MaxIterations = 0")
	}

	bad = DefaultConfig()
	bad.DampingFactor = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for DampingFactor > 1")
	}
}

func TestRegistryListIncludesBuiltins(t *testing.T) {
	names := List()
	want := map[string]bool{"force_directed": false, "orthogonal": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q to be registered", name)
		}
	}
}

func TestGetUnknownEmbedder(t *testing.T) {
	if _, err := Get("nonexistent", nil); err == nil {
		t.Error("expected error for unregistered embedder")
	}
}

func buildTestGraph(in *ids.Interner) *navgraph.Graph {
	start := in.Room("start")
	roomB := in.Room("room_b")
	roomC := in.Room("room_c")
	roomD := in.Room("room_d")

	g := &navgraph.Graph{
		Nodes: map[ids.Id]struct{}{start: {}, roomB: {}, roomC: {}, roomD: {}},
		Adjacency: map[ids.Id][]navgraph.Edge{
			start: {{From: start, To: roomB}},
			roomB: {{From: roomB, To: start}, {From: roomB, To: roomC}},
			roomC: {{From: roomC, To: roomB}, {From: roomC, To: roomD}},
			roomD: {{From: roomD, To: roomC}},
		},
	}
	return g
}

func TestForceDirectedEmbedDeterministic(t *testing.T) {
	in := ids.NewInterner()
	g := buildTestGraph(in)

	embedder := NewForceDirectedEmbedder(DefaultConfig())

	layout1, err := embedder.Embed(g, rng.NewRNG(42, "test", nil))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	layout2, err := embedder.Embed(g, rng.NewRNG(42, "test", nil))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for room, pose1 := range layout1.Poses {
		pose2, ok := layout2.Poses[room]
		if !ok {
			t.Fatalf("room %v missing from second layout", room)
		}
		if pose1.X != pose2.X || pose1.Y != pose2.Y {
			t.Fatalf("room %v: positions diverge between identically-seeded runs: (%f,%f) vs (%f,%f)",
				room, pose1.X, pose1.Y, pose2.X, pose2.Y)
		}
	}
}

func TestForceDirectedEmbedValidates(t *testing.T) {
	in := ids.NewInterner()
	g := buildTestGraph(in)

	embedder := NewForceDirectedEmbedder(DefaultConfig())
	layout, err := embedder.Embed(g, rng.NewRNG(1, "test", nil))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if err := layout.Validate(g); err != nil {
		t.Fatalf("layout should be internally consistent: %v", err)
	}
	if err := ValidateEmbedding(layout, g, DefaultConfig()); err != nil {
		t.Fatalf("layout should satisfy spacing/corridor constraints: %v", err)
	}
}

func TestForceDirectedEmbedRejectsEmptyGraph(t *testing.T) {
	embedder := NewForceDirectedEmbedder(DefaultConfig())
	empty := &navgraph.Graph{Nodes: map[ids.Id]struct{}{}, Adjacency: map[ids.Id][]navgraph.Edge{}}
	if _, err := embedder.Embed(empty, rng.NewRNG(1, "test", nil)); err == nil {
		t.Error("expected error for empty graph")
	}
}

func TestOrthogonalEmbedRequiresStartRoom(t *testing.T) {
	in := ids.NewInterner()
	g := buildTestGraph(in)

	embedder := NewOrthogonalEmbedder(DefaultConfig())
	if _, err := embedder.Embed(g, rng.NewRNG(1, "test", nil)); err == nil {
		t.Error("expected error when config.StartRoom is unset")
	}
}

func TestOrthogonalEmbedLayersFromStart(t *testing.T) {
	in := ids.NewInterner()
	g := buildTestGraph(in)

	cfg := DefaultConfig()
	cfg.StartRoom = in.Room("start")

	embedder := NewOrthogonalEmbedder(cfg)
	layout, err := embedder.Embed(g, rng.NewRNG(1, "test", nil))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	start := in.Room("start")
	roomD := in.Room("room_d")
	if layout.Poses[start].X >= layout.Poses[roomD].X {
		t.Errorf("expected start room's column before room_d's (BFS layer order): start.X=%f room_d.X=%f",
			layout.Poses[start].X, layout.Poses[roomD].X)
	}

	if err := ValidateEmbedding(layout, g, cfg); err != nil {
		t.Fatalf("layout should satisfy spacing/corridor constraints: %v", err)
	}
}

func TestOrthogonalEmbedCoversIsolatedRooms(t *testing.T) {
	in := ids.NewInterner()
	start := in.Room("start")
	isolated := in.Room("isolated")

	g := &navgraph.Graph{
		Nodes:     map[ids.Id]struct{}{start: {}, isolated: {}},
		Adjacency: map[ids.Id][]navgraph.Edge{},
	}

	cfg := DefaultConfig()
	cfg.StartRoom = start

	embedder := NewOrthogonalEmbedder(cfg)
	layout, err := embedder.Embed(g, rng.NewRNG(1, "test", nil))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, ok := layout.Poses[isolated]; !ok {
		t.Error("expected a pose for a room unreachable from start")
	}
}
