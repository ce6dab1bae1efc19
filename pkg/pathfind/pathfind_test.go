package pathfind_test

import (
	"testing"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/pathfind"
)

func line(in *ids.Interner, names ...string) *navgraph.Graph {
	g := &navgraph.Graph{Nodes: map[ids.Id]struct{}{}, Adjacency: map[ids.Id][]navgraph.Edge{}}
	var rooms []ids.Id
	for _, n := range names {
		r := in.Room(n)
		rooms = append(rooms, r)
		g.Nodes[r] = struct{}{}
	}
	dir := in.Direction("north")
	for i := 0; i < len(rooms)-1; i++ {
		g.Adjacency[rooms[i]] = append(g.Adjacency[rooms[i]], navgraph.Edge{
			From: rooms[i], To: rooms[i+1], Via: navgraph.ViaDirection, Direction: dir,
		})
	}
	return g
}

func TestShortestPathLinear(t *testing.T) {
	in := ids.NewInterner()
	g := line(in, "a", "b", "c", "d")

	p, err := pathfind.ShortestPath(g, in.Room("a"), in.Room("d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Rooms) != 4 {
		t.Fatalf("expected 4 rooms in path, got %d: %v", len(p.Rooms), p.Rooms)
	}
}

func TestShortestPathSameRoom(t *testing.T) {
	in := ids.NewInterner()
	g := line(in, "a", "b")
	p, err := pathfind.ShortestPath(g, in.Room("a"), in.Room("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Rooms) != 1 {
		t.Fatalf("expected trivial single-room path, got %v", p.Rooms)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	in := ids.NewInterner()
	g := line(in, "a", "b")
	island := in.Room("island")
	g.Nodes[island] = struct{}{}

	_, err := pathfind.ShortestPath(g, in.Room("a"), island)
	if err == nil {
		t.Fatalf("expected ErrUnreachable, got nil")
	}
}

// TestFloydWarshallTieBreak realizes spec.md §8 scenario S5: two
// equal-length paths from A to C via B1 and B2, tie broken
// lexicographically.
func TestFloydWarshallTieBreak(t *testing.T) {
	in := ids.NewInterner()
	a, b1, b2, c := in.Room("A"), in.Room("B1"), in.Room("B2"), in.Room("C")
	dir := in.Direction("north")

	g := &navgraph.Graph{
		Nodes: map[ids.Id]struct{}{a: {}, b1: {}, b2: {}, c: {}},
		Adjacency: map[ids.Id][]navgraph.Edge{
			a: {
				{From: a, To: b1, Via: navgraph.ViaDirection, Direction: dir},
				{From: a, To: b2, Via: navgraph.ViaDirection, Direction: dir},
			},
			b1: {{From: b1, To: c, Via: navgraph.ViaDirection, Direction: dir}},
			b2: {{From: b2, To: c, Via: navgraph.ViaDirection, Direction: dir}},
		},
	}

	rooms := pathfind.SortedRoomOrder([]ids.Id{a, b1, b2, c}, in.Name)
	ap := pathfind.FloydWarshall(g, rooms)

	if d := ap.Distance(a, c); d != 2 {
		t.Fatalf("expected distance 2, got %d", d)
	}

	path, err := ap.Path(a, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 3 || path[1] != b1 {
		t.Fatalf("expected path through B1 (lexicographically smaller), got %v", namesOf(in, path))
	}
}

func namesOf(in *ids.Interner, rooms []ids.Id) []string {
	out := make([]string, len(rooms))
	for i, r := range rooms {
		out[i] = in.Name(r)
	}
	return out
}

// TestFloydWarshallTriangleInequality realizes spec.md §8 invariant 5.
func TestFloydWarshallTriangleInequality(t *testing.T) {
	in := ids.NewInterner()
	names := []string{"a", "b", "c", "d", "e"}
	g := line(in, names...)
	// Add a shortcut and a branch to make the triangle inequality
	// non-trivial.
	dir := in.Direction("north")
	g.Adjacency[in.Room("a")] = append(g.Adjacency[in.Room("a")], navgraph.Edge{
		From: in.Room("a"), To: in.Room("d"), Via: navgraph.ViaDirection, Direction: dir,
	})

	var rooms []ids.Id
	for _, n := range names {
		rooms = append(rooms, in.Room(n))
	}
	ap := pathfind.FloydWarshall(g, rooms)

	for _, u := range rooms {
		for _, v := range rooms {
			for _, w := range rooms {
				duv := ap.Distance(u, v)
				duw := ap.Distance(u, w)
				dwv := ap.Distance(w, v)
				if duw == pathfind.Infinity || dwv == pathfind.Infinity {
					continue
				}
				if duv > duw+dwv {
					t.Fatalf("triangle inequality violated: dist(%s,%s)=%d > dist(%s,%s)+dist(%s,%s)=%d",
						in.Name(u), in.Name(v), duv, in.Name(u), in.Name(w), in.Name(w), in.Name(v), duw+dwv)
				}
			}
		}
	}
}
