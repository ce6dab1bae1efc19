// Package pathfind implements C3: single-pair BFS and all-pairs
// Floyd-Warshall over a navgraph.Graph, plus path-to-command translation.
// All edges weight 1 for BFS purposes; Floyd-Warshall uses each edge's
// unit cost (teleports also cost 1 — spec.md doesn't weight them
// differently, and the teacher's Connector.Cost concept has no analog
// here: every traversable edge is "one move").
package pathfind

import (
	"errors"
	"sort"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
)

// ErrUnreachable is returned by ShortestPath when no path exists.
var ErrUnreachable = errors.New("pathfind: no path exists")

// ErrNoPath is the planner-facing name spec.md §7 uses. It is the same
// error value as ErrUnreachable, so errors.Is matches under either name.
var ErrNoPath = ErrUnreachable

// Path is an ordered room sequence including both endpoints.
type Path struct {
	Rooms []ids.Id
	Edges []navgraph.Edge
}

// ShortestPath runs BFS from `from` to `to` over g. Ties (multiple
// shortest paths) are broken by the insertion order of g.Adjacency, which
// itself reflects the order engine.Snapshot.Exits and the teleport table
// were iterated/appended in navgraph.Builder.Build — deterministic for a
// deterministic Exits implementation.
func ShortestPath(g *navgraph.Graph, from, to ids.Id) (*Path, error) {
	if from == to {
		return &Path{Rooms: []ids.Id{from}}, nil
	}

	visited := map[ids.Id]bool{from: true}
	parent := map[ids.Id]parentEdge{}
	queue := []ids.Id{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range g.Adjacency[cur] {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			parent[e.To] = parentEdge{room: cur, edge: e}
			if e.To == to {
				return reconstruct(from, to, parent), nil
			}
			queue = append(queue, e.To)
		}
	}
	return nil, ErrUnreachable
}

type parentEdge struct {
	room ids.Id
	edge navgraph.Edge
}

func reconstruct(from, to ids.Id, parent map[ids.Id]parentEdge) *Path {
	var rooms []ids.Id
	var edges []navgraph.Edge
	node := to
	for node != from {
		p := parent[node]
		rooms = append([]ids.Id{node}, rooms...)
		edges = append([]navgraph.Edge{p.edge}, edges...)
		node = p.room
	}
	rooms = append([]ids.Id{from}, rooms...)
	return &Path{Rooms: rooms, Edges: edges}
}

// Const used to represent infinity in the distance matrix; large enough
// that it never arises from summing real path lengths in any graph this
// planner builds, and cheap to compare without a separate "reachable" bit.
const Infinity = 1 << 30

// AllPairs is the Floyd-Warshall result: distances and a next-hop matrix
// for path reconstruction (spec.md §4.3).
type AllPairs struct {
	rooms   []ids.Id
	index   map[ids.Id]int
	dist    [][]int
	next    [][]int // next[i][j] = index of the next room after i on a
	// shortest path to j, or -1 if none/unreachable.
}

// FloydWarshall computes all-pairs shortest distances over g, indexing
// rooms in the order of the caller-supplied rooms slice. A next-hop entry
// changes only on a strict improvement, so among equal-length paths the
// one found first in that order is kept; passing rooms sorted by name
// (SortedRoomOrder) breaks ties lexicographically, as spec.md §8 scenario
// S5 describes.
func FloydWarshall(g *navgraph.Graph, rooms []ids.Id) *AllPairs {
	n := len(rooms)
	index := make(map[ids.Id]int, n)
	for i, r := range rooms {
		index[r] = i
	}

	dist := make([][]int, n)
	next := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
		next[i] = make([]int, n)
		for j := range dist[i] {
			if i == j {
				dist[i][j] = 0
			} else {
				dist[i][j] = Infinity
			}
			next[i][j] = -1
		}
	}

	for from, edges := range g.Adjacency {
		fi, ok := index[from]
		if !ok {
			continue
		}
		for _, e := range edges {
			ti, ok := index[e.To]
			if !ok {
				continue
			}
			if 1 < dist[fi][ti] {
				dist[fi][ti] = 1
				next[fi][ti] = ti
			}
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if dist[i][k] == Infinity {
				continue
			}
			for j := 0; j < n; j++ {
				if dist[k][j] == Infinity {
					continue
				}
				if cand := dist[i][k] + dist[k][j]; cand < dist[i][j] {
					dist[i][j] = cand
					next[i][j] = next[i][k]
				}
			}
		}
	}

	return &AllPairs{rooms: rooms, index: index, dist: dist, next: next}
}

// Distance returns dist(from, to), or Infinity if unreachable.
func (ap *AllPairs) Distance(from, to ids.Id) int {
	fi, ok1 := ap.index[from]
	ti, ok2 := ap.index[to]
	if !ok1 || !ok2 {
		return Infinity
	}
	return ap.dist[fi][ti]
}

// Reachable reports whether to is reachable from from.
func (ap *AllPairs) Reachable(from, to ids.Id) bool {
	return ap.Distance(from, to) < Infinity
}

// Path reconstructs the room sequence from from to to using the next-hop
// matrix. Returns ErrUnreachable if there is none.
func (ap *AllPairs) Path(from, to ids.Id) ([]ids.Id, error) {
	fi, ok1 := ap.index[from]
	ti, ok2 := ap.index[to]
	if !ok1 || !ok2 || ap.dist[fi][ti] == Infinity {
		return nil, ErrUnreachable
	}
	path := []ids.Id{from}
	cur := fi
	for cur != ti {
		nxt := ap.next[cur][ti]
		if nxt == -1 {
			return nil, ErrUnreachable
		}
		path = append(path, ap.rooms[nxt])
		cur = nxt
	}
	return path, nil
}

// SortedRoomOrder returns rooms sorted by their interner-provided display
// name, giving FloydWarshall's tie-breaking a stable, lexicographic
// meaning (spec.md §8 scenario S5).
func SortedRoomOrder(rooms []ids.Id, name func(ids.Id) string) []ids.Id {
	out := append([]ids.Id(nil), rooms...)
	sort.Slice(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out
}

// ToCommands translates a Path into the Action sequence that realizes it:
// each edge becomes its teleport action or a Go{direction}, with any
// PreAction's action emitted first when its guard flag is not already set.
func ToCommands(s engine.Snapshot, globalEntity ids.Id, p *Path) ([]engine.Action, error) {
	if p == nil {
		return nil, ErrNoPath
	}
	var actions []engine.Action
	for _, e := range p.Edges {
		if e.PreAction != nil {
			need := e.PreAction.RequiresFlag
			entity := e.PreAction.RequiresEntity
			if need.Zero() || !s.Flag(entity, need) {
				actions = append(actions, e.PreAction.Action)
			}
		}
		switch e.Via {
		case navgraph.ViaTeleport:
			actions = append(actions, e.TeleportAction)
		default:
			actions = append(actions, engine.Go(e.Direction))
		}
	}
	return actions, nil
}
