package embedding

import (
	"fmt"
	"math"
	"sort"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/rng"
)

// OrthogonalEmbedder lays rooms out on a grid via BFS layering from a
// fixed start room: a simpler, more predictable alternative to
// ForceDirectedEmbedder that produces a classic roguelike-style
// left-to-right progression instead of an organic spring layout.
//
// Algorithm:
//  1. BFS from config.StartRoom to assign layer indices
//  2. Assign rooms to grid cells based on layer and ordering
//  3. Route corridors using Manhattan paths (only horizontal/vertical)
//
// This embedder guarantees no room overlaps (grid cells are exclusive)
// and short, predictable corridor paths, at the cost of a less organic
// appearance than ForceDirectedEmbedder.
type OrthogonalEmbedder struct {
	config *Config
}

// NewOrthogonalEmbedder creates an orthogonal grid-based embedder.
func NewOrthogonalEmbedder(config *Config) *OrthogonalEmbedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &OrthogonalEmbedder{config: config}
}

// Name returns the identifier for this embedder.
func (e *OrthogonalEmbedder) Name() string {
	return "orthogonal"
}

// Embed performs orthogonal grid layout of the graph.
func (e *OrthogonalEmbedder) Embed(g *navgraph.Graph, r *rng.RNG) (*Layout, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot embed nil graph")
	}
	if r == nil {
		return nil, fmt.Errorf("cannot embed with nil RNG")
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("cannot embed graph with no rooms")
	}

	start := e.config.StartRoom
	if start.Zero() {
		return nil, fmt.Errorf("orthogonal embedder requires config.StartRoom")
	}
	if _, ok := g.Nodes[start]; !ok {
		return nil, fmt.Errorf("start room %v not present in graph", start)
	}

	layers := e.assignLayers(g, start)
	gridPositions := e.assignGridPositions(layers)

	layout := NewLayout()
	layout.Algorithm = e.Name()
	layout.Seed = r.Seed()

	spacing := int(e.config.MinRoomSpacing)
	if spacing < 1 {
		spacing = 1
	}

	for room, gridPos := range gridPositions {
		worldX := float64(gridPos.col * (nodeSize + spacing))
		worldY := float64(gridPos.row * (nodeSize + spacing))

		pose := &Pose{
			X:      worldX,
			Y:      worldY,
			Width:  nodeSize,
			Height: nodeSize,
		}

		if err := layout.AddPose(room, pose); err != nil {
			return nil, fmt.Errorf("failed to add pose: %w", err)
		}
	}

	if err := e.routeCorridors(g, layout); err != nil {
		return nil, fmt.Errorf("corridor routing failed: %w", err)
	}

	layout.ComputeBounds()

	if err := ValidateEmbedding(layout, g, e.config); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return layout, nil
}

// gridPosition is a room's cell in the layer grid.
type gridPosition struct {
	row, col int
}

// assignLayers performs BFS to assign each room to a layer. Layer 0 is
// the start room, layer 1 is rooms adjacent to it, and so on.
func (e *OrthogonalEmbedder) assignLayers(g *navgraph.Graph, start ids.Id) map[ids.Id]int {
	layers := make(map[ids.Id]int)
	queue := []ids.Id{start}
	layers[start] = 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		currentLayer := layers[current]

		for _, edge := range g.Adjacency[current] {
			if _, visited := layers[edge.To]; !visited {
				layers[edge.To] = currentLayer + 1
				queue = append(queue, edge.To)
			}
		}
	}

	// Rooms unreachable from start (isolated by the planner's current
	// knowledge) still need a layer so they get drawn; park them one
	// past the deepest reached layer.
	maxLayer := 0
	for _, layer := range layers {
		if layer > maxLayer {
			maxLayer = layer
		}
	}
	for room := range g.Nodes {
		if _, ok := layers[room]; !ok {
			layers[room] = maxLayer + 1
		}
	}

	return layers
}

// assignGridPositions places rooms in a 2D grid based on their layers:
// layer determines column, position within the layer determines row.
func (e *OrthogonalEmbedder) assignGridPositions(layers map[ids.Id]int) map[ids.Id]gridPosition {
	maxLayer := 0
	layerGroups := make(map[int][]ids.Id)
	for room, layer := range layers {
		layerGroups[layer] = append(layerGroups[layer], room)
		if layer > maxLayer {
			maxLayer = layer
		}
	}

	positions := make(map[ids.Id]gridPosition)

	for layer := 0; layer <= maxLayer; layer++ {
		rooms := layerGroups[layer]
		if len(rooms) == 0 {
			continue
		}
		sort.Slice(rooms, func(i, j int) bool { return idKey(rooms[i]) < idKey(rooms[j]) })

		for i, room := range rooms {
			positions[room] = gridPosition{row: i, col: layer}
		}
	}

	return positions
}

// routeCorridors creates Manhattan-style corridors between connected
// rooms.
func (e *OrthogonalEmbedder) routeCorridors(g *navgraph.Graph, layout *Layout) error {
	for from, adj := range g.Adjacency {
		for _, edge := range adj {
			key := EdgeKey{From: from, To: edge.To}
			fromPose := layout.Poses[from]
			toPose := layout.Poses[edge.To]

			if fromPose == nil || toPose == nil {
				return fmt.Errorf("missing pose for edge %v", key)
			}

			fromX, fromY := fromPose.Center()
			toX, toY := toPose.Center()

			path := e.createManhattanPath(fromX, fromY, toX, toY)

			if path.Length() > e.config.CorridorMaxLength {
				altPath := e.createAlternateManhattanPath(fromX, fromY, toX, toY)
				if altPath.Length() <= e.config.CorridorMaxLength {
					path = altPath
				} else {
					return fmt.Errorf("corridor %v exceeds max length: %.1f > %.1f",
						key, path.Length(), e.config.CorridorMaxLength)
				}
			}

			if err := layout.AddPath(key, path); err != nil {
				return fmt.Errorf("failed to add path: %w", err)
			}
		}
	}

	return nil
}

// createManhattanPath creates an L-shaped path: horizontal first, then
// vertical.
func (e *OrthogonalEmbedder) createManhattanPath(x1, y1, x2, y2 float64) *Path {
	points := []Point{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}}

	if math.Abs(x1-x2) < 0.1 || math.Abs(y1-y2) < 0.1 {
		points = []Point{{X: x1, Y: y1}, {X: x2, Y: y2}}
	}

	return &Path{Points: points}
}

// createAlternateManhattanPath creates an L-shaped path: vertical first,
// then horizontal.
func (e *OrthogonalEmbedder) createAlternateManhattanPath(x1, y1, x2, y2 float64) *Path {
	points := []Point{{X: x1, Y: y1}, {X: x1, Y: y2}, {X: x2, Y: y2}}

	if math.Abs(x1-x2) < 0.1 || math.Abs(y1-y2) < 0.1 {
		points = []Point{{X: x1, Y: y1}, {X: x2, Y: y2}}
	}

	return &Path{Points: points}
}

func init() {
	Register("orthogonal", func(config *Config) Embedder {
		return NewOrthogonalEmbedder(config)
	})
}
