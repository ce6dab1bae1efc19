package embedding

import (
	"fmt"
	"math"
	"sort"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/rng"
)

// ForceDirectedEmbedder positions rooms with a spring/repulsion
// simulation: connected rooms attract, all rooms repel, and the system
// settles into a stable configuration that is then quantized to a grid
// and corridor-routed.
type ForceDirectedEmbedder struct {
	config *Config
}

// NewForceDirectedEmbedder creates a force-directed embedder with the
// given config.
func NewForceDirectedEmbedder(config *Config) *ForceDirectedEmbedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &ForceDirectedEmbedder{config: config}
}

// Name returns the identifier for this embedder.
func (e *ForceDirectedEmbedder) Name() string {
	return "force_directed"
}

// Embed performs force-directed layout of the graph.
func (e *ForceDirectedEmbedder) Embed(g *navgraph.Graph, r *rng.RNG) (*Layout, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot embed nil graph")
	}
	if r == nil {
		return nil, fmt.Errorf("cannot embed with nil RNG")
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("cannot embed graph with no rooms")
	}

	positions := e.initializePositions(g, r)

	if err := e.simulateForces(g, positions, r); err != nil {
		return nil, fmt.Errorf("force simulation failed: %w", err)
	}

	e.quantizeToGrid(positions)

	if err := e.resolveOverlaps(g, positions, r); err != nil {
		return nil, fmt.Errorf("overlap resolution failed: %w", err)
	}

	layout := NewLayout()
	layout.Algorithm = e.Name()
	layout.Seed = r.Seed()

	roomIDs := sortedNodeIDs(g)
	for _, room := range roomIDs {
		pos := positions[room]
		pose := &Pose{
			X:      pos.x,
			Y:      pos.y,
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

// position tracks continuous 2D position and velocity during simulation.
type position struct {
	x, y   float64
	vx, vy float64
}

// sortedNodeIDs returns every room in g.Nodes in a stable order, so every
// phase that iterates rooms produces identical results given the same RNG
// draws — a dungeon's ids.Id has no natural ordering the way a string room
// ID does, so this sorts on a deterministic string key instead.
func sortedNodeIDs(g *navgraph.Graph) []ids.Id {
	out := make([]ids.Id, 0, len(g.Nodes))
	for id := range g.Nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return idKey(out[i]) < idKey(out[j]) })
	return out
}

func idKey(id ids.Id) string {
	return fmt.Sprintf("%d:%v", id.Kind(), id)
}

// initializePositions places rooms at random positions in a circle.
// CRITICAL: uses sorted room IDs to ensure deterministic initialization.
func (e *ForceDirectedEmbedder) initializePositions(g *navgraph.Graph, r *rng.RNG) map[ids.Id]*position {
	roomIDs := sortedNodeIDs(g)
	positions := make(map[ids.Id]*position, len(roomIDs))

	for _, room := range roomIDs {
		angle := r.Float64() * 2 * math.Pi
		radius := r.Float64() * e.config.InitialSpread

		positions[room] = &position{
			x: radius * math.Cos(angle),
			y: radius * math.Sin(angle),
		}
	}

	return positions
}

// simulateForces runs the force-directed simulation.
// CRITICAL: uses sorted room IDs throughout to ensure deterministic force
// calculations.
func (e *ForceDirectedEmbedder) simulateForces(g *navgraph.Graph, positions map[ids.Id]*position, r *rng.RNG) error {
	dt := 0.1

	roomIDs := make([]ids.Id, 0, len(positions))
	for id := range positions {
		roomIDs = append(roomIDs, id)
	}
	sort.Slice(roomIDs, func(i, j int) bool { return idKey(roomIDs[i]) < idKey(roomIDs[j]) })

	for iter := 0; iter < e.config.MaxIterations; iter++ {
		forces := make(map[ids.Id]struct{ fx, fy float64 }, len(positions))
		for _, room := range roomIDs {
			forces[room] = struct{ fx, fy float64 }{0, 0}
		}

		// Spring forces: every edge pulls its two endpoints together.
		for from, adj := range g.Adjacency {
			for _, edge := range adj {
				fromPos := positions[from]
				toPos := positions[edge.To]
				if fromPos == nil || toPos == nil {
					continue
				}

				dx := toPos.x - fromPos.x
				dy := toPos.y - fromPos.y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist > 0.001 {
					forceMag := e.config.SpringConstant * dist
					fx := forceMag * dx / dist
					fy := forceMag * dy / dist

					fromForce := forces[from]
					fromForce.fx += fx
					fromForce.fy += fy
					forces[from] = fromForce

					toForce := forces[edge.To]
					toForce.fx -= fx
					toForce.fy -= fy
					forces[edge.To] = toForce
				}
			}
		}

		// Repulsion forces: every pair of rooms pushes apart.
		for i := 0; i < len(roomIDs); i++ {
			for j := i + 1; j < len(roomIDs); j++ {
				id1 := roomIDs[i]
				id2 := roomIDs[j]
				pos1 := positions[id1]
				pos2 := positions[id2]

				dx := pos2.x - pos1.x
				dy := pos2.y - pos1.y
				distSq := dx*dx + dy*dy

				if distSq > 0.001 {
					dist := math.Sqrt(distSq)

					forceMag := e.config.RepulsionConstant / distSq
					fx := forceMag * dx / dist
					fy := forceMag * dy / dist

					force1 := forces[id1]
					force1.fx -= fx
					force1.fy -= fy
					forces[id1] = force1

					force2 := forces[id2]
					force2.fx += fx
					force2.fy += fy
					forces[id2] = force2
				}
			}
		}

		maxMovement := 0.0
		for _, room := range roomIDs {
			pos := positions[room]
			force := forces[room]

			pos.vx = pos.vx*e.config.DampingFactor + force.fx*dt
			pos.vy = pos.vy*e.config.DampingFactor + force.fy*dt

			pos.x += pos.vx * dt
			pos.y += pos.vy * dt

			movement := math.Sqrt(pos.vx*pos.vx + pos.vy*pos.vy)
			if movement > maxMovement {
				maxMovement = movement
			}
		}

		if maxMovement < e.config.StabilityThreshold {
			break
		}
	}

	return nil
}

// quantizeToGrid snaps positions to the grid.
func (e *ForceDirectedEmbedder) quantizeToGrid(positions map[ids.Id]*position) {
	if e.config.GridQuantization <= 0 {
		return
	}
	for _, pos := range positions {
		pos.x = math.Round(pos.x/e.config.GridQuantization) * e.config.GridQuantization
		pos.y = math.Round(pos.y/e.config.GridQuantization) * e.config.GridQuantization
		pos.vx = 0
		pos.vy = 0
	}
}

// resolveOverlaps uses an iterative algorithm to separate overlapping
// rooms.
func (e *ForceDirectedEmbedder) resolveOverlaps(g *navgraph.Graph, positions map[ids.Id]*position, r *rng.RNG) error {
	maxAttempts := 200

	for attempt := 0; attempt < maxAttempts; attempt++ {
		overlaps := e.findOverlaps(positions)
		if len(overlaps) == 0 {
			return nil
		}

		for _, o := range overlaps {
			e.separateRooms(positions, o.id1, o.id2)
		}

		e.quantizeToGrid(positions)

		if attempt%20 == 19 {
			roomIDs := make([]ids.Id, 0, len(positions))
			for id := range positions {
				roomIDs = append(roomIDs, id)
			}
			sort.Slice(roomIDs, func(i, j int) bool { return idKey(roomIDs[i]) < idKey(roomIDs[j]) })

			for _, id := range roomIDs {
				pos := positions[id]
				pos.x += (r.Float64() - 0.5) * e.config.GridQuantization
				pos.y += (r.Float64() - 0.5) * e.config.GridQuantization
			}
		}
	}

	overlaps := e.findOverlaps(positions)
	if len(overlaps) > 0 {
		return fmt.Errorf("failed to resolve %d overlaps after %d attempts", len(overlaps), maxAttempts)
	}

	return nil
}

type overlapPair struct {
	id1, id2 ids.Id
}

// findOverlaps detects all pairs of rooms with overlapping bounding
// boxes, every room being the fixed nodeSize token.
func (e *ForceDirectedEmbedder) findOverlaps(positions map[ids.Id]*position) []overlapPair {
	overlaps := []overlapPair{}

	roomIDs := make([]ids.Id, 0, len(positions))
	for id := range positions {
		roomIDs = append(roomIDs, id)
	}
	sort.Slice(roomIDs, func(i, j int) bool { return idKey(roomIDs[i]) < idKey(roomIDs[j]) })

	for i := 0; i < len(roomIDs); i++ {
		for j := i + 1; j < len(roomIDs); j++ {
			id1 := roomIDs[i]
			id2 := roomIDs[j]
			if e.roomsOverlap(positions, id1, id2) {
				overlaps = append(overlaps, overlapPair{id1, id2})
			}
		}
	}

	return overlaps
}

// roomsOverlap checks if two rooms have overlapping bounding boxes.
func (e *ForceDirectedEmbedder) roomsOverlap(positions map[ids.Id]*position, id1, id2 ids.Id) bool {
	pos1 := positions[id1]
	pos2 := positions[id2]

	minX1, minY1 := pos1.x, pos1.y
	maxX1, maxY1 := pos1.x+nodeSize, pos1.y+nodeSize

	minX2, minY2 := pos2.x, pos2.y
	maxX2, maxY2 := pos2.x+nodeSize, pos2.y+nodeSize

	spacing := e.config.MinRoomSpacing
	if maxX1+spacing <= minX2 || maxX2+spacing <= minX1 {
		return false
	}
	if maxY1+spacing <= minY2 || maxY2+spacing <= minY1 {
		return false
	}

	return true
}

// separateRooms pushes two overlapping rooms apart along the shortest
// axis.
func (e *ForceDirectedEmbedder) separateRooms(positions map[ids.Id]*position, id1, id2 ids.Id) {
	pos1 := positions[id1]
	pos2 := positions[id2]

	minX1, minY1 := pos1.x, pos1.y
	maxX1, maxY1 := pos1.x+nodeSize, pos1.y+nodeSize
	minX2, minY2 := pos2.x, pos2.y
	maxX2, maxY2 := pos2.x+nodeSize, pos2.y+nodeSize

	overlapX := math.Min(maxX1, maxX2) - math.Max(minX1, minX2)
	overlapY := math.Min(maxY1, maxY2) - math.Max(minY1, minY2)

	requiredSpacing := e.config.MinRoomSpacing

	if overlapX < overlapY {
		separation := (overlapX + requiredSpacing) / 2
		if pos1.x < pos2.x {
			pos1.x -= separation
			pos2.x += separation
		} else {
			pos1.x += separation
			pos2.x -= separation
		}
	} else {
		separation := (overlapY + requiredSpacing) / 2
		if pos1.y < pos2.y {
			pos1.y -= separation
			pos2.y += separation
		} else {
			pos1.y += separation
			pos2.y -= separation
		}
	}
}

// routeCorridors creates a path between every connected pair of rooms.
func (e *ForceDirectedEmbedder) routeCorridors(g *navgraph.Graph, layout *Layout) error {
	for from, adj := range g.Adjacency {
		for _, edge := range adj {
			key := EdgeKey{From: from, To: edge.To}
			fromPose := layout.Poses[from]
			toPose := layout.Poses[edge.To]
			if fromPose == nil || toPose == nil {
				continue
			}

			fromX, fromY := fromPose.Center()
			toX, toY := toPose.Center()

			path := e.manhattanPath(fromX, fromY, toX, toY)
			if path.Length() > e.config.CorridorMaxLength {
				return fmt.Errorf("corridor %v too long: %.1f > %.1f", key, path.Length(), e.config.CorridorMaxLength)
			}
			if path.BendCount() > e.config.CorridorMaxBends {
				return fmt.Errorf("corridor %v has too many bends: %d > %d", key, path.BendCount(), e.config.CorridorMaxBends)
			}

			if err := layout.AddPath(key, path); err != nil {
				return fmt.Errorf("failed to add path for %v: %w", key, err)
			}
		}
	}

	return nil
}

// manhattanPath creates a simple L-shaped path between two points.
func (e *ForceDirectedEmbedder) manhattanPath(x1, y1, x2, y2 float64) *Path {
	points := []Point{{X: x1, Y: y1}}

	dx := math.Abs(x2 - x1)
	dy := math.Abs(y2 - y1)

	if dx > dy {
		points = append(points, Point{X: x2, Y: y1})
	} else {
		points = append(points, Point{X: x1, Y: y2})
	}

	points = append(points, Point{X: x2, Y: y2})

	return &Path{Points: points}
}

func init() {
	Register("force_directed", func(config *Config) Embedder {
		return NewForceDirectedEmbedder(config)
	})
}
