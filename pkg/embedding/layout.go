package embedding

import (
	"fmt"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
)

// Pose is a room's placement in 2D space. Every room gets the same fixed
// Width/Height (nodeSize) since a route map draws every room as an
// identical token rather than a dungeon's per-archetype footprint, so
// unlike the teacher's Pose there is no Rotation or FootprintID.
type Pose struct {
	X, Y          float64
	Width, Height int
}

// Bounds returns the axis-aligned bounding box for this pose.
func (p *Pose) Bounds() (minX, minY, maxX, maxY float64) {
	return p.X, p.Y, p.X + float64(p.Width), p.Y + float64(p.Height)
}

// Center returns the center point of the room's bounding box.
func (p *Pose) Center() (float64, float64) {
	return p.X + float64(p.Width)/2, p.Y + float64(p.Height)/2
}

// Overlaps checks if this pose's bounding box intersects with another.
func (p *Pose) Overlaps(other *Pose) bool {
	minX1, minY1, maxX1, maxY1 := p.Bounds()
	minX2, minY2, maxX2, maxY2 := other.Bounds()
	if maxX1 <= minX2 || maxX2 <= minX1 {
		return false
	}
	if maxY1 <= minY2 || maxY2 <= minY1 {
		return false
	}
	return true
}

// Validate checks if the pose has valid values.
func (p *Pose) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("pose width must be > 0, got %d", p.Width)
	}
	if p.Height <= 0 {
		return fmt.Errorf("pose height must be > 0, got %d", p.Height)
	}
	return nil
}

// String returns a human-readable representation of the Pose.
func (p *Pose) String() string {
	return fmt.Sprintf("Pose[(%0.1f, %0.1f) %dx%d]", p.X, p.Y, p.Width, p.Height)
}

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Path is a polyline between two rooms' centers. Both embedders route a
// corridor as an L-shaped Manhattan path (horizontal and vertical legs
// with at most one bend).
type Path struct {
	Points []Point
}

// Length returns the Manhattan distance of the path.
func (p *Path) Length() float64 {
	if len(p.Points) < 2 {
		return 0
	}
	length := 0.0
	for i := 0; i < len(p.Points)-1; i++ {
		dx := p.Points[i+1].X - p.Points[i].X
		dy := p.Points[i+1].Y - p.Points[i].Y
		length += abs(dx) + abs(dy)
	}
	return length
}

// BendCount returns the number of direction changes in the path.
func (p *Path) BendCount() int {
	if len(p.Points) < 3 {
		return 0
	}
	bends := 0
	for i := 1; i < len(p.Points)-1; i++ {
		dx1 := p.Points[i].X - p.Points[i-1].X
		dy1 := p.Points[i].Y - p.Points[i-1].Y
		dx2 := p.Points[i+1].X - p.Points[i].X
		dy2 := p.Points[i+1].Y - p.Points[i].Y
		if (dx1 == 0 && dx2 != 0) || (dx1 != 0 && dx2 == 0) ||
			(dy1 == 0 && dy2 != 0) || (dy1 != 0 && dy2 == 0) {
			bends++
		}
	}
	return bends
}

// Validate checks if the path is valid.
func (p *Path) Validate() error {
	if len(p.Points) < 2 {
		return fmt.Errorf("path must have at least 2 points, got %d", len(p.Points))
	}
	return nil
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r *Rect) Width() float64  { return r.MaxX - r.MinX }
func (r *Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains checks if a point is inside the rectangle.
func (r *Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// EdgeKey identifies one directed edge's corridor path in a Layout — the
// counterpart of the teacher's string connector ID, since navgraph has no
// separate connector entity of its own.
type EdgeKey struct {
	From, To ids.Id
}

// Layout is the complete spatial embedding of a navgraph.Graph: a Pose
// per room and a corridor Path per edge.
type Layout struct {
	Poses         map[ids.Id]*Pose
	CorridorPaths map[EdgeKey]*Path
	Bounds        Rect
	Seed          uint64
	Algorithm     string
}

// NewLayout creates an empty layout with initialized maps.
func NewLayout() *Layout {
	return &Layout{
		Poses:         make(map[ids.Id]*Pose),
		CorridorPaths: make(map[EdgeKey]*Path),
	}
}

// AddPose adds a room pose to the layout.
func (l *Layout) AddPose(room ids.Id, pose *Pose) error {
	if pose == nil {
		return fmt.Errorf("cannot add nil pose for room %v", room)
	}
	if err := pose.Validate(); err != nil {
		return fmt.Errorf("invalid pose for room %v: %w", room, err)
	}
	l.Poses[room] = pose
	return nil
}

// AddPath adds a corridor path to the layout.
func (l *Layout) AddPath(key EdgeKey, path *Path) error {
	if path == nil {
		return fmt.Errorf("cannot add nil path for edge %v", key)
	}
	if err := path.Validate(); err != nil {
		return fmt.Errorf("invalid path for edge %v: %w", key, err)
	}
	l.CorridorPaths[key] = path
	return nil
}

// ComputeBounds calculates the bounding box that contains all rooms and
// corridors.
func (l *Layout) ComputeBounds() {
	if len(l.Poses) == 0 {
		l.Bounds = Rect{0, 0, 0, 0}
		return
	}

	var initialized bool
	for _, pose := range l.Poses {
		minX, minY, maxX, maxY := pose.Bounds()
		if !initialized {
			l.Bounds = Rect{minX, minY, maxX, maxY}
			initialized = true
		} else {
			l.Bounds.MinX = fmin(l.Bounds.MinX, minX)
			l.Bounds.MinY = fmin(l.Bounds.MinY, minY)
			l.Bounds.MaxX = fmax(l.Bounds.MaxX, maxX)
			l.Bounds.MaxY = fmax(l.Bounds.MaxY, maxY)
		}
	}

	for _, path := range l.CorridorPaths {
		for _, pt := range path.Points {
			l.Bounds.MinX = fmin(l.Bounds.MinX, pt.X)
			l.Bounds.MinY = fmin(l.Bounds.MinY, pt.Y)
			l.Bounds.MaxX = fmax(l.Bounds.MaxX, pt.X)
			l.Bounds.MaxY = fmax(l.Bounds.MaxY, pt.Y)
		}
	}
}

// Validate checks that the layout is valid for the given graph: every
// room has a pose, every edge has a corridor path, and no two rooms
// overlap.
func (l *Layout) Validate(g *navgraph.Graph) error {
	for room := range g.Nodes {
		if _, exists := l.Poses[room]; !exists {
			return fmt.Errorf("missing pose for room %v", room)
		}
	}

	for from, adj := range g.Adjacency {
		for _, e := range adj {
			key := EdgeKey{From: from, To: e.To}
			if _, exists := l.CorridorPaths[key]; !exists {
				return fmt.Errorf("missing path for edge %v", key)
			}
		}
	}

	rooms := make([]*Pose, 0, len(l.Poses))
	roomIDs := make([]ids.Id, 0, len(l.Poses))
	for id, pose := range l.Poses {
		rooms = append(rooms, pose)
		roomIDs = append(roomIDs, id)
	}

	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Overlaps(rooms[j]) {
				return fmt.Errorf("rooms %v and %v have overlapping bounding boxes",
					roomIDs[i], roomIDs[j])
			}
		}
	}

	return nil
}

// Helper functions

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func fmin(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
