package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/kobold/advplanner/pkg/embedding"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/rng"
	"github.com/kobold/advplanner/pkg/route"
)

// RouteMapOptions configures SVG export of a navigation graph plus the
// Route Optimizer's planned Schedule, mirroring the teacher's SVGOptions
// shape (canvas size, labels, legend, title) minus the dungeon-specific
// archetype/heatmap knobs that don't apply to a fixed game's rooms.
type RouteMapOptions struct {
	Width, Height int
	Margin        int
	NodeRadius    int
	EdgeWidth     int
	ShowLabels    bool
	ShowLegend    bool
	Title         string

	// Embedder names the pkg/embedding implementation used to lay the
	// graph out spatially: "force_directed" (default, organic) or
	// "orthogonal" (BFS-layered grid, requires RoomRoles.Start).
	Embedder        string
	EmbeddingConfig *embedding.Config
}

// DefaultRouteMapOptions returns sensible defaults, the same role the
// teacher's DefaultSVGOptions plays.
func DefaultRouteMapOptions() RouteMapOptions {
	return RouteMapOptions{
		Width:           1200,
		Height:          900,
		Margin:          70,
		NodeRadius:      18,
		EdgeWidth:       2,
		ShowLabels:      true,
		ShowLegend:      true,
		Title:           "Route Map",
		Embedder:        "force_directed",
		EmbeddingConfig: embedding.DefaultConfig(),
	}
}

// RoomRoles marks the rooms a route map colors specially: navgraph.Graph
// alone only knows topology, so the game-specific roles (where treasures
// and preps sit) are supplied by the caller instead of inferred.
type RoomRoles struct {
	Start    ids.Id
	Deposit  ids.Id
	Treasure map[ids.Id]bool
	Prep     map[ids.Id]bool
}

// ExportRouteMapSVG renders g with sched's planned visit order highlighted
// on top, following the teacher's ExportSVG structure: background, edges,
// nodes, labels, legend, header, in that draw order so later layers sit on
// top of earlier ones. Spatial placement is delegated to pkg/embedding,
// seeded with a fixed constant since rendering a route has no upstream
// generation seed to derive from.
func ExportRouteMapSVG(g *navgraph.Graph, sched *route.Schedule, roles RoomRoles, in *ids.Interner, opts RouteMapOptions) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("export: cannot render a nil graph")
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("export: cannot render a graph with no rooms")
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 18
	}
	if opts.EdgeWidth <= 0 {
		opts.EdgeWidth = 2
	}
	if opts.Margin <= 0 {
		opts.Margin = 70
	}
	if opts.Embedder == "" {
		opts.Embedder = "force_directed"
	}
	if opts.EmbeddingConfig == nil {
		opts.EmbeddingConfig = embedding.DefaultConfig()
	}
	if opts.Embedder == "orthogonal" {
		opts.EmbeddingConfig.StartRoom = roles.Start
	}

	embedder, err := embedding.Get(opts.Embedder, opts.EmbeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	layout, err := embedder.Embed(g, rng.NewRNG(1, "route_map_layout", nil))
	if err != nil {
		return nil, fmt.Errorf("export: layout graph: %w", err)
	}

	nameOf := func(id ids.Id) string { return in.Name(id) }
	screen := project(layoutCenters(layout), opts)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	drawRouteEdges(canvas, g, screen, opts)
	drawRoutePath(canvas, sched, screen, roles, opts)
	drawRouteNodes(canvas, g, screen, roles, opts)
	if opts.ShowLabels {
		drawRouteLabels(canvas, screen, nameOf, opts)
	}
	if opts.ShowLegend {
		drawRouteLegend(canvas, opts)
	}
	drawRouteHeader(canvas, g, sched, opts)

	canvas.End()
	return buf.Bytes(), nil
}

// SaveRouteMapSVGToFile writes ExportRouteMapSVG's output to path with
// 0644 permissions.
func SaveRouteMapSVGToFile(g *navgraph.Graph, sched *route.Schedule, roles RoomRoles, in *ids.Interner, path string, opts RouteMapOptions) error {
	data, err := ExportRouteMapSVG(g, sched, roles, in, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// point is a screen/world 2D coordinate, used only for the rescale step
// between a Layout's Pose centers and final canvas pixels.
type point struct {
	x, y float64
}

// layoutCenters reduces a Layout's Poses down to their center points,
// which is all the drawing code below needs — the Pose's Width/Height
// only matter to pkg/embedding's own overlap/spacing validation.
func layoutCenters(layout *embedding.Layout) map[ids.Id]point {
	out := make(map[ids.Id]point, len(layout.Poses))
	for id, pose := range layout.Poses {
		cx, cy := pose.Center()
		out[id] = point{x: cx, y: cy}
	}
	return out
}

// project rescales the embedder's free-floating coordinates into the
// canvas's drawable area (inside Margin, leaving header/footer room).
func project(positions map[ids.Id]point, opts RouteMapOptions) map[ids.Id]point {
	minX, minY, maxX, maxY := bounds(positions)
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)

	drawWidth := float64(opts.Width - 2*opts.Margin)
	drawHeight := float64(opts.Height - 2*opts.Margin - 80) // header + footer room

	out := make(map[ids.Id]point, len(positions))
	for id, p := range positions {
		out[id] = point{
			x: float64(opts.Margin) + (p.x-minX)/spanX*drawWidth,
			y: float64(opts.Margin+60) + (p.y-minY)/spanY*drawHeight,
		}
	}
	return out
}

func bounds(positions map[ids.Id]point) (minX, minY, maxX, maxY float64) {
	first := true
	for _, p := range positions {
		if first {
			minX, maxX, minY, maxY = p.x, p.x, p.y, p.y
			first = false
			continue
		}
		minX = math.Min(minX, p.x)
		maxX = math.Max(maxX, p.x)
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}
	return
}

func drawRouteEdges(canvas *svg.SVG, g *navgraph.Graph, screen map[ids.Id]point, opts RouteMapOptions) {
	for _, from := range sortedIDs(g.Nodes) {
		for _, e := range g.Adjacency[from] {
			fromPos, fromOK := screen[from]
			toPos, toOK := screen[e.To]
			if !fromOK || !toOK {
				continue
			}
			color, style := edgeStyle(e)
			canvas.Line(
				int(fromPos.x), int(fromPos.y), int(toPos.x), int(toPos.y),
				fmt.Sprintf("stroke:%s;stroke-width:%d;%s", color, opts.EdgeWidth, style),
			)
		}
	}
}

// edgeStyle colors an edge by how it's traversed: a plain direction is
// blue, a teleport is purple, any edge requiring a pre-action (open,
// unlock, move) is orange, and an edge gated by flags (Guards non-empty)
// is dashed regardless of color, since the guard is what the Route
// Optimizer's all-known budget sees through but a live walkthrough might
// not yet.
func edgeStyle(e navgraph.Edge) (string, string) {
	color := "#4299e1"
	if e.Via == navgraph.ViaTeleport {
		color = "#9f7aea"
	} else if e.PreAction != nil {
		color = "#ed8936"
	}
	style := "opacity:0.8"
	if len(e.Guards) > 0 {
		style = "opacity:0.6;stroke-dasharray:5,5"
	}
	if e.IntoDarkRoom {
		style += ";stroke-dasharray:2,4"
	}
	return color, style
}

// drawRoutePath highlights the Schedule's planned room visit order as a
// thick overlay line, so the TSP tour reads at a glance against the raw
// topology drawRouteEdges already laid down.
func drawRoutePath(canvas *svg.SVG, sched *route.Schedule, screen map[ids.Id]point, roles RoomRoles, opts RouteMapOptions) {
	if sched == nil {
		return
	}
	rooms := scheduleRoomOrder(sched, roles)
	for i := 0; i+1 < len(rooms); i++ {
		fromPos, fromOK := screen[rooms[i]]
		toPos, toOK := screen[rooms[i+1]]
		if !fromOK || !toOK {
			continue
		}
		canvas.Line(
			int(fromPos.x), int(fromPos.y), int(toPos.x), int(toPos.y),
			fmt.Sprintf("stroke:#ffd700;stroke-width:%d;opacity:0.55", opts.EdgeWidth+2),
		)
	}
}

// scheduleRoomOrder extracts the room sequence a Schedule actually visits,
// starting from Start, following each Move/AtomicSequence entry in order.
func scheduleRoomOrder(sched *route.Schedule, roles RoomRoles) []ids.Id {
	rooms := []ids.Id{roles.Start}
	for _, e := range sched.Entries {
		switch e.Kind {
		case route.EntryMove:
			rooms = append(rooms, e.Room)
		case route.EntryAtomicSequence:
			rooms = append(rooms, e.Location)
		}
	}
	return rooms
}

func drawRouteNodes(canvas *svg.SVG, g *navgraph.Graph, screen map[ids.Id]point, roles RoomRoles, opts RouteMapOptions) {
	for _, id := range sortedIDs(g.Nodes) {
		pos, ok := screen[id]
		if !ok {
			continue
		}
		color := roomColor(id, roles)
		canvas.Circle(int(pos.x), int(pos.y), opts.NodeRadius,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:2;opacity:0.92", color))
	}
}

func roomColor(id ids.Id, roles RoomRoles) string {
	switch {
	case id == roles.Start:
		return "#48bb78"
	case id == roles.Deposit:
		return "#ffd700"
	case roles.Treasure[id]:
		return "#f56565"
	case roles.Prep[id]:
		return "#9f7aea"
	default:
		return "#4a5568"
	}
}

func drawRouteLabels(canvas *svg.SVG, screen map[ids.Id]point, nameOf func(ids.Id) string, opts RouteMapOptions) {
	for _, id := range sortedIDs(idSet(screen)) {
		pos := screen[id]
		canvas.Text(int(pos.x), int(pos.y)+opts.NodeRadius+15, nameOf(id),
			"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0;font-weight:500")
	}
}

func drawRouteLegend(canvas *svg.SVG, opts RouteMapOptions) {
	legendX := opts.Width - opts.Margin - 170
	legendY := opts.Margin + 10

	canvas.Rect(legendX-10, legendY-15, 180, 170,
		"fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Rooms", "font-size:14px;font-weight:bold;fill:#e2e8f0")
	legendY += 24

	entries := []struct{ name, color string }{
		{"Start", "#48bb78"},
		{"Deposit", "#ffd700"},
		{"Treasure", "#f56565"},
		{"Prep", "#9f7aea"},
		{"Other", "#4a5568"},
	}
	for _, e := range entries {
		canvas.Circle(legendX+8, legendY, 8, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", e.color))
		canvas.Text(legendX+25, legendY+4, e.name, "font-size:11px;fill:#cbd5e0")
		legendY += 20
	}

	legendY += 10
	canvas.Line(legendX, legendY, legendX+30, legendY, "stroke:#ffd700;stroke-width:4;opacity:0.55")
	canvas.Text(legendX+35, legendY+4, "planned tour", "font-size:11px;fill:#cbd5e0")
}

func drawRouteHeader(canvas *svg.SVG, g *navgraph.Graph, sched *route.Schedule, opts RouteMapOptions) {
	headerY := 25
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 30
	}

	edgeCount := 0
	for _, adj := range g.Adjacency {
		edgeCount += len(adj)
	}
	stats := fmt.Sprintf("Rooms: %d | Edges: %d", len(g.Nodes), edgeCount)
	if sched != nil {
		stats += fmt.Sprintf(" | Schedule entries: %d | Unreachable: %d", len(sched.Entries), len(sched.Unreachable))
	}
	canvas.Text(opts.Width/2, headerY, stats,
		"text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")
}

func sortedIDs(nodes map[ids.Id]struct{}) []ids.Id {
	out := make([]ids.Id, 0, len(nodes))
	for id := range nodes {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && idLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func idSet(positions map[ids.Id]point) map[ids.Id]struct{} {
	out := make(map[ids.Id]struct{}, len(positions))
	for id := range positions {
		out[id] = struct{}{}
	}
	return out
}

// idLess orders Ids by Kind then by their interned display form, giving
// drawRouteNodes/drawRouteEdges/drawRouteLabels a stable, map-order-free
// iteration sequence without requiring a nameOf closure at every call site.
func idLess(a, b ids.Id) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}
