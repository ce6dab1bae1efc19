package embedding

import (
	"fmt"
	"math"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/rng"
)

// Embedder transforms a navgraph.Graph into a spatial Layout: 2D
// coordinates for every room and a corridor path for every edge, for
// pkg/export's SVG route map to draw.
//
// Available implementations:
//   - "force_directed" (ForceDirectedEmbedder): spring/repulsion
//     simulation, organic layouts.
//   - "orthogonal" (OrthogonalEmbedder): BFS-layered grid placement,
//     predictable left-to-right progression.
//
// Embedders must be deterministic: given the same graph and RNG state,
// they must produce identical layouts.
type Embedder interface {
	Embed(g *navgraph.Graph, r *rng.RNG) (*Layout, error)
	Name() string
}

// Config holds spatial embedding parameters.
type Config struct {
	MaxIterations int

	// CorridorMaxLength/CorridorMaxBends bound how convoluted a drawn
	// corridor path may get; both embedders route corridors as L-shaped
	// Manhattan paths, and their length and bend count are checked
	// against these limits.
	CorridorMaxLength float64
	CorridorMaxBends  int

	MinRoomSpacing   float64
	GridQuantization float64

	// StartRoom seeds OrthogonalEmbedder's BFS layering; ignored by
	// ForceDirectedEmbedder.
	StartRoom ids.Id

	SpringConstant     float64
	RepulsionConstant  float64
	DampingFactor      float64
	StabilityThreshold float64
	InitialSpread      float64
}

// DefaultConfig returns a config tuned for a single game's room count
// (tens, not hundreds).
func DefaultConfig() *Config {
	return &Config{
		MaxIterations:      300,
		CorridorMaxLength:  500.0,
		CorridorMaxBends:   1,
		MinRoomSpacing:     24.0,
		GridQuantization:   1.0,
		SpringConstant:     0.08,
		RepulsionConstant:  800.0,
		DampingFactor:      0.85,
		StabilityThreshold: 0.01,
		InitialSpread:      200.0,
	}
}

// Validate checks if the config has valid values.
func (c *Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("MaxIterations must be > 0, got %d", c.MaxIterations)
	}
	if c.CorridorMaxLength <= 0 {
		return fmt.Errorf("CorridorMaxLength must be > 0, got %f", c.CorridorMaxLength)
	}
	if c.CorridorMaxBends < 0 {
		return fmt.Errorf("CorridorMaxBends must be >= 0, got %d", c.CorridorMaxBends)
	}
	if c.MinRoomSpacing < 0 {
		return fmt.Errorf("MinRoomSpacing must be >= 0, got %f", c.MinRoomSpacing)
	}
	if c.GridQuantization < 0 {
		return fmt.Errorf("GridQuantization must be >= 0, got %f", c.GridQuantization)
	}
	if c.DampingFactor < 0 || c.DampingFactor > 1 {
		return fmt.Errorf("DampingFactor must be in [0, 1], got %f", c.DampingFactor)
	}
	if c.StabilityThreshold < 0 {
		return fmt.Errorf("StabilityThreshold must be >= 0, got %f", c.StabilityThreshold)
	}
	return nil
}

// registry holds registered embedder implementations.
var registry = make(map[string]func(*Config) Embedder)

// Register adds an embedder factory to the registry.
func Register(name string, factory func(*Config) Embedder) {
	if factory == nil {
		panic(fmt.Sprintf("embedding: Register factory for %s is nil", name))
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("embedding: Register called twice for %s", name))
	}
	registry[name] = factory
}

// Get retrieves an embedder by name and initializes it with config.
func Get(name string, config *Config) (Embedder, error) {
	factory, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("embedder %q not registered", name)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return factory(config), nil
}

// List returns the names of all registered embedders.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// nodeSize is the fixed width/height every room's Pose bounding box uses —
// a route map draws every room as the same token, unlike a dungeon's
// per-archetype footprint sizing.
const nodeSize = 10

// ValidateEmbedding performs spatial constraint validation on a layout.
func ValidateEmbedding(layout *Layout, g *navgraph.Graph, config *Config) error {
	if err := layout.Validate(g); err != nil {
		return err
	}

	for key, path := range layout.CorridorPaths {
		if length := path.Length(); length > config.CorridorMaxLength {
			return fmt.Errorf("corridor %v exceeds max length: %.1f > %.1f", key, length, config.CorridorMaxLength)
		}
		if bends := path.BendCount(); bends > config.CorridorMaxBends {
			return fmt.Errorf("corridor %v exceeds max bends: %d > %d", key, bends, config.CorridorMaxBends)
		}
	}

	if config.MinRoomSpacing > 0 {
		rooms := make([]*Pose, 0, len(layout.Poses))
		roomIDs := make([]ids.Id, 0, len(layout.Poses))
		for id, pose := range layout.Poses {
			rooms = append(rooms, pose)
			roomIDs = append(roomIDs, id)
		}
		for i := 0; i < len(rooms); i++ {
			for j := i + 1; j < len(rooms); j++ {
				if spacing := minSpacing(rooms[i], rooms[j]); spacing < config.MinRoomSpacing {
					return fmt.Errorf("rooms %v and %v too close: spacing %.1f < %.1f",
						roomIDs[i], roomIDs[j], spacing, config.MinRoomSpacing)
				}
			}
		}
	}

	return nil
}

// minSpacing calculates the minimum distance between two room bounding
// boxes. Returns 0 if they overlap.
func minSpacing(p1, p2 *Pose) float64 {
	minX1, minY1, maxX1, maxY1 := p1.Bounds()
	minX2, minY2, maxX2, maxY2 := p2.Bounds()

	var dx, dy float64
	if maxX1 <= minX2 {
		dx = minX2 - maxX1
	} else if maxX2 <= minX1 {
		dx = minX1 - maxX2
	}
	if maxY1 <= minY2 {
		dy = minY2 - maxY1
	} else if maxY2 <= minY1 {
		dy = minY1 - maxY2
	}

	if dx == 0 && dy == 0 {
		return 0
	}
	if dx == 0 {
		return dy
	}
	if dy == 0 {
		return dx
	}
	return math.Hypot(dx, dy)
}
