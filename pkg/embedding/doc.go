// Package embedding lays out a navgraph.Graph spatially for route-map
// rendering: it translates room topology into 2D coordinates and
// corridor paths, the way the teacher's embedding package turns an
// Abstract Dungeon Graph into a tile-carving-ready layout — retargeted
// here at visualization (pkg/export) rather than tile carving.
package embedding
