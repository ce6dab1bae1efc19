// Package export persists and visualizes a route.Schedule: YAML and JSON
// for round-trippable storage, SVG for a rendered route map. It plays the
// role the teacher's pkg/export plays for a generated dungeon's JSON/SVG
// artifacts, retargeted at the planner's own Schedule type.
package export
