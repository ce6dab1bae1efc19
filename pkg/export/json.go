package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/route"
)

// ExportScheduleJSON serializes s to JSON with 2-space indentation,
// resolving every id through in — the machine-transmission counterpart to
// ExportScheduleYAML's human-edited format (spec.md §6's Schedule file
// format), adapted from the teacher's ExportJSON.
func ExportScheduleJSON(s *route.Schedule, in *ids.Interner) ([]byte, error) {
	return json.MarshalIndent(toRawSchedule(s, in), "", "  ")
}

// ExportScheduleJSONCompact serializes s to JSON without indentation.
func ExportScheduleJSONCompact(s *route.Schedule, in *ids.Interner) ([]byte, error) {
	return json.Marshal(toRawSchedule(s, in))
}

// SaveScheduleJSONToFile writes ExportScheduleJSON's output to path with
// 0644 permissions.
func SaveScheduleJSONToFile(s *route.Schedule, path string, in *ids.Interner) error {
	data, err := ExportScheduleJSON(s, in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveScheduleJSONCompactToFile writes ExportScheduleJSONCompact's output
// to path with 0644 permissions.
func SaveScheduleJSONCompactToFile(s *route.Schedule, path string, in *ids.Interner) error {
	data, err := ExportScheduleJSONCompact(s, in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadScheduleJSON parses a JSON document produced by ExportScheduleJSON
// (or ExportScheduleJSONCompact) back into a *route.Schedule.
func LoadScheduleJSON(data []byte, in *ids.Interner) (*route.Schedule, error) {
	var raw RawSchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("export: parse schedule json: %w", err)
	}
	return fromRawSchedule(raw, in)
}
