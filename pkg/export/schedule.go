package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/prep"
	"github.com/kobold/advplanner/pkg/route"
)

// RawScheduleEntry mirrors route.ScheduleEntry in a YAML-friendly shape:
// ids.Id/prep.Id references become plain strings, resolved through an
// ids.Interner on load, the same split catalog.RawPrep uses for the prep
// catalog.
type RawScheduleEntry struct {
	Kind string `yaml:"kind" json:"kind"`

	Room string `yaml:"room,omitempty" json:"room,omitempty"`

	PrepID string `yaml:"prep_id,omitempty" json:"prep_id,omitempty"`

	Treasure string `yaml:"treasure,omitempty" json:"treasure,omitempty"`

	SequenceName string   `yaml:"sequence_name,omitempty" json:"sequence_name,omitempty"`
	Location     string   `yaml:"location,omitempty" json:"location,omitempty"`
	Steps        []string `yaml:"steps,omitempty" json:"steps,omitempty"`
	Window       uint32   `yaml:"window,omitempty" json:"window,omitempty"`

	DuringFlag  string   `yaml:"during_flag,omitempty" json:"during_flag,omitempty"`
	DuringTurns uint32   `yaml:"during_turns,omitempty" json:"during_turns,omitempty"`
	Treasures   []string `yaml:"treasures,omitempty" json:"treasures,omitempty"`
}

// RawSchedule is the top-level document shape for a persisted Schedule,
// shared by both the YAML (human-edited) and JSON (machine-transmitted)
// serializations this package offers.
type RawSchedule struct {
	Entries     []RawScheduleEntry `yaml:"entries" json:"entries"`
	Unreachable []string           `yaml:"unreachable,omitempty" json:"unreachable,omitempty"`
}

// toRawSchedule converts a *route.Schedule to the shared Raw shape, the
// common step ExportScheduleYAML and ExportScheduleJSON both start from.
func toRawSchedule(s *route.Schedule, in *ids.Interner) RawSchedule {
	raw := RawSchedule{Entries: make([]RawScheduleEntry, 0, len(s.Entries))}
	for _, e := range s.Entries {
		raw.Entries = append(raw.Entries, rawEntry(e, in))
	}
	for _, t := range s.Unreachable {
		raw.Unreachable = append(raw.Unreachable, in.Name(t))
	}
	return raw
}

// fromRawSchedule is the inverse of toRawSchedule, re-interning every name
// through in. Shared by LoadScheduleYAML and LoadScheduleJSON.
func fromRawSchedule(raw RawSchedule, in *ids.Interner) (*route.Schedule, error) {
	sched := &route.Schedule{Entries: make([]route.ScheduleEntry, 0, len(raw.Entries))}
	for i, re := range raw.Entries {
		entry, err := entryFromRaw(re, in)
		if err != nil {
			return nil, fmt.Errorf("export: entry %d: %w", i, err)
		}
		sched.Entries = append(sched.Entries, entry)
	}
	for _, t := range raw.Unreachable {
		sched.Unreachable = append(sched.Unreachable, in.Object(t))
	}
	return sched, nil
}

// ExportScheduleYAML renders s as YAML, resolving every id through in.
func ExportScheduleYAML(s *route.Schedule, in *ids.Interner) ([]byte, error) {
	return yaml.Marshal(toRawSchedule(s, in))
}

// SaveScheduleYAMLToFile writes ExportScheduleYAML's output to path with
// 0644 permissions, matching the teacher's SaveJSONToFile/SaveSVGToFile
// convention.
func SaveScheduleYAMLToFile(s *route.Schedule, path string, in *ids.Interner) error {
	data, err := ExportScheduleYAML(s, in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func rawEntry(e route.ScheduleEntry, in *ids.Interner) RawScheduleEntry {
	r := RawScheduleEntry{Kind: e.Kind.String()}
	switch e.Kind {
	case route.EntryMove:
		r.Room = in.Name(e.Room)
	case route.EntryPrep:
		r.PrepID = string(e.PrepID)
	case route.EntryCollect:
		r.Treasure = in.Name(e.Treasure)
	case route.EntryDepositAll:
		// no fields
	case route.EntryAtomicSequence:
		r.SequenceName = e.SequenceName
		r.Location = in.Name(e.Location)
		r.Window = e.Window
		for _, s := range e.Steps {
			r.Steps = append(r.Steps, string(s))
		}
	case route.EntryParallelWork:
		r.DuringFlag = in.Name(e.DuringFlag)
		r.DuringTurns = e.DuringTurns
		for _, t := range e.Treasures {
			r.Treasures = append(r.Treasures, in.Name(t))
		}
	}
	return r
}

// LoadScheduleYAML parses a YAML document produced by ExportScheduleYAML
// back into a *route.Schedule, re-interning every room/treasure/flag name
// through in exactly as catalog.Load does for the prep catalog. Round-
// tripping the same Interner instance recovers structurally equal ids.Id
// values, since Interner.Intern is idempotent per name.
func LoadScheduleYAML(data []byte, in *ids.Interner) (*route.Schedule, error) {
	var raw RawSchedule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("export: parse schedule yaml: %w", err)
	}
	return fromRawSchedule(raw, in)
}

func entryFromRaw(re RawScheduleEntry, in *ids.Interner) (route.ScheduleEntry, error) {
	switch re.Kind {
	case "Move":
		return route.ScheduleEntry{Kind: route.EntryMove, Room: in.Room(re.Room)}, nil
	case "Prep":
		return route.ScheduleEntry{Kind: route.EntryPrep, PrepID: prep.Id(re.PrepID)}, nil
	case "Collect":
		return route.ScheduleEntry{Kind: route.EntryCollect, Treasure: in.Object(re.Treasure)}, nil
	case "DepositAll":
		return route.ScheduleEntry{Kind: route.EntryDepositAll}, nil
	case "AtomicSequence":
		steps := make([]prep.Id, 0, len(re.Steps))
		for _, s := range re.Steps {
			steps = append(steps, prep.Id(s))
		}
		return route.ScheduleEntry{
			Kind:         route.EntryAtomicSequence,
			SequenceName: re.SequenceName,
			Location:     in.Room(re.Location),
			Steps:        steps,
			Window:       re.Window,
		}, nil
	case "ParallelWork":
		treasures := make([]ids.Id, 0, len(re.Treasures))
		for _, t := range re.Treasures {
			treasures = append(treasures, in.Object(t))
		}
		return route.ScheduleEntry{
			Kind:        route.EntryParallelWork,
			DuringFlag:  in.Flag(re.DuringFlag),
			DuringTurns: re.DuringTurns,
			Treasures:   treasures,
		}, nil
	default:
		return route.ScheduleEntry{}, fmt.Errorf("unknown entry kind %q", re.Kind)
	}
}
