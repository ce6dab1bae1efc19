package route

import (
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/prep"
)

// EntryKind discriminates a ScheduleEntry's shape (spec.md §3 Schedule).
type EntryKind uint8

const (
	EntryMove EntryKind = iota
	EntryPrep
	EntryCollect
	EntryDepositAll
	EntryAtomicSequence
	EntryParallelWork
)

func (k EntryKind) String() string {
	switch k {
	case EntryMove:
		return "Move"
	case EntryPrep:
		return "Prep"
	case EntryCollect:
		return "Collect"
	case EntryDepositAll:
		return "DepositAll"
	case EntryAtomicSequence:
		return "AtomicSequence"
	case EntryParallelWork:
		return "ParallelWork"
	default:
		return "Unknown"
	}
}

// ScheduleEntry is one record of a Schedule. Only the fields relevant to
// Kind are populated; the rest are left at their zero value, mirroring the
// teacher's Connector-style "tagged struct" records rather than an
// interface-per-kind hierarchy.
type ScheduleEntry struct {
	Kind EntryKind

	// EntryMove
	Room ids.Id

	// EntryPrep
	PrepID prep.Id

	// EntryCollect
	Treasure ids.Id

	// EntryAtomicSequence
	SequenceName string
	Location     ids.Id
	Steps        []prep.Id
	Window       uint32

	// EntryParallelWork
	DuringFlag  ids.Id
	DuringTurns uint32
	Treasures   []ids.Id
}

// Schedule is the ordered plan the Reactive Planner consumes one entry at
// a time. Unreachable holds treasures Step 2 could not connect to the
// start room under the all-known budget; they are recorded rather than
// silently dropped, per spec.md §4.5 step 2.
type Schedule struct {
	Entries     []ScheduleEntry
	Unreachable []ids.Id
}

func moveEntry(room ids.Id) ScheduleEntry {
	return ScheduleEntry{Kind: EntryMove, Room: room}
}

func prepEntry(id prep.Id) ScheduleEntry {
	return ScheduleEntry{Kind: EntryPrep, PrepID: id}
}

func collectEntry(t ids.Id) ScheduleEntry {
	return ScheduleEntry{Kind: EntryCollect, Treasure: t}
}

func depositAllEntry() ScheduleEntry {
	return ScheduleEntry{Kind: EntryDepositAll}
}

func atomicSequenceEntry(name string, loc ids.Id, steps []prep.Id, window uint32) ScheduleEntry {
	return ScheduleEntry{Kind: EntryAtomicSequence, SequenceName: name, Location: loc, Steps: steps, Window: window}
}

func parallelWorkEntry(flag ids.Id, turns uint32, treasures []ids.Id) ScheduleEntry {
	return ScheduleEntry{Kind: EntryParallelWork, DuringFlag: flag, DuringTurns: turns, Treasures: treasures}
}
