package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
	"github.com/kobold/advplanner/pkg/prep"
)

// Loaded is the full set of static tables Load produces.
type Loaded struct {
	Catalog       *prep.Catalog
	DarkRooms     navgraph.DarkRooms
	Teleports     []navgraph.TeleportEdge
	Weapons       map[ids.Id]bool
	Treasures     []ids.Id
	RoomFlags     navgraph.RoomFlagRequirements
}

// Load parses a YAML document (schema.go's RawCatalog) into interned,
// planner-ready tables. entity is the global pseudo-entity id flags are
// recorded against when no room/object owns them.
func Load(data []byte, in *ids.Interner, entity ids.Id) (*Loaded, error) {
	var raw RawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	cat := prep.NewCatalog()
	for _, rp := range raw.Preps {
		pa, err := buildPrep(rp, in, entity)
		if err != nil {
			return nil, fmt.Errorf("catalog: prep %q: %w", rp.ID, err)
		}
		cat.Add(pa)
	}

	loaded := &Loaded{
		Catalog:   cat,
		DarkRooms: make(navgraph.DarkRooms),
		Weapons:   make(map[ids.Id]bool),
		RoomFlags: make(navgraph.RoomFlagRequirements),
	}

	for _, name := range raw.DarkRooms {
		loaded.DarkRooms[in.Room(name)] = true
	}
	for _, name := range raw.Weapons {
		loaded.Weapons[in.Object(name)] = true
	}
	for room, flag := range raw.FlagRequirements {
		loaded.RoomFlags[in.Room(room)] = in.Flag(flag)
	}
	for _, t := range raw.Teleports {
		loaded.Teleports = append(loaded.Teleports, navgraph.TeleportEdge{
			From:   in.Room(t.From),
			To:     in.Room(t.To),
			Action: actionFromParts(t.Verb, "", "", t.Word, in),
		})
	}

	cat.TreasureRequiresFlags = make(map[ids.Id][]ids.Id, len(raw.Treasures))
	for _, tr := range raw.Treasures {
		obj := in.Object(tr.Object)
		loaded.Treasures = append(loaded.Treasures, obj)
		var flags []ids.Id
		for _, f := range tr.RequiresFlags {
			flags = append(flags, in.Flag(f))
		}
		cat.TreasureRequiresFlags[obj] = flags
	}

	return loaded, nil
}

func buildPrep(rp RawPrep, in *ids.Interner, entity ids.Id) (*prep.PrepAction, error) {
	pa := &prep.PrepAction{
		ID:          prep.Id(rp.ID),
		Description: rp.Description,
	}
	for _, l := range rp.Locations {
		pa.Locations = append(pa.Locations, in.Room(l))
	}
	for _, req := range rp.Requires {
		r, err := parseRequirement(req, in)
		if err != nil {
			return nil, err
		}
		pa.Requires = append(pa.Requires, r)
	}
	for _, f := range rp.Produces {
		pa.Effect.ImmediateFlags = append(pa.Effect.ImmediateFlags, in.Flag(f))
	}
	if rp.Delayed != nil {
		pa.Effect.HasDelayed = true
		pa.Effect.DelayedFlag = in.Flag(rp.Delayed.Flag)
		pa.Effect.DelayedTurns = rp.Delayed.Turns
	}

	switch strings.ToLower(rp.Kind) {
	case "combat":
		pa.Kind = prep.KindCombat
		pa.Target = in.Entity(rp.Target)
	case "timed":
		pa.Kind = prep.KindTimed
	case "atomic":
		pa.Kind = prep.KindAtomic
		for _, step := range rp.Steps {
			pa.Steps = append(pa.Steps, prep.Id(step))
		}
		pa.Window = rp.Window
	default:
		pa.Kind = prep.KindImmediate
	}

	if rp.Verb != "" {
		pa.Action = actionFromParts(rp.Verb, rp.Object, rp.With, rp.Word, in)
	}
	return pa, nil
}

func parseRequirement(spec string, in *ids.Interner) (prep.Requirement, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return prep.Requirement{}, fmt.Errorf("malformed requirement %q, want kind:name", spec)
	}
	switch parts[0] {
	case "flag":
		return prep.Requirement{IsFlag: true, Id: in.Flag(parts[1])}, nil
	case "item":
		return prep.Requirement{IsFlag: false, Id: in.Object(parts[1])}, nil
	default:
		return prep.Requirement{}, fmt.Errorf("unknown requirement kind %q", parts[0])
	}
}

func actionFromParts(verb, object, with, word string, in *ids.Interner) engine.Action {
	obj := objID(object, in)
	sec := objID(with, in)
	switch strings.ToLower(verb) {
	case "go":
		return engine.Go(in.Direction(object))
	case "take":
		return engine.Take(obj)
	case "drop":
		return engine.Drop(obj)
	case "put_in":
		return engine.PutIn(obj, sec)
	case "open":
		return engine.Open(obj)
	case "close":
		return engine.Close(obj)
	case "unlock":
		return engine.Unlock(obj, sec)
	case "turn_on":
		return engine.TurnOn(obj)
	case "turn_off":
		return engine.TurnOff(obj)
	case "attack":
		return engine.Attack(obj, sec)
	case "say":
		return engine.Say(word)
	case "move":
		return engine.Move(obj)
	case "tie":
		return engine.Tie(obj, sec)
	case "push":
		return engine.Push(obj)
	case "turn":
		return engine.Turn(obj, sec)
	case "pray":
		return engine.Pray()
	case "ring":
		return engine.Ring(obj)
	case "light":
		return engine.Light(obj, sec)
	case "read":
		return engine.Read(obj)
	case "wave":
		return engine.Wave(obj)
	case "inflate":
		return engine.Inflate(obj, sec)
	default:
		return engine.Wait()
	}
}

func objID(name string, in *ids.Interner) ids.Id {
	if name == "" {
		return ids.Id{}
	}
	return in.Object(name)
}
