package testengine

import (
	"testing"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
)

func smallWorld(t *testing.T) (*World, *Engine, ids.Id, ids.Id, ids.Id, ids.Id) {
	t.Helper()
	in := ids.NewInterner()
	global := in.Entity("global")
	w := NewWorld(in, global, 42)

	kitchen := in.Room("kitchen")
	cellar := in.Room("cellar")
	down := in.Direction("down")
	up := in.Direction("up")

	w.AddRoom(kitchen, map[ids.Id]engine.ExitSpec{
		down: {Kind: engine.ExitDirect, To: cellar},
	}, false)
	w.AddRoom(cellar, map[ids.Id]engine.ExitSpec{
		up: {Kind: engine.ExitDirect, To: kitchen},
	}, true)

	lantern := in.Object("lantern")
	onFlag := in.Flag("on")
	w.SetLantern(lantern, onFlag)
	w.AddObject(lantern, engine.Location{Kind: engine.LocationRoom, Room: kitchen}, false, false)

	openFlag := in.Flag("open")
	w.SetOpenFlag(openFlag)

	w.SetHere(kitchen)

	return w, NewEngine(w), kitchen, cellar, lantern, down
}

func TestGoMovesBetweenRooms(t *testing.T) {
	w, e, _, cellar, lantern, down := smallWorld(t)

	snap, _ := e.Execute(engine.Take(lantern))
	if _, carried := snap.Inventory()[lantern]; !carried {
		t.Fatalf("expected lantern carried after Take")
	}

	snap, msg := e.Execute(engine.TurnOn(lantern))
	if msg == "" {
		t.Fatalf("expected a message from TurnOn")
	}

	snap, _ = e.Execute(engine.Go(down))
	if snap.Here() != cellar {
		t.Fatalf("expected player in cellar, got different room")
	}
	if !w.alive {
		t.Fatalf("expected player alive after entering dark room with lit lantern")
	}
}

func TestGoIntoDarkRoomWithoutLightKills(t *testing.T) {
	_, e, _, cellar, _, down := smallWorld(t)

	snap, _ := e.Execute(engine.Go(down))
	if snap.Here() == cellar && snap.Alive() {
		t.Fatalf("expected death entering dark room without light")
	}
	if snap.Alive() {
		t.Fatalf("expected player dead")
	}
}

func TestTakeOpenPutInRoundTrip(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")
	w := NewWorld(in, global, 7)
	room := in.Room("room")
	w.AddRoom(room, map[ids.Id]engine.ExitSpec{}, false)
	w.SetHere(room)

	box := in.Object("box")
	openFlag := in.Flag("open")
	w.SetOpenFlag(openFlag)
	w.AddObject(box, engine.Location{Kind: engine.LocationRoom, Room: room}, true, false)

	egg := in.Object("egg")
	w.AddObject(egg, engine.Location{Kind: engine.LocationRoom, Room: room}, false, false)

	e := NewEngine(w)

	e.Execute(engine.Take(egg))
	e.Execute(engine.Open(box))
	snap, _ := e.Execute(engine.PutIn(egg, box))

	loc := snap.ObjectLocation(egg)
	if loc.Kind != engine.LocationContainer || loc.Container != box {
		t.Fatalf("expected egg in box, got %+v", loc)
	}
}

func TestSimulateCombatDeterministicGivenSameCheckpoint(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")
	w := NewWorld(in, global, 99)
	room := in.Room("room")
	w.AddRoom(room, map[ids.Id]engine.ExitSpec{}, false)
	w.SetHere(room)

	enemy := in.Entity("troll")
	weapon := in.Object("sword")
	w.AddObject(weapon, engine.Location{Kind: engine.LocationCarried}, false, true)

	e := NewEngine(w)
	cp := w.prng.Save()

	r1 := e.SimulateCombat(enemy, weapon, w.prng, 10)
	w.prng.Restore(cp)
	r2 := e.SimulateCombat(enemy, weapon, w.prng, 10)

	if r1.Outcome != r2.Outcome || r1.TurnsUsed != r2.TurnsUsed {
		t.Fatalf("expected identical combat outcome from identical checkpoint, got %+v vs %+v", r1, r2)
	}
}

func TestSayUlyssesWordScaresCyclops(t *testing.T) {
	in := ids.NewInterner()
	global := in.Entity("global")
	w := NewWorld(in, global, 1)
	room := in.Room("room")
	w.AddRoom(room, map[ids.Id]engine.ExitSpec{}, false)
	w.SetHere(room)

	cyclops := in.Entity("cyclops")
	w.SetCyclops(cyclops, "ulysses")

	e := NewEngine(w)
	e.Execute(engine.Say("ulysses"))

	if !w.flag(cyclops, e.deadFlag) {
		t.Fatalf("expected cyclops flagged dead after saying the magic word")
	}
}
