package testengine

import (
	"fmt"

	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
)

// Engine wraps a World, satisfying engine.Engine, engine.CombatSimulator and
// engine.ThiefSimulator.
type Engine struct {
	w *World

	deadFlag     ids.Id
	unlockedFlag ids.Id
}

// NewEngine wraps w; w must already have its rooms/objects populated.
func NewEngine(w *World) *Engine {
	return &Engine{
		w:            w,
		deadFlag:     w.Interner.Flag("dead"),
		unlockedFlag: w.Interner.Flag("unlocked"),
	}
}

func (e *Engine) Current() engine.Snapshot { return e.w.snapshotNow() }
func (e *Engine) PRNG() engine.PRNG        { return e.w.prng }

// Execute dispatches a over the World's mutable state and returns the
// resulting Snapshot plus a human-readable message; per the Engine Contract
// it never panics on a well-formed Action.
func (e *Engine) Execute(a engine.Action) (engine.Snapshot, engine.Message) {
	if !e.w.alive {
		return e.w.snapshotNow(), "You are dead. Nothing happens."
	}

	var msg engine.Message
	switch a.Verb {
	case engine.VerbGo:
		msg = e.doGo(a.Object)
	case engine.VerbTake:
		msg = e.doTake(a.Object)
	case engine.VerbDrop:
		msg = e.doDrop(a.Object)
	case engine.VerbPutIn:
		msg = e.doPutIn(a.Object, a.Secondary)
	case engine.VerbOpen:
		msg = e.doSetContainerFlag(a.Object, e.w.openFlag, true, "is now open")
	case engine.VerbClose:
		msg = e.doSetContainerFlag(a.Object, e.w.openFlag, false, "is now closed")
	case engine.VerbUnlock:
		msg = e.doSetContainerFlag(a.Object, e.unlockedFlag, true, "is now unlocked")
	case engine.VerbTurnOn:
		msg = e.doSetContainerFlag(a.Object, e.w.onFlag, true, "is now on")
	case engine.VerbTurnOff:
		msg = e.doSetContainerFlag(a.Object, e.w.onFlag, false, "is now off")
	case engine.VerbAttack:
		msg = e.doAttack(a.Object, a.Secondary)
	case engine.VerbSay:
		msg = e.doSay(a.Word)
	case engine.VerbWait:
		msg = "Time passes."
	case engine.VerbLook:
		msg = "You look around."
	case engine.VerbInventory:
		msg = "You check your belongings."
	case engine.VerbDiagnose:
		msg = "You feel fine."
	case engine.VerbMove, engine.VerbTie, engine.VerbPush, engine.VerbTurn,
		engine.VerbPray, engine.VerbRing, engine.VerbLight, engine.VerbRead,
		engine.VerbWave, engine.VerbInflate:
		msg = "Nothing obvious happens."
	default:
		msg = "You can't do that."
	}

	e.w.moves++
	e.drainLantern()
	e.runThiefTurn()

	return e.w.snapshotNow(), msg
}

func (e *Engine) doGo(direction ids.Id) engine.Message {
	rd, ok := e.w.rooms[e.w.here]
	if !ok {
		return "You can't go that way."
	}
	spec, ok := rd.exits[direction]
	if !ok {
		return "You can't go that way."
	}
	switch spec.Kind {
	case engine.ExitBlocked:
		return engine.Message(spec.BlockedMessage)
	case engine.ExitConditional:
		if !e.w.flag(e.w.Global, spec.RequiresFlag) {
			return "The way is blocked."
		}
	case engine.ExitDoor:
		if spec.NeedsUnlock && !e.w.flag(spec.Door, e.unlockedFlag) {
			return "The door is locked."
		}
		if !e.w.flag(spec.Door, e.w.openFlag) {
			return "The door is closed."
		}
	}
	dest, ok := e.w.rooms[spec.To]
	e.w.here = spec.To
	if ok && dest.dark && !e.hasLight() {
		e.w.alive = false
		e.w.deaths++
		return "Oh, no! A grue has got you!"
	}
	return "You enter a new area."
}

func (e *Engine) hasLight() bool { return e.w.lanternLit() }

func (e *Engine) drainLantern() {
	if e.w.lantern.Zero() || !e.w.flag(e.w.lantern, e.w.onFlag) {
		return
	}
	e.w.lanternFuel -= 0.01
	if e.w.lanternFuel < 0 {
		e.w.lanternFuel = 0
		e.w.SetFlag(e.w.lantern, e.w.onFlag, false)
	}
}

func (e *Engine) doTake(obj ids.Id) engine.Message {
	loc, ok := e.w.location[obj]
	if !ok {
		return "You don't see that here."
	}
	switch loc.Kind {
	case engine.LocationCarried:
		return "You already have that."
	case engine.LocationRoom:
		if loc.Room != e.w.here {
			return "You don't see that here."
		}
	case engine.LocationContainer:
		if !e.w.flag(loc.Container, e.w.openFlag) {
			return "It's closed."
		}
	}
	e.w.location[obj] = engine.Location{Kind: engine.LocationCarried}
	e.w.score++
	return "Taken."
}

func (e *Engine) doDrop(obj ids.Id) engine.Message {
	loc, ok := e.w.location[obj]
	if !ok || loc.Kind != engine.LocationCarried {
		return "You aren't carrying that."
	}
	e.w.location[obj] = engine.Location{Kind: engine.LocationRoom, Room: e.w.here}
	return "Dropped."
}

func (e *Engine) doPutIn(obj, container ids.Id) engine.Message {
	loc, ok := e.w.location[obj]
	if !ok || loc.Kind != engine.LocationCarried {
		return "You aren't carrying that."
	}
	if !e.w.flag(container, e.w.openFlag) {
		return "It's closed."
	}
	e.w.location[obj] = engine.Location{Kind: engine.LocationContainer, Container: container}
	e.w.score += 5
	return "Done."
}

func (e *Engine) doSetContainerFlag(obj, flagName ids.Id, value bool, verb string) engine.Message {
	e.w.SetFlag(obj, flagName, value)
	return engine.Message(fmt.Sprintf("It %s.", verb))
}

func (e *Engine) doSay(word string) engine.Message {
	if e.w.ulyssesWord != "" && word == e.w.ulyssesWord && !e.w.cyclops.Zero() {
		e.w.SetFlag(e.w.cyclops, e.deadFlag, true)
		return "The cyclops, hearing the name of his father's nemesis, flees in terror!"
	}
	return "Nothing happens."
}

// doAttack resolves combat against the real World state, consuming the
// real PRNG exactly as SimulateCombat would against a copy of it.
func (e *Engine) doAttack(enemy, weapon ids.Id) engine.Message {
	if e.w.flag(enemy, e.deadFlag) {
		return "It's already dead."
	}
	result := e.simulateCombat(enemy, weapon, e.w.prng, 1)
	switch result.Outcome {
	case engine.CombatWin:
		e.w.SetFlag(enemy, e.deadFlag, true)
		e.w.score += 10
		return "Your enemy falls, dead."
	case engine.CombatDeath:
		e.w.alive = false
		e.w.deaths++
		e.w.strength = 0
		return "You have been killed."
	default:
		e.w.strength--
		return "You are wounded but the fight continues."
	}
}

// SimulateCombat resolves maxTurns of combat without touching World state,
// drawing only from prng (spec.md §4.7: a speculative query leaves the real
// engine indistinguishable from before the call).
func (e *Engine) SimulateCombat(enemy, weapon ids.Id, prng engine.PRNG, maxTurns int) engine.CombatResult {
	return e.simulateCombat(enemy, weapon, prng, maxTurns)
}

func (e *Engine) simulateCombat(enemy, weapon ids.Id, prng engine.PRNG, maxTurns int) engine.CombatResult {
	stream, ok := prng.(rngIntner)
	if !ok {
		return engine.CombatResult{Outcome: engine.CombatTimeout}
	}
	before := prng.CallCount()

	playerStrength := e.w.strength
	enemyStrength := 5
	if _, hasWeapon := e.w.objects[weapon]; hasWeapon && e.w.objects[weapon].isWeapon {
		playerStrength += 2
	}

	turns := maxTurns
	if turns <= 0 {
		turns = 1
	}
	for t := 0; t < turns; t++ {
		playerRoll := stream.Intn(100) + playerStrength
		enemyRoll := stream.Intn(100) + enemyStrength
		switch {
		case playerRoll > enemyRoll+20:
			return engine.CombatResult{Outcome: engine.CombatWin, TurnsUsed: t + 1, CallsUsed: prng.CallCount() - before}
		case enemyRoll > playerRoll+20:
			return engine.CombatResult{Outcome: engine.CombatDeath, TurnsUsed: t + 1, CallsUsed: prng.CallCount() - before}
		}
	}
	return engine.CombatResult{Outcome: engine.CombatTimeout, TurnsUsed: turns, CallsUsed: prng.CallCount() - before}
}

// rngIntner is the subset of rng.Stream's API combat needs; it is satisfied
// by *rng.Stream and by any test double sharing that method set.
type rngIntner interface {
	Intn(n int) int
}

// runThiefTurn advances the thief daemon by exactly one turn against the
// real World, mirroring SimulateThiefTurn's logic but mutating state.
func (e *Engine) runThiefTurn() {
	th := e.w.thief
	if th == nil || !th.alive || len(th.roomPool) == 0 {
		return
	}
	idx := e.w.prng.Intn(len(th.roomPool))
	th.room = th.roomPool[idx]
	if th.room != e.w.here {
		return
	}
	for _, obj := range e.w.objOrder {
		if e.w.location[obj].Kind == engine.LocationCarried && e.w.prng.Intn(4) == 0 {
			e.w.location[obj] = engine.Location{Kind: engine.LocationLimbo}
			th.bag[obj] = struct{}{}
			return
		}
	}
}

// SimulateThiefTurn forecasts one thief turn without mutating World,
// drawing only from prng.
func (e *Engine) SimulateThiefTurn(s engine.Snapshot, prng engine.PRNG) engine.ThiefEvent {
	th := e.w.thief
	if th == nil || !th.alive || len(th.roomPool) == 0 {
		return engine.ThiefEvent{}
	}
	stream, ok := prng.(rngIntner)
	if !ok {
		return engine.ThiefEvent{}
	}
	idx := stream.Intn(len(th.roomPool))
	room := th.roomPool[idx]
	ev := engine.ThiefEvent{Room: room}
	if room != s.Here() {
		return ev
	}
	ev.Appeared = true
	inv := s.Inventory()
	for _, obj := range e.w.objOrder {
		if _, carried := inv[obj]; !carried {
			continue
		}
		if stream.Intn(4) == 0 {
			ev.Stole = true
			ev.ItemStolen = obj
			return ev
		}
	}
	return ev
}
