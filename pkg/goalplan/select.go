package goalplan

import (
	"github.com/kobold/advplanner/pkg/engine"
	"github.com/kobold/advplanner/pkg/ids"
	"github.com/kobold/advplanner/pkg/navgraph"
)

type selectKind uint8

const (
	selectSatisfied selectKind = iota
	selectDecompose
	selectAction
	selectStuck
)

type selectResult struct {
	kind   selectKind
	subs   []Goal
	action engine.Action
	reason StuckReason
}

func satisfied() selectResult            { return selectResult{kind: selectSatisfied} }
func decompose(subs ...Goal) selectResult { return selectResult{kind: selectDecompose, subs: subs} }
func doAction(a engine.Action) selectResult { return selectResult{kind: selectAction, action: a} }
func stuck(r StuckReason) selectResult   { return selectResult{kind: selectStuck, reason: r} }

// selectActionFor dispatches to the per-goal-kind rule in spec.md §4.6.
func (p *Planner) selectActionFor(g Goal, s engine.Snapshot) selectResult {
	switch g.Kind {
	case KindAtRoom:
		return p.selectAtRoom(g, s)
	case KindHaveItem:
		return p.selectHaveItem(g, s)
	case KindItemVisible:
		return p.selectItemVisible(g, s)
	case KindFlagSet:
		return p.selectFlagSet(g, s)
	case KindItemDeposited:
		return p.selectItemDeposited(g, s)
	case KindKillEnemy:
		return p.selectKillEnemy(g, s)
	case KindContainerOpen:
		return p.selectContainerOpen(g, s)
	case KindLanternOn:
		return p.selectLanternOn(g, s)
	case KindAllTreasuresDeposited:
		return p.selectAllTreasuresDeposited(g, s)
	case KindWin:
		return p.selectWin(g, s)
	default:
		return stuck(StuckNoStrategy)
	}
}

func (p *Planner) selectAtRoom(g Goal, s engine.Snapshot) selectResult {
	if s.Here() == g.Room {
		return satisfied()
	}
	path, err := p.shortestPath(s, g.Room)
	if err != nil {
		if blocker, ok := p.blockingEnemy(s); ok {
			return decompose(KillEnemy(blocker))
		}
		return stuck(StuckNoPath)
	}
	if len(path.Edges) == 0 {
		return satisfied()
	}
	edge := path.Edges[0]

	if edge.IntoDarkRoom && !p.hasLight(s) && g.Room != p.cfg.LanternRoom {
		return decompose(LanternOn())
	}
	if edge.PreAction != nil {
		need := edge.PreAction.RequiresFlag
		entity := edge.PreAction.RequiresEntity
		if need.Zero() || !s.Flag(entity, need) {
			return doAction(edge.PreAction.Action)
		}
	}
	if edge.Via == navgraph.ViaTeleport {
		return doAction(edge.TeleportAction)
	}
	return doAction(engine.Go(edge.Direction))
}

// blockingEnemy returns the first configured RouteBlocker whose gate flag
// is unset, i.e. a candidate explanation for why pathfind just failed.
// Only the gate flag is consulted; the enemy's own state is not checked.
func (p *Planner) blockingEnemy(s engine.Snapshot) (ids.Id, bool) {
	for _, rb := range p.cfg.RouteBlockers {
		if !s.Flag(p.cfg.GlobalEntity, rb.GateFlag) {
			return rb.Enemy, true
		}
	}
	return ids.Id{}, false
}

func (p *Planner) hasLight(s engine.Snapshot) bool {
	return p.obs.HasItem(s, p.cfg.Lantern) && s.Flag(p.cfg.Lantern, p.cfg.OnFlag)
}

func (p *Planner) selectHaveItem(g Goal, s engine.Snapshot) selectResult {
	if p.obs.HasItem(s, g.Item) {
		return satisfied()
	}
	here := s.Here()
	if p.obs.ObjectInRoomTransitive(s, g.Item, here) {
		loc := s.ObjectLocation(g.Item)
		if loc.Kind == engine.LocationContainer {
			if !s.Flag(loc.Container, p.cfg.OpenFlag) {
				return decompose(ContainerOpen(loc.Container))
			}
		}
		return doAction(engine.Take(g.Item))
	}
	room, ok := p.obs.FindObjectRoom(s, g.Item)
	if !ok {
		return stuck(StuckMissingItem)
	}
	return decompose(AtRoom(room))
}

// selectItemVisible is satisfied once the item is in the current room's
// transitive contents (or carried); otherwise it decomposes toward the
// item's room, mirroring HaveItem minus the final Take.
func (p *Planner) selectItemVisible(g Goal, s engine.Snapshot) selectResult {
	here := s.Here()
	if p.obs.HasItem(s, g.Item) || p.obs.ObjectInRoomTransitive(s, g.Item, here) {
		return satisfied()
	}
	room, ok := p.obs.FindObjectRoom(s, g.Item)
	if !ok {
		return stuck(StuckMissingItem)
	}
	return decompose(AtRoom(room))
}

// selectFlagSet has no engine action that sets an arbitrary flag directly;
// it is satisfied once the flag holds, and otherwise reports Stuck since no
// generic decomposition exists for an unspecified flag (spec.md §4.6 gives
// explicit rules only for the other eight categories). Route Optimizer
// schedules resolve FlagSet goals via specific PrepActions instead of
// routing them through this fallback.
func (p *Planner) selectFlagSet(g Goal, s engine.Snapshot) selectResult {
	if s.Flag(g.FlagEntity, g.Flag) {
		return satisfied()
	}
	return stuck(StuckNoStrategy)
}

func (p *Planner) selectItemDeposited(g Goal, s engine.Snapshot) selectResult {
	loc := s.ObjectLocation(g.Item)
	if loc.Kind == engine.LocationContainer && loc.Container == p.cfg.DepositContainer {
		return satisfied()
	}
	if !p.obs.HasItem(s, g.Item) {
		return decompose(HaveItem(g.Item))
	}
	if s.Here() != p.cfg.DepositRoom {
		return decompose(AtRoom(p.cfg.DepositRoom))
	}
	if !s.Flag(p.cfg.DepositContainer, p.cfg.OpenFlag) {
		return decompose(ContainerOpen(p.cfg.DepositContainer))
	}
	return doAction(engine.PutIn(g.Item, p.cfg.DepositContainer))
}

func (p *Planner) selectKillEnemy(g Goal, s engine.Snapshot) selectResult {
	if !s.Alive() {
		return stuck(StuckNoStrategy)
	}
	weapon := p.cfg.WeaponFor(g.Enemy)
	if weapon != (ids.Id{}) && !p.obs.HasItem(s, weapon) {
		return decompose(HaveItem(weapon))
	}
	enemyRoom, ok := p.obs.FindObjectRoom(s, g.Enemy)
	if ok && !s.Lit() && !p.hasLight(s) {
		return decompose(LanternOn())
	}
	if ok && s.Here() != enemyRoom {
		return decompose(AtRoom(enemyRoom))
	}
	if g.Enemy == p.cfg.Cyclops {
		return doAction(engine.Say(p.cfg.UlyssesWord))
	}
	return doAction(engine.Attack(g.Enemy, weapon))
}

func (p *Planner) selectContainerOpen(g Goal, s engine.Snapshot) selectResult {
	if s.Flag(g.Item, p.cfg.OpenFlag) {
		return satisfied()
	}
	here := s.Here()
	if p.obs.HasItem(s, g.Item) || p.obs.ObjectInRoomTransitive(s, g.Item, here) {
		return doAction(engine.Open(g.Item))
	}
	room, ok := p.obs.FindObjectRoom(s, g.Item)
	if !ok {
		return stuck(StuckMissingItem)
	}
	return decompose(AtRoom(room))
}

func (p *Planner) selectLanternOn(g Goal, s engine.Snapshot) selectResult {
	if p.hasLight(s) {
		return satisfied()
	}
	if !p.obs.HasItem(s, p.cfg.Lantern) {
		return decompose(HaveItem(p.cfg.Lantern))
	}
	return doAction(engine.TurnOn(p.cfg.Lantern))
}

func (p *Planner) selectAllTreasuresDeposited(g Goal, s engine.Snapshot) selectResult {
	for _, t := range p.cfg.Treasures {
		loc := s.ObjectLocation(t)
		if !(loc.Kind == engine.LocationContainer && loc.Container == p.cfg.DepositContainer) {
			return decompose(ItemDeposited(t))
		}
	}
	return satisfied()
}

func (p *Planner) selectWin(g Goal, s engine.Snapshot) selectResult {
	if s.Won() {
		return satisfied()
	}
	for _, t := range p.cfg.Treasures {
		loc := s.ObjectLocation(t)
		if !(loc.Kind == engine.LocationContainer && loc.Container == p.cfg.DepositContainer) {
			return decompose(AllTreasuresDeposited())
		}
	}
	if s.Here() != p.cfg.VictoryRoom {
		return decompose(AtRoom(p.cfg.VictoryRoom))
	}
	return doAction(engine.Wait())
}
