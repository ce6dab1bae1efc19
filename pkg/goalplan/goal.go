// Package goalplan implements C6: the Reactive Planner's LIFO goal stack,
// decomposition rules, per-goal action selection, and cycle avoidance
// (spec.md §4.6).
package goalplan

import "github.com/kobold/advplanner/pkg/ids"

// Kind discriminates a Goal's variant.
type Kind uint8

const (
	KindAtRoom Kind = iota
	KindHaveItem
	KindItemVisible
	KindFlagSet
	KindItemDeposited
	KindKillEnemy
	KindContainerOpen
	KindLanternOn
	KindAllTreasuresDeposited
	KindWin
)

// Goal is the planner's sum-type over the ten goal categories spec.md §3's
// data model names (§4.6 gives explicit selection rules for eight of
// them; ItemVisible and FlagSet follow the same "satisfied, or decompose
// toward it" shape by analogy). It is a plain comparable struct (no
// slices/maps) so the goal stack can use it directly as a set key for
// O(1) cycle detection.
type Goal struct {
	Kind Kind
	Room ids.Id // AtRoom
	Item ids.Id // HaveItem, ItemVisible, ItemDeposited, ContainerOpen(container)
	// Enemy is set for KillEnemy.
	Enemy ids.Id
	// Flag and FlagEntity are set for FlagSet.
	Flag       ids.Id
	FlagEntity ids.Id
}

func AtRoom(r ids.Id) Goal        { return Goal{Kind: KindAtRoom, Room: r} }
func HaveItem(x ids.Id) Goal      { return Goal{Kind: KindHaveItem, Item: x} }
func ItemVisible(x ids.Id) Goal   { return Goal{Kind: KindItemVisible, Item: x} }
func FlagSet(entity, f ids.Id) Goal {
	return Goal{Kind: KindFlagSet, FlagEntity: entity, Flag: f}
}
func ItemDeposited(t ids.Id) Goal { return Goal{Kind: KindItemDeposited, Item: t} }
func KillEnemy(e ids.Id) Goal     { return Goal{Kind: KindKillEnemy, Enemy: e} }
func ContainerOpen(c ids.Id) Goal { return Goal{Kind: KindContainerOpen, Item: c} }
func LanternOn() Goal             { return Goal{Kind: KindLanternOn} }
func AllTreasuresDeposited() Goal { return Goal{Kind: KindAllTreasuresDeposited} }
func Win() Goal                   { return Goal{Kind: KindWin} }

// String renders a Goal for tracing.
func (g Goal) String() string {
	switch g.Kind {
	case KindAtRoom:
		return "AtRoom"
	case KindHaveItem:
		return "HaveItem"
	case KindItemVisible:
		return "ItemVisible"
	case KindFlagSet:
		return "FlagSet"
	case KindItemDeposited:
		return "ItemDeposited"
	case KindKillEnemy:
		return "KillEnemy"
	case KindContainerOpen:
		return "ContainerOpen"
	case KindLanternOn:
		return "LanternOn"
	case KindAllTreasuresDeposited:
		return "AllTreasuresDeposited"
	case KindWin:
		return "Win"
	default:
		return "Unknown"
	}
}
