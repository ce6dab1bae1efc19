package verify

import "github.com/kobold/advplanner/pkg/ids"

// thiefHistoryLimit bounds the thief's recorded location history (spec.md
// §4.8: "bounded to 20").
const thiefHistoryLimit = 20

// ThiefMonitor tracks the thief daemon's observed behavior across steps.
type ThiefMonitor struct {
	History     []ids.Id
	ThiefCount  int
	ItemsStolen map[ids.Id]struct{}
	Encounters  int
}

// Observe records one step's thief-related observations: the thief's
// current room, whether a theft occurred this step (and what was stolen),
// and whether the player and thief occupy the same room (an encounter).
func (m *ThiefMonitor) Observe(thiefRoom ids.Id, playerRoom ids.Id, stoleItem ids.Id, stole bool) {
	m.History = append(m.History, thiefRoom)
	if len(m.History) > thiefHistoryLimit {
		m.History = m.History[len(m.History)-thiefHistoryLimit:]
	}
	if stole {
		m.ThiefCount++
		if m.ItemsStolen == nil {
			m.ItemsStolen = make(map[ids.Id]struct{})
		}
		m.ItemsStolen[stoleItem] = struct{}{}
	}
	if thiefRoom == playerRoom {
		m.Encounters++
	}
}

// Thief reports the Checker's running thief monitor.
func (c *Checker) Thief() *ThiefMonitor { return &c.thief }
