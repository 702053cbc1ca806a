package engine

import (
	"strings"

	"fintrack/internal/core"
)

// milestoneStep is the percentage granularity at which goal progress is
// celebrated.
const milestoneStep = 25

// ApplyGoal credits tx to the first goal whose name equals the transaction
// category, ignoring case. Negative amounts withdraw from the goal.
//
// It reports whether the update crossed a milestone: reaching 100% or moving
// into a higher 25% band.
func ApplyGoal(goals []core.Goal, tx core.Transaction) bool {
	for i := range goals {
		if !strings.EqualFold(goals[i].Name, tx.Category) {
			continue
		}
		g := &goals[i]
		old := g.Percent
		g.Saved = g.Saved.Add(tx.Amount)
		g.Percent = core.Percent(g.Saved, g.Target)
		return g.Percent >= 100 || floorDiv(old, milestoneStep) < floorDiv(g.Percent, milestoneStep)
	}
	return false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
