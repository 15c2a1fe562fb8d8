package form

import (
	"fmt"

	"github.com/lborres/flex/core"
)

// ToggleGoal returns a new goal set with goal added when absent and removed
// when present. The result follows the order of core.MatchingGoals and goals
// is never modified.
func ToggleGoal(goals []core.Goal, goal core.Goal) ([]core.Goal, error) {
	if !goal.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidGoal, goal)
	}

	selected := make(map[core.Goal]bool, len(goals)+1)
	for _, g := range goals {
		selected[g] = true
	}
	selected[goal] = !selected[goal]

	out := make([]core.Goal, 0, len(selected))
	for _, g := range core.MatchingGoals {
		if selected[g] {
			out = append(out, g)
		}
	}
	return out, nil
}

// HasGoal reports whether goal is in goals.
func HasGoal(goals []core.Goal, goal core.Goal) bool {
	for _, g := range goals {
		if g == goal {
			return true
		}
	}
	return false
}
