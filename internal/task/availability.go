package task

import (
	"time"

	"github.com/cbonnaire/tidyquest/internal/model"
)

// View is a catalog entry decorated with derived state for listings.
type View struct {
	model.Task
	SubtaskIDs      []int64 `json:"subtask_ids,omitempty"`
	EffectivePoints int     `json:"effective_points"`
	Available       bool    `json:"available"`
}

// WeekStart returns the most recent Monday at 00:00 in t's location.
// Sunday belongs to the week that began the previous Monday.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Available reports whether a leaf task can be completed at now, given the
// completion ledger. Group tasks are handled by GroupAvailable.
func Available(t model.Task, completions []model.Completion, now time.Time) bool {
	switch t.Recurrence {
	case model.RecurrenceDaily:
		for _, c := range completions {
			if c.TaskID == t.ID && sameDay(c.CompletedAt, now) {
				return false
			}
		}
		return true
	case model.RecurrenceOneOff:
		for _, c := range completions {
			if c.TaskID == t.ID {
				return false
			}
		}
		return true
	default:
		// Weekly is the default when the recurrence is unspecified.
		weekStart := WeekStart(now)
		for _, c := range completions {
			if c.TaskID == t.ID && !c.CompletedAt.In(now.Location()).Before(weekStart) {
				return false
			}
		}
		return true
	}
}

// GroupAvailable reports whether a group task should still be offered: true
// while at least one sub-task is available. A group with no resolvable
// sub-tasks counts as fully completed.
func GroupAvailable(subtasks []model.Task, completions []model.Completion, now time.Time) bool {
	for _, st := range subtasks {
		if Available(st, completions, now) {
			return true
		}
	}
	return false
}

// EffectivePoints returns the points a group task is worth: the sum of all
// its sub-tasks' points, regardless of their availability.
func EffectivePoints(subtasks []model.Task) int {
	total := 0
	for _, st := range subtasks {
		total += st.Points
	}
	return total
}

// VisibleTasks assembles the top-level task list: sub-tasks are folded into
// their parent group, unavailable tasks are dropped, and group points are
// derived from their members. Order follows the input catalog order.
func VisibleTasks(tasks []model.Task, completions []model.Completion, now time.Time) []View {
	children := make(map[int64][]model.Task)
	for _, t := range tasks {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t)
		}
	}

	var views []View
	for _, t := range tasks {
		if t.ParentID != nil {
			continue
		}

		subs, isGroup := children[t.ID]
		if isGroup {
			if !GroupAvailable(subs, completions, now) {
				continue
			}
			v := View{Task: t, EffectivePoints: EffectivePoints(subs), Available: true}
			for _, st := range subs {
				v.SubtaskIDs = append(v.SubtaskIDs, st.ID)
			}
			views = append(views, v)
			continue
		}

		if !Available(t, completions, now) {
			continue
		}
		views = append(views, View{Task: t, EffectivePoints: t.Points, Available: true})
	}
	return views
}
