package badge

import (
	"strings"
	"time"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/task"
)

// Aggregate holds the per-participant statistics the badge rules read.
type Aggregate struct {
	Completions       int
	WeeklyCompletions int
	CategoryCounts    map[string]int // lower-cased category -> count
	TotalPoints       int
	PodiumWins        int
	GroupCompletions  int // completions of a sub-task or group task
	ReportsGiven      int
	ReportsReceived   int
}

// Rule is one independent badge predicate. Rules never depend on each
// other's outcome.
type Rule struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Unlock      func(Aggregate) bool
}

// Rules is the single ordered badge table. Compute walks it in order, so the
// returned badge set is order-stable.
var Rules = []Rule{
	{
		ID: "first_step", Name: "First Step", Icon: "👣",
		Description: "Complete your first task",
		Unlock:      func(a Aggregate) bool { return a.Completions >= 1 },
	},
	{
		ID: "weekly_active", Name: "Weekly Active", Icon: "🔥",
		Description: "Complete 3 tasks in the current week",
		Unlock:      func(a Aggregate) bool { return a.WeeklyCompletions >= 3 },
	},
	{
		ID: "kitchen_chef", Name: "Kitchen Chef", Icon: "🍳",
		Description: "Complete 5 kitchen tasks",
		Unlock:      func(a Aggregate) bool { return a.CategoryCounts["kitchen"] >= 5 },
	},
	{
		ID: "living_room_master", Name: "Living-Room Master", Icon: "🛋️",
		Description: "Complete 5 room tasks",
		Unlock:      func(a Aggregate) bool { return a.CategoryCounts["room"] >= 5 },
	},
	{
		ID: "big_cleaner", Name: "Big Cleaner", Icon: "🧹",
		Description: "Reach 100 cumulative points",
		Unlock:      func(a Aggregate) bool { return a.TotalPoints >= 100 },
	},
	{
		ID: "champion", Name: "Champion", Icon: "🏆",
		Description: "Reach 500 cumulative points",
		Unlock:      func(a Aggregate) bool { return a.TotalPoints >= 500 },
	},
	{
		ID: "legend", Name: "Legend", Icon: "🌟",
		Description: "Reach 1000 cumulative points",
		Unlock:      func(a Aggregate) bool { return a.TotalPoints >= 1000 },
	},
	{
		ID: "weekly_winner", Name: "Weekly Winner", Icon: "🥇",
		Description: "Finish a week on top of the podium",
		Unlock:      func(a Aggregate) bool { return a.PodiumWins >= 1 },
	},
	{
		ID: "unbeatable", Name: "Unbeatable", Icon: "👑",
		Description: "Win the weekly podium 3 times",
		Unlock:      func(a Aggregate) bool { return a.PodiumWins >= 3 },
	},
	{
		ID: "team_spirit", Name: "Team Spirit", Icon: "🤝",
		Description: "Complete a group task or one of its parts",
		Unlock:      func(a Aggregate) bool { return a.GroupCompletions >= 1 },
	},
	{
		ID: "best_balance", Name: "Best Balance", Icon: "⚖️",
		Description: "Report a disputed completion",
		Unlock:      func(a Aggregate) bool { return a.ReportsGiven >= 1 },
	},
	{
		ID: "dunce_cap", Name: "Dunce Cap", Icon: "🎩",
		Description: "Have one of your completions reported",
		Unlock:      func(a Aggregate) bool { return a.ReportsReceived >= 1 },
	},
}

// Compute evaluates every rule against the aggregate and returns the earned
// badges in table order. Recomputing with identical inputs yields an
// identical set; a badge can appear at most once.
func Compute(agg Aggregate) []model.Badge {
	var badges []model.Badge
	seen := make(map[string]bool)
	for _, r := range Rules {
		if seen[r.ID] || !r.Unlock(agg) {
			continue
		}
		seen[r.ID] = true
		badges = append(badges, model.Badge{
			ID:          r.ID,
			Name:        r.Name,
			Icon:        r.Icon,
			Description: r.Description,
		})
	}
	return badges
}

// BuildAggregate derives a participant's aggregate from the shared
// collections. Podium wins are matched by name, which is how podium snapshots
// record their places.
func BuildAggregate(
	userID int64,
	userName string,
	totalPoints int,
	completions []model.Completion,
	podiums []model.Podium,
	tasks []model.Task,
	reports []model.Report,
	now time.Time,
) Aggregate {
	agg := Aggregate{
		TotalPoints:    totalPoints,
		CategoryCounts: make(map[string]int),
	}

	// Group tasks are the ones other tasks point at; sub-tasks carry a parent.
	grouped := make(map[int64]bool)
	for _, t := range tasks {
		if t.ParentID != nil {
			grouped[t.ID] = true
			grouped[*t.ParentID] = true
		}
	}

	weekStart := task.WeekStart(now)
	for _, c := range completions {
		if c.UserID != userID {
			continue
		}
		agg.Completions++
		agg.CategoryCounts[strings.ToLower(c.Category)]++
		if !c.CompletedAt.In(now.Location()).Before(weekStart) {
			agg.WeeklyCompletions++
		}
		if grouped[c.TaskID] {
			agg.GroupCompletions++
		}
	}

	for _, p := range podiums {
		if p.First.Name == userName {
			agg.PodiumWins++
		}
	}

	for _, r := range reports {
		if r.ReporterID == userID {
			agg.ReportsGiven++
		}
		if r.ReportedUserID == userID {
			agg.ReportsReceived++
		}
	}

	return agg
}
