package badge

import (
	"testing"
	"time"

	"github.com/cbonnaire/tidyquest/internal/model"
)

func ptr(v int64) *int64 { return &v }

func badgeIDs(badges []model.Badge) []string {
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}

func hasBadge(badges []model.Badge, id string) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestComputeEmptyAggregate(t *testing.T) {
	badges := Compute(Aggregate{CategoryCounts: map[string]int{}})
	if len(badges) != 0 {
		t.Errorf("expected no badges for empty aggregate, got %v", badgeIDs(badges))
	}
}

func TestFirstStep(t *testing.T) {
	badges := Compute(Aggregate{Completions: 1, CategoryCounts: map[string]int{}})
	if !hasBadge(badges, "first_step") {
		t.Errorf("one completion should earn first_step, got %v", badgeIDs(badges))
	}
	if len(badges) != 1 {
		t.Errorf("expected exactly first_step, got %v", badgeIDs(badges))
	}
}

func TestPointTiers(t *testing.T) {
	tests := []struct {
		points int
		want   []string
	}{
		{99, nil},
		{100, []string{"big_cleaner"}},
		{500, []string{"big_cleaner", "champion"}},
		{1000, []string{"big_cleaner", "champion", "legend"}},
	}

	for _, tt := range tests {
		badges := Compute(Aggregate{TotalPoints: tt.points, CategoryCounts: map[string]int{}})
		if len(badges) != len(tt.want) {
			t.Errorf("points=%d: got %v, want %v", tt.points, badgeIDs(badges), tt.want)
			continue
		}
		for i, id := range tt.want {
			if badges[i].ID != id {
				t.Errorf("points=%d: badge[%d] = %q, want %q", tt.points, i, badges[i].ID, id)
			}
		}
	}
}

func TestPodiumBadges(t *testing.T) {
	one := Compute(Aggregate{PodiumWins: 1, CategoryCounts: map[string]int{}})
	if !hasBadge(one, "weekly_winner") || hasBadge(one, "unbeatable") {
		t.Errorf("one win: got %v", badgeIDs(one))
	}

	three := Compute(Aggregate{PodiumWins: 3, CategoryCounts: map[string]int{}})
	if !hasBadge(three, "weekly_winner") || !hasBadge(three, "unbeatable") {
		t.Errorf("three wins: got %v", badgeIDs(three))
	}
}

func TestComputeIdempotentAndStable(t *testing.T) {
	agg := Aggregate{
		Completions:       7,
		WeeklyCompletions: 4,
		TotalPoints:       600,
		PodiumWins:        1,
		ReportsGiven:      1,
		CategoryCounts:    map[string]int{"kitchen": 5},
	}

	first := Compute(agg)
	second := Compute(agg)
	if len(first) != len(second) {
		t.Fatalf("recompute changed badge count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("badge[%d] differs across recomputes: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}

	seen := make(map[string]int)
	for _, b := range first {
		seen[b.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("badge %q produced %d times", id, n)
		}
	}
}

func TestBadgesMonotonic(t *testing.T) {
	small := Aggregate{Completions: 1, TotalPoints: 120, CategoryCounts: map[string]int{"kitchen": 2}}
	big := Aggregate{Completions: 9, WeeklyCompletions: 3, TotalPoints: 700, CategoryCounts: map[string]int{"kitchen": 6}}

	before := Compute(small)
	after := Compute(big)
	for _, b := range before {
		if !hasBadge(after, b.ID) {
			t.Errorf("badge %q was revoked by adding completions/points", b.ID)
		}
	}
}

func TestBuildAggregate(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) // Wednesday; week starts Mar 2

	tasks := []model.Task{
		{ID: 10, Name: "Deep clean kitchen"},
		{ID: 11, Name: "Mop floor", ParentID: ptr(10)},
		{ID: 20, Name: "Vacuum"},
	}
	completions := []model.Completion{
		{ID: 1, TaskID: 20, UserID: 1, Category: "Kitchen", CompletedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		{ID: 2, TaskID: 11, UserID: 1, Category: "kitchen", CompletedAt: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
		{ID: 3, TaskID: 20, UserID: 1, Category: "room", CompletedAt: time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)},
		{ID: 4, TaskID: 20, UserID: 2, Category: "kitchen", CompletedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
	}
	podiums := []model.Podium{
		{ID: 1, First: model.PodiumPlace{Name: "Alice", Points: 30}},
		{ID: 2, First: model.PodiumPlace{Name: "Bob", Points: 25}},
		{ID: 3, First: model.PodiumPlace{Name: "Alice", Points: 40}},
	}
	reports := []model.Report{
		{ID: 1, ReporterID: 1, ReportedUserID: 2},
		{ID: 2, ReporterID: 2, ReportedUserID: 1},
	}

	agg := BuildAggregate(1, "Alice", 85, completions, podiums, tasks, reports, now)

	if agg.Completions != 3 {
		t.Errorf("Completions = %d, want 3", agg.Completions)
	}
	if agg.WeeklyCompletions != 2 {
		t.Errorf("WeeklyCompletions = %d, want 2", agg.WeeklyCompletions)
	}
	if agg.CategoryCounts["kitchen"] != 2 {
		t.Errorf("kitchen count = %d, want 2 (case-insensitive)", agg.CategoryCounts["kitchen"])
	}
	if agg.GroupCompletions != 1 {
		t.Errorf("GroupCompletions = %d, want 1 (sub-task completion)", agg.GroupCompletions)
	}
	if agg.PodiumWins != 2 {
		t.Errorf("PodiumWins = %d, want 2", agg.PodiumWins)
	}
	if agg.ReportsGiven != 1 || agg.ReportsReceived != 1 {
		t.Errorf("reports = given %d / received %d, want 1/1", agg.ReportsGiven, agg.ReportsReceived)
	}
	if agg.TotalPoints != 85 {
		t.Errorf("TotalPoints = %d, want 85", agg.TotalPoints)
	}
}
