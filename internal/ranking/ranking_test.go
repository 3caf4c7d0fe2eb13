package ranking

import (
	"testing"

	"github.com/cbonnaire/tidyquest/internal/model"
)

func entries() []model.RankingEntry {
	return []model.RankingEntry{
		{UserID: 1, Name: "Alice", WeeklyPoints: 10, TotalPoints: 200},
		{UserID: 2, Name: "Bob", WeeklyPoints: 20, TotalPoints: 150},
		{UserID: 3, Name: "Carol", WeeklyPoints: 20, TotalPoints: 90},
		{UserID: 4, Name: "Dave", WeeklyPoints: 5, TotalPoints: 300},
	}
}

func TestRankWeekly(t *testing.T) {
	ranked := Rank(entries(), MetricWeekly)

	want := []string{"Bob", "Carol", "Alice", "Dave"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Name, name)
		}
	}
}

func TestRankTotal(t *testing.T) {
	ranked := Rank(entries(), MetricTotal)

	want := []string{"Dave", "Alice", "Bob", "Carol"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Name, name)
		}
	}
}

func TestRankTiesKeepInsertionOrder(t *testing.T) {
	ranked := Rank(entries(), MetricWeekly)

	// Bob (id 2) appears before Carol (id 3): both at 20 weekly points.
	if ranked[0].UserID != 2 || ranked[1].UserID != 3 {
		t.Errorf("tie order = [%d %d], want [2 3]", ranked[0].UserID, ranked[1].UserID)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := entries()
	Rank(in, MetricWeekly)
	if in[0].Name != "Alice" {
		t.Error("Rank mutated its input slice")
	}
}

func TestPodium(t *testing.T) {
	top := Podium(entries())
	if len(top) != 3 {
		t.Fatalf("podium size = %d, want 3", len(top))
	}
	if top[0].Name != "Bob" {
		t.Errorf("podium winner = %q, want Bob", top[0].Name)
	}

	short := Podium([]model.RankingEntry{{UserID: 1, Name: "Alice", WeeklyPoints: 10}})
	if len(short) != 1 {
		t.Errorf("podium with one participant = %d entries, want 1", len(short))
	}
}
