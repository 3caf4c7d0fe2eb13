package store

import (
	"testing"

	"github.com/cbonnaire/tidyquest/internal/database"
	"github.com/cbonnaire/tidyquest/internal/model"
)

type objectiveFixture struct {
	tasks       *TaskStore
	completions *CompletionStore
	objectives  *ObjectiveStore
	alice       model.User
}

func setupObjectiveTestDB(t *testing.T) objectiveFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := NewUserStore(db)
	alice, err := users.Create("alice@example.com", "Alice", "x", model.RoleMember)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return objectiveFixture{
		tasks:       NewTaskStore(db),
		completions: NewCompletionStore(db),
		objectives:  NewObjectiveStore(db),
		alice:       *alice,
	}
}

func (f objectiveFixture) complete(t *testing.T, name, category string, points int) {
	t.Helper()
	task, err := f.tasks.Create(name, "", points, model.RecurrenceOneOff, model.UrgencyLow, category, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := f.completions.Record(*task, f.alice); err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestObjectiveCumulativeProgress(t *testing.T) {
	f := setupObjectiveTestDB(t)

	if _, err := f.objectives.Create("Spring cleaning", "", 30, model.ObjectiveCumulative, ""); err != nil {
		t.Fatalf("create objective: %v", err)
	}

	f.complete(t, "Vacuum", "room", 10)
	f.complete(t, "Dishes", "kitchen", 15)

	progress, err := f.objectives.ListWithProgress()
	if err != nil {
		t.Fatalf("list with progress: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("objectives = %d, want 1", len(progress))
	}
	if progress[0].CurrentPoints != 25 {
		t.Errorf("current = %d, want 25", progress[0].CurrentPoints)
	}
	if progress[0].Achieved {
		t.Error("objective should not be achieved at 25/30")
	}

	f.complete(t, "Windows", "room", 5)

	progress, err = f.objectives.ListWithProgress()
	if err != nil {
		t.Fatalf("list with progress: %v", err)
	}
	if !progress[0].Achieved {
		t.Error("objective should be achieved at 30/30")
	}
}

func TestObjectiveCategoryProgressCaseInsensitive(t *testing.T) {
	f := setupObjectiveTestDB(t)

	if _, err := f.objectives.Create("Kitchen blitz", "", 20, model.ObjectiveCategory, "Kitchen"); err != nil {
		t.Fatalf("create objective: %v", err)
	}

	f.complete(t, "Dishes", "kitchen", 10)
	f.complete(t, "Counters", "KITCHEN", 5)
	f.complete(t, "Vacuum", "room", 50) // other category must not count

	progress, err := f.objectives.ListWithProgress()
	if err != nil {
		t.Fatalf("list with progress: %v", err)
	}
	if progress[0].CurrentPoints != 15 {
		t.Errorf("current = %d, want 15", progress[0].CurrentPoints)
	}
	if progress[0].Achieved {
		t.Error("objective should not be achieved at 15/20")
	}
}

func TestObjectiveCRUD(t *testing.T) {
	f := setupObjectiveTestDB(t)

	o, err := f.objectives.Create("Goal", "desc", 100, model.ObjectiveCumulative, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.objectives.Update(o.ID, "Bigger goal", "desc", 200, model.ObjectiveCumulative, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bigger goal" || updated.TargetPoints != 200 {
		t.Errorf("updated = %+v", updated)
	}

	if err := f.objectives.Delete(o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := f.objectives.GetByID(o.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted objective")
	}
}
