package store

import (
	"testing"

	"github.com/cbonnaire/tidyquest/internal/database"
	"github.com/cbonnaire/tidyquest/internal/model"
)

type completionFixture struct {
	tasks       *TaskStore
	completions *CompletionStore
	rankings    *RankingStore
	alice       model.User
}

func setupCompletionTestDB(t *testing.T) completionFixture {
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

	return completionFixture{
		tasks:       NewTaskStore(db),
		completions: NewCompletionStore(db),
		rankings:    NewRankingStore(db),
		alice:       *alice,
	}
}

func TestRecordCreditsCounters(t *testing.T) {
	f := setupCompletionTestDB(t)

	vacuum, err := f.tasks.Create("Vacuum", "", 10, model.RecurrenceWeekly, model.UrgencyLow, "room", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	c, err := f.completions.Record(*vacuum, f.alice)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if c.Points != 10 || c.TaskName != "Vacuum" || c.UserName != "Alice" {
		t.Errorf("completion = %+v", c)
	}

	entry, err := f.rankings.Get(f.alice.ID)
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if entry.WeeklyPoints != 10 || entry.TotalPoints != 10 {
		t.Errorf("weekly=%d total=%d, want 10/10", entry.WeeklyPoints, entry.TotalPoints)
	}
	if entry.XP != 10 {
		t.Errorf("xp = %d, want 10", entry.XP)
	}
	if entry.PreviousPoints != 0 {
		t.Errorf("previous = %d, want 0", entry.PreviousPoints)
	}
}

func TestRecordHighUrgencyBonusXP(t *testing.T) {
	f := setupCompletionTestDB(t)

	urgent, err := f.tasks.Create("Unclog drain", "", 10, model.RecurrenceWeekly, model.UrgencyHigh, "all", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := f.completions.Record(*urgent, f.alice); err != nil {
		t.Fatalf("record: %v", err)
	}

	entry, err := f.rankings.Get(f.alice.ID)
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if entry.TotalPoints != 10 {
		t.Errorf("total = %d, want 10 (bonus is XP-only)", entry.TotalPoints)
	}
	if entry.XP != 15 {
		t.Errorf("xp = %d, want 15", entry.XP)
	}
}

func TestRecordConsumesOneOffTask(t *testing.T) {
	f := setupCompletionTestDB(t)

	shelves, err := f.tasks.Create("Assemble shelves", "", 20, model.RecurrenceOneOff, model.UrgencyLow, "all", nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	c, err := f.completions.Record(*shelves, f.alice)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if c.TaskName != "Assemble shelves" {
		t.Errorf("task name snapshot = %q", c.TaskName)
	}

	got, err := f.tasks.GetByID(shelves.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("one-off task should be deleted on completion")
	}

	// The ledger entry survives the definition.
	ledger, err := f.completions.List()
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(ledger) != 1 {
		t.Errorf("ledger = %d entries, want 1", len(ledger))
	}
}

func TestRecordBatch(t *testing.T) {
	f := setupCompletionTestDB(t)

	a, err := f.tasks.Create("Mop floor", "", 5, model.RecurrenceWeekly, model.UrgencyLow, "kitchen", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := f.tasks.Create("Wipe counters", "", 3, model.RecurrenceWeekly, model.UrgencyLow, "kitchen", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	completions, err := f.completions.RecordBatch([]model.Task{*a, *b}, f.alice)
	if err != nil {
		t.Fatalf("record batch: %v", err)
	}
	if len(completions) != 2 {
		t.Fatalf("completions = %d, want 2", len(completions))
	}

	entry, err := f.rankings.Get(f.alice.ID)
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if entry.WeeklyPoints != 8 {
		t.Errorf("weekly = %d, want 8", entry.WeeklyPoints)
	}
}

func TestClearResetsLedgerAndCounters(t *testing.T) {
	f := setupCompletionTestDB(t)

	vacuum, err := f.tasks.Create("Vacuum", "", 10, model.RecurrenceWeekly, model.UrgencyLow, "room", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.completions.Record(*vacuum, f.alice); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := f.completions.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	ledger, err := f.completions.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ledger) != 0 {
		t.Errorf("ledger after clear = %d entries", len(ledger))
	}

	entry, err := f.rankings.Get(f.alice.ID)
	if err != nil {
		t.Fatalf("get ranking: %v", err)
	}
	if entry.WeeklyPoints != 0 || entry.TotalPoints != 0 || entry.XP != 0 {
		t.Errorf("counters after clear = %+v", entry)
	}
}
