package model

import "time"

// Recurrence governs how often a task may be completed.
type Recurrence string

const (
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceOneOff Recurrence = "one_off"
)

// Urgency affects the XP bonus granted on completion.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Task is a single entry in the task catalog. A task with a ParentID is a
// sub-task and is excluded from top-level listings; a task that other tasks
// point at is a group task, whose effective points are the sum of its
// sub-tasks' points. A task may not be both.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Recurrence  Recurrence `json:"recurrence"`
	Urgency     Urgency    `json:"urgency"`
	Category    string     `json:"category"`
	ParentID    *int64     `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Completion is one append-only ledger entry. Task name, category, and user
// name are snapshots taken at completion time so the ledger survives later
// edits and deletions of the definitions.
type Completion struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	TaskName    string    `json:"task_name"`
	Category    string    `json:"category"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	Points      int       `json:"points"`
	CompletedAt time.Time `json:"completed_at"`
}
