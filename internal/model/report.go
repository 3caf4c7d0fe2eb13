package model

import "time"

// Report is a dispute flag on a completion. Filing one deletes the underlying
// ledger entry and reverses its points, which re-opens the task.
type Report struct {
	ID             int64     `json:"id"`
	ReporterID     int64     `json:"reporter_id"`
	ReportedUserID int64     `json:"reported_user_id"`
	TaskID         int64     `json:"task_id"`
	TaskName       string    `json:"task_name"`
	Points         int       `json:"points"`
	CreatedAt      time.Time `json:"created_at"`
}
