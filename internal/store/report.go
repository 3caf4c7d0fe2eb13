package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

func scanReport(scanner interface{ Scan(...any) error }) (*model.Report, error) {
	var r model.Report
	err := scanner.Scan(
		&r.ID, &r.ReporterID, &r.ReportedUserID, &r.TaskID,
		&r.TaskName, &r.Points, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const reportCols = `id, reporter_id, reported_user_id, task_id, task_name, points, created_at`

// File disputes a completion: in one transaction it deletes the ledger entry,
// reverses its points from the reported participant's weekly and cumulative
// counters (clamped at zero — the ledger is the source of truth and a clamped
// counter re-converges on the next reset), and records the report. The
// deleted completion makes the task available again; that is the undo path.
func (s *ReportStore) File(reporterID int64, c model.Completion) (*model.Report, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM completions WHERE id = ?`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("delete completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("completion %d already gone", c.ID)
	}

	// The urgency bonus is not snapshotted on the ledger, so XP reverses by
	// the points amount only.
	_, err = tx.Exec(
		`UPDATE rankings SET
		   weekly_points = MAX(0, weekly_points - ?),
		   total_points = MAX(0, total_points - ?),
		   xp = MAX(0, xp - ?),
		   updated_at = datetime('now')
		 WHERE user_id = ?`,
		c.Points, c.Points, c.Points, c.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("reverse points: %w", err)
	}

	insert, err := tx.Exec(
		`INSERT INTO reports (reporter_id, reported_user_id, task_id, task_name, points) VALUES (?, ?, ?, ?, ?)`,
		reporterID, c.UserID, c.TaskID, c.TaskName, c.Points,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	id, err := insert.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit report: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReportStore) GetByID(id int64) (*model.Report, error) {
	row := s.db.QueryRow(`SELECT `+reportCols+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

func (s *ReportStore) List() ([]model.Report, error) {
	rows, err := s.db.Query(`SELECT ` + reportCols + ` FROM reports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
