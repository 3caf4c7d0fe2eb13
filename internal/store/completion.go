package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/scoring"
)

type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	err := scanner.Scan(
		&c.ID, &c.TaskID, &c.TaskName, &c.Category, &c.UserID,
		&c.UserName, &c.Points, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const completionCols = `id, task_id, task_name, category, user_id, user_name, points, completed_at`

// Record appends a ledger entry for the task, credits the participant's
// counters, and consumes one-off task definitions — all in one transaction,
// so a partial record can never desynchronize the ledger and the ranking.
func (s *CompletionStore) Record(t model.Task, user model.User) (*model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := recordTx(tx, t, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record: %w", err)
	}
	return s.GetByID(id)
}

// RecordBatch records several tasks for the same participant atomically:
// either every completion lands or none does.
func (s *CompletionStore) RecordBatch(tasks []model.Task, user model.User) ([]model.Completion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		id, err := recordTx(tx, t, user)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	completions := make([]model.Completion, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			completions = append(completions, *c)
		}
	}
	return completions, nil
}

func recordTx(tx *sql.Tx, t model.Task, user model.User) (int64, error) {
	result, err := tx.Exec(
		`INSERT INTO completions (task_id, task_name, category, user_id, user_name, points) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Category, user.ID, user.Name, t.Points,
	)
	if err != nil {
		return 0, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	xp := scoring.Award(t.Points, t.Urgency)
	_, err = tx.Exec(
		`INSERT INTO rankings (user_id, weekly_points, total_points, xp) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   weekly_points = weekly_points + excluded.weekly_points,
		   total_points = total_points + excluded.total_points,
		   xp = xp + excluded.xp,
		   updated_at = datetime('now')`,
		user.ID, t.Points, t.Points, xp,
	)
	if err != nil {
		return 0, fmt.Errorf("credit ranking: %w", err)
	}

	// One-off tasks are consumed exactly once, globally.
	if t.Recurrence == model.RecurrenceOneOff {
		if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
			return 0, fmt.Errorf("consume one-off task: %w", err)
		}
	}

	return id, nil
}

func (s *CompletionStore) GetByID(id int64) (*model.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

func (s *CompletionStore) List() ([]model.Completion, error) {
	rows, err := s.db.Query(`SELECT ` + completionCols + ` FROM completions ORDER BY completed_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

func (s *CompletionStore) ListByUser(userID int64) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM completions WHERE user_id = ? ORDER BY completed_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by user: %w", err)
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

func (s *CompletionStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}

// Clear wipes the ledger and every counter derived from it. Used by the
// admin data reset.
func (s *CompletionStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
		return fmt.Errorf("clear completions: %w", err)
	}
	if _, err := tx.Exec(`UPDATE rankings SET weekly_points = 0, total_points = 0, previous_points = 0, xp = 0, updated_at = datetime('now')`); err != nil {
		return fmt.Errorf("zero rankings: %w", err)
	}
	return tx.Commit()
}
