package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var parentID sql.NullInt64

	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.Points, &t.Recurrence,
		&t.Urgency, &t.Category, &parentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		t.ParentID = &parentID.Int64
	}
	return &t, nil
}

const taskCols = `id, name, description, points, recurrence, urgency, category, parent_id, created_at, updated_at`

func (s *TaskStore) Create(name, description string, points int, recurrence model.Recurrence, urgency model.Urgency, category string, parentID *int64) (*model.Task, error) {
	var pID sql.NullInt64
	if parentID != nil {
		pID = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (name, description, points, recurrence, urgency, category, parent_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, description, points, recurrence, urgency, category, pID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns the whole catalog, sub-tasks included, in creation order.
func (s *TaskStore) List() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListSubtasks returns the members of a group task in creation order.
func (s *TaskStore) ListSubtasks(parentID int64) ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT `+taskCols+` FROM tasks WHERE parent_id = ? ORDER BY id ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtask: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// HasSubtasks reports whether any task points at the given id as its parent.
func (s *TaskStore) HasSubtasks(id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE parent_id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count subtasks: %w", err)
	}
	return n > 0, nil
}

func (s *TaskStore) Update(id int64, name, description string, points int, recurrence model.Recurrence, urgency model.Urgency, category string, parentID *int64) (*model.Task, error) {
	var pID sql.NullInt64
	if parentID != nil {
		pID = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET name = ?, description = ?, points = ?, recurrence = ?, urgency = ?, category = ?, parent_id = ?, updated_at = datetime('now') WHERE id = ?`,
		name, description, points, recurrence, urgency, category, pID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a task. Sub-tasks cascade via the schema.
func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
