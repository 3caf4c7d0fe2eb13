package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type ObjectiveStore struct {
	db *sql.DB
}

func NewObjectiveStore(db *sql.DB) *ObjectiveStore {
	return &ObjectiveStore{db: db}
}

func scanObjective(scanner interface{ Scan(...any) error }) (*model.Objective, error) {
	var o model.Objective
	err := scanner.Scan(
		&o.ID, &o.Name, &o.Description, &o.TargetPoints,
		&o.TargetType, &o.TargetCategory, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const objectiveCols = `id, name, description, target_points, target_type, target_category, created_at`

func (s *ObjectiveStore) Create(name, description string, targetPoints int, targetType model.ObjectiveType, targetCategory string) (*model.Objective, error) {
	result, err := s.db.Exec(
		`INSERT INTO objectives (name, description, target_points, target_type, target_category) VALUES (?, ?, ?, ?, ?)`,
		name, description, targetPoints, targetType, targetCategory,
	)
	if err != nil {
		return nil, fmt.Errorf("insert objective: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ObjectiveStore) GetByID(id int64) (*model.Objective, error) {
	row := s.db.QueryRow(`SELECT `+objectiveCols+` FROM objectives WHERE id = ?`, id)
	o, err := scanObjective(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get objective: %w", err)
	}
	return o, nil
}

func (s *ObjectiveStore) List() ([]model.Objective, error) {
	rows, err := s.db.Query(`SELECT ` + objectiveCols + ` FROM objectives ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	defer rows.Close()

	var objectives []model.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, fmt.Errorf("scan objective: %w", err)
		}
		objectives = append(objectives, *o)
	}
	return objectives, rows.Err()
}

// ListWithProgress derives each objective's current points from the
// completion ledger at read time. Progress is household-wide.
func (s *ObjectiveStore) ListWithProgress() ([]model.ObjectiveProgress, error) {
	objectives, err := s.List()
	if err != nil {
		return nil, err
	}

	var out []model.ObjectiveProgress
	for _, o := range objectives {
		var current int
		if o.TargetType == model.ObjectiveCategory {
			err = s.db.QueryRow(
				`SELECT COALESCE(SUM(points), 0) FROM completions WHERE LOWER(category) = LOWER(?)`,
				o.TargetCategory,
			).Scan(&current)
		} else {
			err = s.db.QueryRow(`SELECT COALESCE(SUM(points), 0) FROM completions`).Scan(&current)
		}
		if err != nil {
			return nil, fmt.Errorf("objective %d progress: %w", o.ID, err)
		}

		out = append(out, model.ObjectiveProgress{
			Objective:     o,
			CurrentPoints: current,
			Achieved:      current >= o.TargetPoints,
		})
	}
	return out, nil
}

func (s *ObjectiveStore) Update(id int64, name, description string, targetPoints int, targetType model.ObjectiveType, targetCategory string) (*model.Objective, error) {
	_, err := s.db.Exec(
		`UPDATE objectives SET name = ?, description = ?, target_points = ?, target_type = ?, target_category = ? WHERE id = ?`,
		name, description, targetPoints, targetType, targetCategory, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update objective: %w", err)
	}
	return s.GetByID(id)
}

func (s *ObjectiveStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM objectives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete objective: %w", err)
	}
	return nil
}
