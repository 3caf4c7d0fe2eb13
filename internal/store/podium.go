package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type PodiumStore struct {
	db *sql.DB
}

func NewPodiumStore(db *sql.DB) *PodiumStore {
	return &PodiumStore{db: db}
}

func scanPodium(scanner interface{ Scan(...any) error }) (*model.Podium, error) {
	var p model.Podium
	var secondName, thirdName sql.NullString
	var secondPts, thirdPts sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.ArchivedAt, &p.First.Name, &p.First.Points,
		&secondName, &secondPts, &thirdName, &thirdPts,
	)
	if err != nil {
		return nil, err
	}

	if secondName.Valid {
		p.Second = &model.PodiumPlace{Name: secondName.String, Points: int(secondPts.Int64)}
	}
	if thirdName.Valid {
		p.Third = &model.PodiumPlace{Name: thirdName.String, Points: int(thirdPts.Int64)}
	}
	return &p, nil
}

const podiumCols = `id, archived_at, first_name, first_points, second_name, second_points, third_name, third_points`

func (s *PodiumStore) GetByID(id int64) (*model.Podium, error) {
	row := s.db.QueryRow(`SELECT `+podiumCols+` FROM podiums WHERE id = ?`, id)
	p, err := scanPodium(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get podium: %w", err)
	}
	return p, nil
}

// List returns podium history, newest first.
func (s *PodiumStore) List() ([]model.Podium, error) {
	rows, err := s.db.Query(`SELECT ` + podiumCols + ` FROM podiums ORDER BY archived_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list podiums: %w", err)
	}
	defer rows.Close()

	var podiums []model.Podium
	for rows.Next() {
		p, err := scanPodium(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podium: %w", err)
		}
		podiums = append(podiums, *p)
	}
	return podiums, rows.Err()
}
