package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type RankingStore struct {
	db *sql.DB
}

func NewRankingStore(db *sql.DB) *RankingStore {
	return &RankingStore{db: db}
}

func scanRankingEntry(scanner interface{ Scan(...any) error }) (*model.RankingEntry, error) {
	var e model.RankingEntry
	err := scanner.Scan(
		&e.UserID, &e.Name, &e.WeeklyPoints, &e.TotalPoints,
		&e.PreviousPoints, &e.XP, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const rankingQuery = `SELECT r.user_id, u.name, r.weekly_points, r.total_points, r.previous_points, r.xp, r.updated_at
	FROM rankings r JOIN users u ON u.id = r.user_id`

// List returns every participant's counters in user order. Ordering by
// metric happens in the ranking package.
func (s *RankingStore) List() ([]model.RankingEntry, error) {
	rows, err := s.db.Query(rankingQuery + ` ORDER BY r.user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		e, err := scanRankingEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ranking entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *RankingStore) Get(userID int64) (*model.RankingEntry, error) {
	row := s.db.QueryRow(rankingQuery+` WHERE r.user_id = ?`, userID)
	e, err := scanRankingEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ranking entry: %w", err)
	}
	return e, nil
}

// Ensure creates a zeroed counter row for a new participant.
func (s *RankingStore) Ensure(userID int64) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO rankings (user_id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("ensure ranking entry: %w", err)
	}
	return nil
}

// ResetWeek archives the current weekly top 3 as a podium snapshot, copies
// weekly points into previous-week points, and zeroes the weekly counters.
// Everything happens in one transaction. Returns the archived podium, or nil
// when there were no participants to archive.
func (s *RankingStore) ResetWeek(top []model.RankingEntry) (*model.Podium, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var podiumID int64
	if len(top) > 0 {
		second := sql.NullString{}
		secondPts := sql.NullInt64{}
		third := sql.NullString{}
		thirdPts := sql.NullInt64{}
		if len(top) > 1 {
			second = sql.NullString{String: top[1].Name, Valid: true}
			secondPts = sql.NullInt64{Int64: int64(top[1].WeeklyPoints), Valid: true}
		}
		if len(top) > 2 {
			third = sql.NullString{String: top[2].Name, Valid: true}
			thirdPts = sql.NullInt64{Int64: int64(top[2].WeeklyPoints), Valid: true}
		}

		result, err := tx.Exec(
			`INSERT INTO podiums (first_name, first_points, second_name, second_points, third_name, third_points) VALUES (?, ?, ?, ?, ?, ?)`,
			top[0].Name, top[0].WeeklyPoints, second, secondPts, third, thirdPts,
		)
		if err != nil {
			return nil, fmt.Errorf("archive podium: %w", err)
		}
		podiumID, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	}

	_, err = tx.Exec(`UPDATE rankings SET previous_points = weekly_points, weekly_points = 0, updated_at = datetime('now')`)
	if err != nil {
		return nil, fmt.Errorf("reset weekly points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reset: %w", err)
	}

	if podiumID == 0 {
		return nil, nil
	}
	return NewPodiumStore(s.db).GetByID(podiumID)
}
