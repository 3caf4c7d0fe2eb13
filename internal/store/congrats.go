package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type CongratsStore struct {
	db *sql.DB
}

func NewCongratsStore(db *sql.DB) *CongratsStore {
	return &CongratsStore{db: db}
}

func scanCongrats(scanner interface{ Scan(...any) error }) (*model.CongratulatoryMessage, error) {
	var m model.CongratulatoryMessage
	err := scanner.Scan(&m.ID, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const congratsCols = `id, body, created_at`

func (s *CongratsStore) Create(body string) (*model.CongratulatoryMessage, error) {
	result, err := s.db.Exec(`INSERT INTO congratulatory_messages (body) VALUES (?)`, body)
	if err != nil {
		return nil, fmt.Errorf("insert congratulatory message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+congratsCols+` FROM congratulatory_messages WHERE id = ?`, id)
	return scanCongrats(row)
}

func (s *CongratsStore) List() ([]model.CongratulatoryMessage, error) {
	rows, err := s.db.Query(`SELECT ` + congratsCols + ` FROM congratulatory_messages ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list congratulatory messages: %w", err)
	}
	defer rows.Close()

	var messages []model.CongratulatoryMessage
	for rows.Next() {
		m, err := scanCongrats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan congratulatory message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// Random picks one message, or nil when the table is empty.
func (s *CongratsStore) Random() (*model.CongratulatoryMessage, error) {
	row := s.db.QueryRow(`SELECT ` + congratsCols + ` FROM congratulatory_messages ORDER BY RANDOM() LIMIT 1`)
	m, err := scanCongrats(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("random congratulatory message: %w", err)
	}
	return m, nil
}

func (s *CongratsStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM congratulatory_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete congratulatory message: %w", err)
	}
	return nil
}
