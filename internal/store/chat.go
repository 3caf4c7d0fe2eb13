package store

import (
	"database/sql"
	"fmt"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type ChatStore struct {
	db *sql.DB
}

func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

func scanChatMessage(scanner interface{ Scan(...any) error }) (*model.ChatMessage, error) {
	var m model.ChatMessage
	err := scanner.Scan(&m.ID, &m.UserID, &m.UserName, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const chatCols = `id, user_id, user_name, body, created_at`

func (s *ChatStore) Create(userID int64, userName, body string) (*model.ChatMessage, error) {
	result, err := s.db.Exec(
		`INSERT INTO chat_messages (user_id, user_name, body) VALUES (?, ?, ?)`,
		userID, userName, body,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+chatCols+` FROM chat_messages WHERE id = ?`, id)
	return scanChatMessage(row)
}

// ListRecent returns the newest messages in chronological order.
func (s *ChatStore) ListRecent(limit int) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT `+chatCols+` FROM (
			SELECT `+chatCols+` FROM chat_messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
