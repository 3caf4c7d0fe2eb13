package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cbonnaire/tidyquest/internal/model"
)

const invitationTTL = 7 * 24 * time.Hour

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	var usedAt sql.NullTime

	err := scanner.Scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.Role, &inv.CreatedBy,
		&usedAt, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if usedAt.Valid {
		inv.UsedAt = &usedAt.Time
	}
	return &inv, nil
}

const invitationCols = `id, code, email, role, created_by, used_at, expires_at, created_at`

// Create issues a single-use registration code for the given email.
// A nil createdBy marks a bootstrap invitation minted before any user exists.
func (s *InvitationStore) Create(email, role string, createdBy *int64) (*model.Invitation, error) {
	code := uuid.NewString()
	expiresAt := time.Now().UTC().Add(invitationTTL)

	result, err := s.db.Exec(
		`INSERT INTO invitations (code, email, role, created_by, expires_at) VALUES (?, ?, ?, ?, ?)`,
		code, email, role, createdBy, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

// GetByCode returns the invitation only while it is unused and unexpired.
func (s *InvitationStore) GetByCode(code string) (*model.Invitation, error) {
	row := s.db.QueryRow(
		`SELECT `+invitationCols+` FROM invitations WHERE code = ? AND used_at IS NULL AND expires_at > ?`,
		code, time.Now().UTC(),
	)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation by code: %w", err)
	}
	return inv, nil
}

func (s *InvitationStore) MarkUsed(id int64) error {
	_, err := s.db.Exec(`UPDATE invitations SET used_at = datetime('now') WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	return nil
}

func (s *InvitationStore) List() ([]model.Invitation, error) {
	rows, err := s.db.Query(`SELECT ` + invitationCols + ` FROM invitations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}
