package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/maplefay/homeplate/internal/model"
)

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	var acceptedBy sql.NullInt64
	var acceptedAt sql.NullTime

	err := scanner.Scan(
		&inv.ID, &inv.HouseholdID, &inv.CreatedBy, &inv.Token, &inv.Status,
		&inv.ExpiresAt, &acceptedBy, &acceptedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if acceptedBy.Valid {
		inv.AcceptedBy = &acceptedBy.Int64
	}
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return &inv, nil
}

const invitationCols = `id, household_id, created_by, token, status, expires_at, accepted_by, accepted_at, created_at`

// Create persists a pending invitation. The token must already be in
// canonical form.
func (s *InvitationStore) Create(householdID, createdBy int64, token string, expiresAt time.Time) (*model.Invitation, error) {
	result, err := s.db.Exec(
		`INSERT INTO invitations (household_id, created_by, token, expires_at) VALUES (?, ?, ?, ?)`,
		householdID, createdBy, token, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvitationStore) GetByID(id int64) (*model.Invitation, error) {
	row := s.db.QueryRow(`SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetByToken looks up an invitation by its canonical token, regardless of
// status or expiry. Callers decide what an expired or non-pending result
// means.
func (s *InvitationStore) GetByToken(token string) (*model.Invitation, error) {
	row := s.db.QueryRow(`SELECT `+invitationCols+` FROM invitations WHERE token = ?`, token)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation by token: %w", err)
	}
	return inv, nil
}

// GetActiveForHousehold returns the household's pending, unexpired
// invitation, or nil. Used for idempotent reuse when issuing.
func (s *InvitationStore) GetActiveForHousehold(householdID int64) (*model.Invitation, error) {
	row := s.db.QueryRow(
		`SELECT `+invitationCols+` FROM invitations
		 WHERE household_id = ? AND status = ? AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		householdID, model.InviteStatusPending, time.Now().UTC(),
	)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active invitation: %w", err)
	}
	return inv, nil
}

func (s *InvitationStore) ListByHousehold(householdID int64) ([]model.Invitation, error) {
	rows, err := s.db.Query(
		`SELECT `+invitationCols+` FROM invitations WHERE household_id = ? ORDER BY created_at DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invites []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

// RecordAcceptance notes who last accepted the invitation. The status stays
// pending: codes are reusable until their TTL runs out.
func (s *InvitationStore) RecordAcceptance(id, userID int64) error {
	_, err := s.db.Exec(
		`UPDATE invitations SET accepted_by = ?, accepted_at = CURRENT_TIMESTAMP WHERE id = ?`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("record acceptance: %w", err)
	}
	return nil
}

// DeleteExpired removes invitations past their expiry. Housekeeping only;
// correctness never depends on it because expiry is re-checked at read time.
func (s *InvitationStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM invitations WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired invitations: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
