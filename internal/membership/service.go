package membership

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/maplefay/homeplate/internal/model"
	"github.com/maplefay/homeplate/internal/store"
)

const (
	inviteTTL        = 7 * 24 * time.Hour
	maxTokenAttempts = 5
)

// Service manages the household membership lifecycle: creating households,
// issuing and accepting invite codes, leaving, and tearing a household down
// the moment its last member is gone. Every mutating operation runs as a
// single transaction, so an identity is never observable with zero or two
// memberships mid-switch.
type Service struct {
	db          *sql.DB
	households  *store.HouseholdStore
	invitations *store.InvitationStore
	logger      *slog.Logger
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	return &Service{
		db:          db,
		households:  store.NewHouseholdStore(db),
		invitations: store.NewInvitationStore(db),
		logger:      logger,
	}
}

// AcceptResult reports the outcome of accepting an invite.
type AcceptResult struct {
	Household     *model.Household `json:"household"`
	AlreadyMember bool             `json:"already_member"`
}

// LeaveResult reports whether leaving emptied the household and triggered
// cleanup.
type LeaveResult struct {
	CleanedUp bool `json:"cleaned_up"`
}

// Membership returns the caller's household and member row, or nils if the
// user belongs to no household.
func (s *Service) Membership(ctx context.Context, userID int64) (*model.Household, *model.HouseholdMember, error) {
	if userID == 0 {
		return nil, nil, ErrNotAuthenticated
	}
	member, err := s.households.GetMembershipByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, nil
	}
	household, err := s.households.GetByID(member.HouseholdID)
	if err != nil {
		return nil, nil, err
	}
	return household, member, nil
}

// CreateHousehold creates a household with the caller as its sole owner.
// If the caller already belongs to a household they are switched out of it
// first, with the usual cascade if that empties it.
func (s *Service) CreateHousehold(ctx context.Context, userID int64, name string) (*model.Household, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	var household model.Household
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`INSERT INTO households (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("insert household: %w", err)
		}
		householdID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		if err := s.detachTx(tx, userID, householdID); err != nil {
			return err
		}

		if err := enrollTx(tx, householdID, userID, model.RoleOwner); err != nil {
			return err
		}

		if err := seedDefaultsTx(tx, householdID); err != nil {
			return err
		}

		row := tx.QueryRow(`SELECT id, name, created_at, updated_at FROM households WHERE id = ?`, householdID)
		return row.Scan(&household.ID, &household.Name, &household.CreatedAt, &household.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("household created", "household_id", household.ID, "user_id", userID)
	return &household, nil
}

// IssueInvite mints a join code for the household, or returns the live
// pending one unchanged so repeated calls don't sprawl tokens. Only an owner
// of the household may issue.
func (s *Service) IssueInvite(ctx context.Context, householdID, issuerID int64) (*model.Invitation, error) {
	if issuerID == 0 {
		return nil, ErrNotAuthenticated
	}

	member, err := s.households.GetMember(householdID, issuerID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.IsOwner() {
		return nil, ErrPermissionDenied
	}

	var invID int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		// Reuse a pending, unexpired code if one exists.
		row := tx.QueryRow(
			`SELECT id FROM invitations
			 WHERE household_id = ? AND status = ? AND expires_at > ?
			 ORDER BY created_at DESC LIMIT 1`,
			householdID, model.InviteStatusPending, time.Now().UTC(),
		)
		err := row.Scan(&invID)
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("find pending invitation: %w", err)
		}

		expiresAt := time.Now().UTC().Add(inviteTTL)
		for attempt := 0; ; attempt++ {
			token, err := generateToken()
			if err != nil {
				return err
			}
			result, err := tx.Exec(
				`INSERT INTO invitations (household_id, created_by, token, expires_at) VALUES (?, ?, ?, ?)`,
				householdID, issuerID, token, expiresAt,
			)
			if err != nil {
				// Token collision is vanishingly rare at 80 bits; regenerate.
				if isUniqueViolation(err) && attempt < maxTokenAttempts {
					continue
				}
				return fmt.Errorf("insert invitation: %w", err)
			}
			invID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetByID(invID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("invite issued", "household_id", householdID, "invitation_id", inv.ID, "expires_at", inv.ExpiresAt)
	return inv, nil
}

// AcceptInvite validates a join code and moves the caller into its
// household. Accepting while already a member of that household is an
// idempotent no-op. Accepting while a member elsewhere removes the old
// membership first and cascades the old household away if that emptied it,
// all in the same transaction, so a failure leaves the caller exactly where
// they started.
func (s *Service) AcceptInvite(ctx context.Context, token string, userID int64) (*AcceptResult, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	canonical := CanonicalToken(token)
	if canonical == "" {
		return nil, ErrInvalidInvite
	}

	var result AcceptResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(
			`SELECT id, household_id, status, expires_at FROM invitations WHERE token = ?`,
			canonical,
		)
		var invID, targetID int64
		var status string
		var expiresAt time.Time
		err := row.Scan(&invID, &targetID, &status, &expiresAt)
		if err == sql.ErrNoRows {
			return ErrInvalidInvite
		}
		if err != nil {
			return fmt.Errorf("get invitation by token: %w", err)
		}
		if status != model.InviteStatusPending || !expiresAt.After(time.Now().UTC()) {
			return ErrInvalidInvite
		}

		var currentID int64
		err = tx.QueryRow(`SELECT household_id FROM household_members WHERE user_id = ?`, userID).Scan(&currentID)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("get membership: %w", err)
		}

		if currentID == targetID {
			result.AlreadyMember = true
		} else {
			if currentID != 0 {
				if err := s.detachTx(tx, userID, targetID); err != nil {
					return err
				}
			}
			if err := enrollTx(tx, targetID, userID, model.RoleMember); err != nil {
				return err
			}
			// Codes are reusable; record the latest acceptance without
			// flipping the status.
			if _, err := tx.Exec(
				`UPDATE invitations SET accepted_by = ?, accepted_at = CURRENT_TIMESTAMP WHERE id = ?`,
				userID, invID,
			); err != nil {
				return fmt.Errorf("record acceptance: %w", err)
			}
		}

		result.Household = &model.Household{}
		row = tx.QueryRow(`SELECT id, name, created_at, updated_at FROM households WHERE id = ?`, targetID)
		return row.Scan(&result.Household.ID, &result.Household.Name, &result.Household.CreatedAt, &result.Household.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyMember {
		s.logger.Info("invite accepted", "household_id", result.Household.ID, "user_id", userID)
	}
	return &result, nil
}

// Leave removes the caller from their household. If they were the last
// member, the household and everything it owns is deleted in the same
// transaction and CleanedUp is true.
func (s *Service) Leave(ctx context.Context, userID int64) (*LeaveResult, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	var result LeaveResult
	var householdID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow(`SELECT household_id FROM household_members WHERE user_id = ?`, userID).Scan(&householdID)
		if err == sql.ErrNoRows {
			return ErrNotInHousehold
		}
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM household_members WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

		cleaned, err := cascadeIfEmptyTx(tx, householdID)
		if err != nil {
			return err
		}
		result.CleanedUp = cleaned
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("left household", "household_id", householdID, "user_id", userID, "cleaned_up", result.CleanedUp)
	return &result, nil
}

// DeleteHousehold removes a household and every record it owns. It refuses
// to run while the household still has members: the member count is checked
// inside the deleting transaction, so a join that lands concurrently aborts
// the teardown.
func (s *Service) DeleteHousehold(ctx context.Context, householdID int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM household_members WHERE household_id = ?`, householdID,
		).Scan(&count); err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count != 0 {
			return fmt.Errorf("household %d still has %d member(s)", householdID, count)
		}
		return deleteHouseholdTx(tx, householdID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("household deleted", "household_id", householdID)
	return nil
}

// detachTx removes the user's current membership, if any, and cascades the
// vacated household away if that left it empty. keepID names a household
// that must survive even if logic elsewhere holds its row count at zero
// momentarily (the one the user is about to join or just created).
func (s *Service) detachTx(tx *sql.Tx, userID, keepID int64) error {
	var vacatedID int64
	err := tx.QueryRow(`SELECT household_id FROM household_members WHERE user_id = ?`, userID).Scan(&vacatedID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM household_members WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if vacatedID == keepID {
		return nil
	}

	cleaned, err := cascadeIfEmptyTx(tx, vacatedID)
	if err != nil {
		return err
	}
	if cleaned {
		s.logger.Info("vacated household cleaned up", "household_id", vacatedID, "user_id", userID)
	}
	return nil
}

// enrollTx upserts the membership row. The upsert rides the UNIQUE(user_id)
// constraint, so even a lost race between read and write cannot leave the
// user with two memberships.
func enrollTx(tx *sql.Tx, householdID, userID int64, role string) error {
	_, err := tx.Exec(
		`INSERT INTO household_members (household_id, user_id, role) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   household_id = excluded.household_id,
		   role = excluded.role,
		   joined_at = CURRENT_TIMESTAMP,
		   updated_at = CURRENT_TIMESTAMP`,
		householdID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// cascadeIfEmptyTx deletes the household if its member count, read in this
// transaction, is zero. Returns whether the cascade ran.
func cascadeIfEmptyTx(tx *sql.Tx, householdID int64) (bool, error) {
	var count int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM household_members WHERE household_id = ?`, householdID,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := deleteHouseholdTx(tx, householdID); err != nil {
		return false, err
	}
	return true, nil
}

// deleteHouseholdTx removes every dependent record kind and then the
// household row itself. All statements share the caller's transaction, so
// the teardown is all-or-nothing.
func deleteHouseholdTx(tx *sql.Tx, householdID int64) error {
	stmts := []struct {
		name  string
		query string
	}{
		{"meal entries", `DELETE FROM meal_entries WHERE household_id = ?`},
		{"grocery items", `DELETE FROM grocery_items WHERE household_id = ?`},
		{"preferences", `DELETE FROM preferences WHERE household_id = ?`},
		{"cuisine weights", `DELETE FROM cuisine_weights WHERE household_id = ?`},
		{"disabled items", `DELETE FROM disabled_items WHERE household_id = ?`},
		{"invitations", `DELETE FROM invitations WHERE household_id = ?`},
		{"members", `DELETE FROM household_members WHERE household_id = ?`},
		{"household", `DELETE FROM households WHERE id = ?`},
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt.query, householdID); err != nil {
			return fmt.Errorf("delete %s: %w", stmt.name, err)
		}
	}
	return nil
}

// seedDefaultsTx inserts starter preferences and cuisine weights for a new
// household.
func seedDefaultsTx(tx *sql.Tx, householdID int64) error {
	prefs := []struct {
		key   string
		value string
	}{
		{"currency", "USD"},
		{"week_start", "monday"},
		{"suggestions_enabled", "true"},
	}
	for _, p := range prefs {
		if _, err := tx.Exec(
			`INSERT INTO preferences (household_id, key, value) VALUES (?, ?, ?)`,
			householdID, p.key, p.value,
		); err != nil {
			return fmt.Errorf("seed preference %q: %w", p.key, err)
		}
	}

	cuisines := []string{"American", "Italian", "Mexican", "Chinese", "Indian"}
	for _, c := range cuisines {
		if _, err := tx.Exec(
			`INSERT INTO cuisine_weights (household_id, cuisine, weight) VALUES (?, ?, 1.0)`,
			householdID, c,
		); err != nil {
			return fmt.Errorf("seed cuisine weight %q: %w", c, err)
		}
	}
	return nil
}
