package model

import "time"

// Member roles. The creator of a household is its sole owner; everyone who
// joins through an invitation is a member.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Household struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HouseholdMember binds a user to a household. The schema enforces at most
// one row per user, so a user's membership is always unambiguous.
type HouseholdMember struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	UserID      int64     `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *HouseholdMember) IsOwner() bool {
	return m.Role == RoleOwner
}
