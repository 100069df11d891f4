package model

import "time"

// Invitation statuses. An invitation is never flipped to expired by a
// background job; expiry is computed from expires_at whenever it is read.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

// Invitation is a shareable join code for a household. Codes are reusable:
// accepting one records who accepted it last but leaves it pending, so it
// keeps working until its expiry passes.
type Invitation struct {
	ID          int64      `json:"id"`
	HouseholdID int64      `json:"household_id"`
	CreatedBy   int64      `json:"created_by"`
	Token       string     `json:"token"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedBy  *int64     `json:"accepted_by,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Expired reports whether the invitation's TTL has elapsed as of now.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// EffectiveStatus derives the status to show callers. The stored status
// column is not trusted for expiry.
func (i *Invitation) EffectiveStatus(now time.Time) string {
	if i.Status == InviteStatusPending && i.Expired(now) {
		return InviteStatusExpired
	}
	return i.Status
}
