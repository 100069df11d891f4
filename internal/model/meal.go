package model

import "time"

// MealEntry is one logged meal with its cost, scoped to a household.
type MealEntry struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Name        string    `json:"name"`
	EatenOn     string    `json:"eaten_on"` // YYYY-MM-DD
	CostCents   int64     `json:"cost_cents"`
	Notes       string    `json:"notes"`
	AddedBy     *int64    `json:"added_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
