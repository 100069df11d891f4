package model

import "time"

type GroceryItem struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Name        string    `json:"name"`
	Quantity    string    `json:"quantity"`
	Checked     bool      `json:"checked"`
	AddedBy     *int64    `json:"added_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
