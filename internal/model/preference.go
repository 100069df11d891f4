package model

import "time"

// Preference is a free-form household setting (key/value).
type Preference struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CuisineWeight biases meal suggestions toward or away from a cuisine.
// The scoring itself lives outside this service; the rows are household
// data and are torn down with the household.
type CuisineWeight struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Cuisine     string    `json:"cuisine"`
	Weight      float64   `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisabledItem marks an item the household never wants suggested.
type DisabledItem struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	ItemName    string    `json:"item_name"`
	CreatedAt   time.Time `json:"created_at"`
}
