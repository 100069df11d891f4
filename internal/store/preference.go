package store

import (
	"database/sql"
	"fmt"

	"github.com/maplefay/homeplate/internal/model"
)

// PreferenceStore covers the three suggestion-tuning record kinds scoped to
// a household: key/value preferences, cuisine weights, and disabled items.
type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// --- Preferences ---

func scanPreference(scanner interface{ Scan(...any) error }) (*model.Preference, error) {
	var p model.Preference
	err := scanner.Scan(&p.ID, &p.HouseholdID, &p.Key, &p.Value, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const preferenceCols = `id, household_id, key, value, created_at, updated_at`

// Set upserts a preference keyed on (household, key).
func (s *PreferenceStore) Set(householdID int64, key, value string) (*model.Preference, error) {
	_, err := s.db.Exec(
		`INSERT INTO preferences (household_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(household_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		householdID, key, value,
	)
	if err != nil {
		return nil, fmt.Errorf("set preference: %w", err)
	}
	return s.Get(householdID, key)
}

func (s *PreferenceStore) Get(householdID int64, key string) (*model.Preference, error) {
	row := s.db.QueryRow(
		`SELECT `+preferenceCols+` FROM preferences WHERE household_id = ? AND key = ?`,
		householdID, key,
	)
	p, err := scanPreference(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return p, nil
}

func (s *PreferenceStore) List(householdID int64) ([]model.Preference, error) {
	rows, err := s.db.Query(
		`SELECT `+preferenceCols+` FROM preferences WHERE household_id = ? ORDER BY key ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []model.Preference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, *p)
	}
	return prefs, rows.Err()
}

// --- Cuisine weights ---

func scanCuisineWeight(scanner interface{ Scan(...any) error }) (*model.CuisineWeight, error) {
	var cw model.CuisineWeight
	err := scanner.Scan(&cw.ID, &cw.HouseholdID, &cw.Cuisine, &cw.Weight, &cw.CreatedAt, &cw.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cw, nil
}

const cuisineWeightCols = `id, household_id, cuisine, weight, created_at, updated_at`

func (s *PreferenceStore) SetCuisineWeight(householdID int64, cuisine string, weight float64) (*model.CuisineWeight, error) {
	_, err := s.db.Exec(
		`INSERT INTO cuisine_weights (household_id, cuisine, weight) VALUES (?, ?, ?)
		 ON CONFLICT(household_id, cuisine) DO UPDATE SET weight = excluded.weight, updated_at = CURRENT_TIMESTAMP`,
		householdID, cuisine, weight,
	)
	if err != nil {
		return nil, fmt.Errorf("set cuisine weight: %w", err)
	}
	row := s.db.QueryRow(
		`SELECT `+cuisineWeightCols+` FROM cuisine_weights WHERE household_id = ? AND cuisine = ?`,
		householdID, cuisine,
	)
	return scanCuisineWeight(row)
}

func (s *PreferenceStore) ListCuisineWeights(householdID int64) ([]model.CuisineWeight, error) {
	rows, err := s.db.Query(
		`SELECT `+cuisineWeightCols+` FROM cuisine_weights WHERE household_id = ? ORDER BY cuisine ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cuisine weights: %w", err)
	}
	defer rows.Close()

	var weights []model.CuisineWeight
	for rows.Next() {
		cw, err := scanCuisineWeight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cuisine weight: %w", err)
		}
		weights = append(weights, *cw)
	}
	return weights, rows.Err()
}

func (s *PreferenceStore) DeleteCuisineWeight(householdID int64, cuisine string) error {
	_, err := s.db.Exec(
		`DELETE FROM cuisine_weights WHERE household_id = ? AND cuisine = ?`,
		householdID, cuisine,
	)
	if err != nil {
		return fmt.Errorf("delete cuisine weight: %w", err)
	}
	return nil
}

// --- Disabled items ---

func scanDisabledItem(scanner interface{ Scan(...any) error }) (*model.DisabledItem, error) {
	var d model.DisabledItem
	err := scanner.Scan(&d.ID, &d.HouseholdID, &d.ItemName, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const disabledItemCols = `id, household_id, item_name, created_at`

func (s *PreferenceStore) DisableItem(householdID int64, itemName string) (*model.DisabledItem, error) {
	_, err := s.db.Exec(
		`INSERT INTO disabled_items (household_id, item_name) VALUES (?, ?)
		 ON CONFLICT(household_id, item_name) DO NOTHING`,
		householdID, itemName,
	)
	if err != nil {
		return nil, fmt.Errorf("disable item: %w", err)
	}
	row := s.db.QueryRow(
		`SELECT `+disabledItemCols+` FROM disabled_items WHERE household_id = ? AND item_name = ?`,
		householdID, itemName,
	)
	return scanDisabledItem(row)
}

func (s *PreferenceStore) EnableItem(householdID int64, itemName string) error {
	_, err := s.db.Exec(
		`DELETE FROM disabled_items WHERE household_id = ? AND item_name = ?`,
		householdID, itemName,
	)
	if err != nil {
		return fmt.Errorf("enable item: %w", err)
	}
	return nil
}

func (s *PreferenceStore) ListDisabledItems(householdID int64) ([]model.DisabledItem, error) {
	rows, err := s.db.Query(
		`SELECT `+disabledItemCols+` FROM disabled_items WHERE household_id = ? ORDER BY item_name ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list disabled items: %w", err)
	}
	defer rows.Close()

	var items []model.DisabledItem
	for rows.Next() {
		d, err := scanDisabledItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan disabled item: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// CountByHousehold sums all three record kinds for a household.
func (s *PreferenceStore) CountByHousehold(householdID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT
		   (SELECT COUNT(*) FROM preferences WHERE household_id = ?) +
		   (SELECT COUNT(*) FROM cuisine_weights WHERE household_id = ?) +
		   (SELECT COUNT(*) FROM disabled_items WHERE household_id = ?)`,
		householdID, householdID, householdID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count preference records: %w", err)
	}
	return count, nil
}
