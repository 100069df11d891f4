package store

import (
	"database/sql"
	"fmt"

	"github.com/maplefay/homeplate/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMealEntry(scanner interface{ Scan(...any) error }) (*model.MealEntry, error) {
	var m model.MealEntry
	var addedBy sql.NullInt64
	err := scanner.Scan(
		&m.ID, &m.HouseholdID, &m.Name, &m.EatenOn, &m.CostCents,
		&m.Notes, &addedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if addedBy.Valid {
		m.AddedBy = &addedBy.Int64
	}
	return &m, nil
}

const mealEntryCols = `id, household_id, name, eaten_on, cost_cents, notes, added_by, created_at, updated_at`

func (s *MealStore) Create(householdID int64, name, eatenOn string, costCents int64, notes string, addedBy *int64) (*model.MealEntry, error) {
	var by sql.NullInt64
	if addedBy != nil {
		by = sql.NullInt64{Int64: *addedBy, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO meal_entries (household_id, name, eaten_on, cost_cents, notes, added_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		householdID, name, eatenOn, costCents, notes, by,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, householdID)
}

func (s *MealStore) GetByID(id, householdID int64) (*model.MealEntry, error) {
	row := s.db.QueryRow(
		`SELECT `+mealEntryCols+` FROM meal_entries WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	m, err := scanMealEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal entry: %w", err)
	}
	return m, nil
}

func (s *MealStore) List(householdID int64) ([]model.MealEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+mealEntryCols+` FROM meal_entries WHERE household_id = ? ORDER BY eaten_on DESC, id DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.MealEntry
	for rows.Next() {
		m, err := scanMealEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal entry: %w", err)
		}
		entries = append(entries, *m)
	}
	return entries, rows.Err()
}

func (s *MealStore) Update(id, householdID int64, name, eatenOn string, costCents int64, notes string) (*model.MealEntry, error) {
	_, err := s.db.Exec(
		`UPDATE meal_entries SET name = ?, eaten_on = ?, cost_cents = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		name, eatenOn, costCents, notes, id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal entry: %w", err)
	}
	return s.GetByID(id, householdID)
}

func (s *MealStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM meal_entries WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	if err != nil {
		return fmt.Errorf("delete meal entry: %w", err)
	}
	return nil
}

func (s *MealStore) CountByHousehold(householdID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM meal_entries WHERE household_id = ?`, householdID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count meal entries: %w", err)
	}
	return count, nil
}
