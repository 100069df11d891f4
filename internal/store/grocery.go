package store

import (
	"database/sql"
	"fmt"

	"github.com/maplefay/homeplate/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanGroceryItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var addedBy sql.NullInt64
	var checked int

	err := scanner.Scan(
		&item.ID, &item.HouseholdID, &item.Name, &item.Quantity,
		&checked, &addedBy, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	if addedBy.Valid {
		item.AddedBy = &addedBy.Int64
	}
	return &item, nil
}

const groceryItemCols = `id, household_id, name, quantity, checked, added_by, created_at`

func (s *GroceryStore) Create(householdID int64, name, quantity string, addedBy *int64) (*model.GroceryItem, error) {
	var by sql.NullInt64
	if addedBy != nil {
		by = sql.NullInt64{Int64: *addedBy, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (household_id, name, quantity, added_by) VALUES (?, ?, ?, ?)`,
		householdID, name, quantity, by,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, householdID)
}

func (s *GroceryStore) GetByID(id, householdID int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(
		`SELECT `+groceryItemCols+` FROM grocery_items WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) List(householdID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+groceryItemCols+` FROM grocery_items WHERE household_id = ? ORDER BY checked ASC, created_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) SetChecked(id, householdID int64, checked bool) (*model.GroceryItem, error) {
	_, err := s.db.Exec(
		`UPDATE grocery_items SET checked = ? WHERE id = ? AND household_id = ?`,
		checked, id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("set grocery item checked: %w", err)
	}
	return s.GetByID(id, householdID)
}

func (s *GroceryStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM grocery_items WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}

func (s *GroceryStore) CountByHousehold(householdID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM grocery_items WHERE household_id = ?`, householdID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count grocery items: %w", err)
	}
	return count, nil
}
