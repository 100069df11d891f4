package store

import (
	"testing"

	"github.com/maplefay/homeplate/internal/database"
)

func setupMealTestDB(t *testing.T) (*MealStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h, err := NewHouseholdStore(db).Create("Test Household")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	u, err := NewUserStore(db).Create("alice@example.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewMealStore(db), h.ID, u.ID
}

func TestMealCreate(t *testing.T) {
	ms, hID, uID := setupMealTestDB(t)

	m, err := ms.Create(hID, "Tacos", "2026-08-01", 1250, "taco tuesday", &uID)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if m.Name != "Tacos" {
		t.Errorf("name = %q, want %q", m.Name, "Tacos")
	}
	if m.CostCents != 1250 {
		t.Errorf("cost = %d, want 1250", m.CostCents)
	}
	if m.AddedBy == nil || *m.AddedBy != uID {
		t.Error("expected added_by recorded")
	}
}

func TestMealCreateWithoutUser(t *testing.T) {
	ms, hID, _ := setupMealTestDB(t)

	m, err := ms.Create(hID, "Leftovers", "2026-08-02", 0, "", nil)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if m.AddedBy != nil {
		t.Error("expected nil added_by")
	}
}

func TestMealGetByIDScopedToHousehold(t *testing.T) {
	ms, hID, _ := setupMealTestDB(t)

	created, _ := ms.Create(hID, "Tacos", "2026-08-01", 1250, "", nil)

	m, err := ms.GetByID(created.ID, hID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m == nil {
		t.Fatal("expected meal entry")
	}

	// A different household cannot see it.
	m, err = ms.GetByID(created.ID, hID+1)
	if err != nil {
		t.Fatalf("get with wrong household: %v", err)
	}
	if m != nil {
		t.Error("expected nil for entry outside the household")
	}
}

func TestMealList(t *testing.T) {
	ms, hID, _ := setupMealTestDB(t)

	ms.Create(hID, "Tacos", "2026-08-01", 1250, "", nil)
	ms.Create(hID, "Soup", "2026-08-03", 700, "", nil)

	entries, err := ms.List(hID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest eaten_on first.
	if entries[0].Name != "Soup" {
		t.Errorf("first entry = %q, want %q", entries[0].Name, "Soup")
	}
}

func TestMealUpdate(t *testing.T) {
	ms, hID, _ := setupMealTestDB(t)

	created, _ := ms.Create(hID, "Tacos", "2026-08-01", 1250, "", nil)

	m, err := ms.Update(created.ID, hID, "Fish Tacos", "2026-08-01", 1500, "upgraded")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.Name != "Fish Tacos" || m.CostCents != 1500 {
		t.Errorf("got %q/%d, want Fish Tacos/1500", m.Name, m.CostCents)
	}
}

func TestMealDelete(t *testing.T) {
	ms, hID, _ := setupMealTestDB(t)

	created, _ := ms.Create(hID, "Tacos", "2026-08-01", 1250, "", nil)

	if err := ms.Delete(created.ID, hID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	m, err := ms.GetByID(created.ID, hID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if m != nil {
		t.Error("expected nil after delete")
	}
}
