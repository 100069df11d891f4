package store

import (
	"testing"

	"github.com/maplefay/homeplate/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice@example.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice@example.com", "Alice", "password123"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := us.Create("alice@example.com", "Alice Again", "password456"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "password123")

	u, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatal("expected the created user")
	}

	u, err = us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get unknown email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserAuthenticate(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "password123")

	u, err := us.Authenticate("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatal("expected successful authentication")
	}
}

func TestUserAuthenticateWrongPassword(t *testing.T) {
	us := setupUserTestDB(t)

	us.Create("alice@example.com", "Alice", "password123")

	u, err := us.Authenticate("alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u != nil {
		t.Error("expected nil for wrong password")
	}

	u, err = us.Authenticate("nobody@example.com", "password123")
	if err != nil {
		t.Fatalf("authenticate unknown: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserUpdate(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "password123")

	u, err := us.Update(created.ID, "alice@new.com", "Alice B")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Email != "alice@new.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@new.com")
	}
	if u.Name != "Alice B" {
		t.Errorf("name = %q, want %q", u.Name, "Alice B")
	}
}

func TestUserDelete(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice@example.com", "Alice", "password123")

	if err := us.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	u, err := us.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if u != nil {
		t.Error("expected nil after delete")
	}
}
