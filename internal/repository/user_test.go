package repository

import (
	"path/filepath"
	"testing"

	"finance_tracker/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *database.DB, name string) int64 {
	t.Helper()
	id, err := NewUserRepository(db).Create(name)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

func TestUserRepository_Create_ValidUser_ReturnsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	id, err := repo.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if id <= 0 {
		t.Errorf("Create() id = %d, want > 0", id)
	}
}

func TestUserRepository_Create_DuplicateName_ReturnsError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.Create("alice"); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := repo.Create("alice"); err == nil {
		t.Error("Create() with duplicate name should return error")
	}
}

func TestUserRepository_GetByName_NotFound_ReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByName("nobody")
	if err != nil {
		t.Fatalf("GetByName() error = %v, want nil", err)
	}
	if user != nil {
		t.Errorf("GetByName() = %v, want nil", user)
	}
}

func TestUserRepository_GetOrCreateByName_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first, err := repo.GetOrCreateByName("bob")
	if err != nil {
		t.Fatalf("GetOrCreateByName() error = %v, want nil", err)
	}
	second, err := repo.GetOrCreateByName("bob")
	if err != nil {
		t.Fatalf("GetOrCreateByName() second error = %v, want nil", err)
	}

	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}

	users, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("GetAll() returned %d users, want 1", len(users))
	}
}

func TestUserRepository_GetByID_ReturnsUser(t *testing.T) {
	db := setupTestDB(t)
	id := createTestUser(t, db, "carol")

	user, err := NewUserRepository(db).GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v, want nil", err)
	}
	if user == nil || user.Name != "carol" {
		t.Errorf("GetByID() = %+v, want carol", user)
	}
	if user != nil && user.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}
