package repository

import (
	"testing"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/models"
)

func TestCommitmentRepository_GetByUserID_EarliestDueFirst(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "alice")
	repo := NewCommitmentRepository(db)

	for _, due := range []int{20, 5, 12} {
		_, err := repo.Create(&models.RecurringCommitment{
			UserID: userID, NextDue: calendar.Date(2024, 1, due), Category: models.CategoryRent,
			Kind: models.Expense, Amount: decimal.NewFromInt(900), Frequency: calendar.Monthly,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.GetByUserID(userID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetByUserID() returned %d commitments, want 3", len(got))
	}
	for i, want := range []string{"2024-01-05", "2024-01-12", "2024-01-20"} {
		if calendar.Format(got[i].NextDue) != want {
			t.Errorf("commitment %d due %s, want %s", i, calendar.Format(got[i].NextDue), want)
		}
	}
	if got[0].LoanID != nil || got[0].Frequency != calendar.Monthly {
		t.Errorf("commitment = %+v, want monthly without loan", got[0])
	}
}

func TestCommitmentRepository_UpdateNextDue(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "alice")
	repo := NewCommitmentRepository(db)

	id, err := repo.Create(&models.RecurringCommitment{
		UserID: userID, NextDue: calendar.Date(2024, 1, 1), Category: models.CategoryPaycheck,
		Kind: models.Income, Amount: decimal.NewFromInt(3000), Frequency: calendar.Weekly,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateNextDue(id, calendar.Date(2024, 1, 8)); err != nil {
		t.Fatalf("UpdateNextDue() error = %v", err)
	}

	c, err := repo.GetByID(id)
	if err != nil || c == nil {
		t.Fatalf("GetByID() = %v, %v", c, err)
	}
	if calendar.Format(c.NextDue) != "2024-01-08" {
		t.Errorf("NextDue = %s, want 2024-01-08", calendar.Format(c.NextDue))
	}

	missing, err := repo.GetByID(id + 100)
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestNetWorthRepository_HistoryFromAndLatest(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "alice")
	repo := NewNetWorthRepository(db)

	latest, err := repo.Latest(userID)
	if err != nil || latest != nil {
		t.Fatalf("Latest() on empty history = %v, %v, want nil, nil", latest, err)
	}

	for i, v := range []string{"100", "150.5", "90"} {
		if err := repo.Upsert(userID, calendar.Date(2024, 1, 1+i), decimal.RequireFromString(v)); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	history, err := repo.History(userID, calendar.Date(2024, 1, 2))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 || calendar.Format(history[0].Date) != "2024-01-02" {
		t.Fatalf("History(from 2024-01-02) = %+v", history)
	}
	if !history[0].NetWorth.Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("first sample = %s, want 150.5", history[0].NetWorth)
	}

	latest, err = repo.Latest(userID)
	if err != nil || latest == nil {
		t.Fatalf("Latest() = %v, %v", latest, err)
	}
	if calendar.Format(latest.Date) != "2024-01-03" || !latest.NetWorth.Equal(decimal.NewFromInt(90)) {
		t.Errorf("Latest() = %s %s, want 2024-01-03 90", calendar.Format(latest.Date), latest.NetWorth)
	}
}
