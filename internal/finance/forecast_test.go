package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

func expense(date time.Time, category, amount string) models.LedgerEntry {
	return models.LedgerEntry{Date: date, Category: category, Kind: models.Expense, Amount: d(amount)}
}

func linearHistory() []models.LedgerEntry {
	return []models.LedgerEntry{
		expense(calendar.Date(2024, 3, 1), models.CategoryGroceries, "10"),
		expense(calendar.Date(2024, 3, 2), models.CategoryGroceries, "15"),
		expense(calendar.Date(2024, 3, 2), models.CategoryTransport, "5"),
		expense(calendar.Date(2024, 3, 3), models.CategoryRent, "30"),
		// Ignored: income and investments.
		{Date: calendar.Date(2024, 3, 2), Category: models.CategoryPaycheck, Kind: models.Income, Amount: d("999")},
		expense(calendar.Date(2024, 3, 3), models.CategoryInvestments, "500"),
	}
}

func TestForecastExpenses_Horizons(t *testing.T) {
	tests := []struct {
		horizon finance.Horizon
		want    string
	}{
		{finance.NextDay, "40"},
		{finance.NextWeek, "490"},
		{finance.NextMonth, "5550"},
	}
	for _, tt := range tests {
		f, err := finance.ForecastExpenses(linearHistory(), tt.horizon)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Total.String(), "horizon %d", tt.horizon)
		assert.InDelta(t, 10.0, f.Slope, 1e-9)
		assert.InDelta(t, 10.0, f.Intercept, 1e-9)
		assert.Equal(t, 3, f.HistoryDays)
		assert.Equal(t, "2024-03-04", calendar.Format(f.From))
	}
}

func TestForecastExpenses_MissingDaysCountAsZero(t *testing.T) {
	entries := []models.LedgerEntry{
		expense(calendar.Date(2024, 3, 1), models.CategoryGroceries, "10"),
		expense(calendar.Date(2024, 3, 3), models.CategoryGroceries, "30"),
	}

	f, err := finance.ForecastExpenses(entries, finance.NextDay)
	require.NoError(t, err)

	assert.Equal(t, 3, f.HistoryDays)
	assert.InDelta(t, 10.0, f.Slope, 1e-9)
	assert.Equal(t, "33.33", f.Total.StringFixed(2))
}

func TestForecastExpenses_InsufficientHistory(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LedgerEntry
	}{
		{name: "no entries", entries: nil},
		{name: "one day", entries: []models.LedgerEntry{
			expense(calendar.Date(2024, 3, 1), models.CategoryGroceries, "10"),
			expense(calendar.Date(2024, 3, 1), models.CategoryRent, "800"),
		}},
		{name: "only investments", entries: []models.LedgerEntry{
			expense(calendar.Date(2024, 3, 1), models.CategoryInvestments, "10"),
			expense(calendar.Date(2024, 3, 2), models.CategoryInvestments, "10"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := finance.ForecastExpenses(tt.entries, finance.NextWeek)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInsufficientHistory)
		})
	}
}

func TestParseHorizon(t *testing.T) {
	for in, want := range map[string]finance.Horizon{"day": 1, "Week": 7, " month ": 30, "7": 7} {
		got, err := finance.ParseHorizon(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := finance.ParseHorizon("year")
	assert.True(t, apperrors.IsValidation(err))
}
