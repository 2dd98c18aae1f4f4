package services

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

func TestReportService_Forecast(t *testing.T) {
	f := newFixture(t)
	f.addEntry(t, calendar.Date(2024, 1, 1), models.CategoryGroceries, models.Expense, "10")
	f.addEntry(t, calendar.Date(2024, 1, 2), models.CategoryGroceries, models.Expense, "20")
	f.addEntry(t, calendar.Date(2024, 1, 3), models.CategoryGroceries, models.Expense, "30")
	f.addEntry(t, calendar.Date(2024, 1, 3), models.CategoryInvestments, models.Expense, "5000")
	f.addEntry(t, calendar.Date(2024, 1, 3), models.CategoryPaycheck, models.Income, "3000")

	tests := []struct {
		h    finance.Horizon
		want string
	}{
		{finance.NextDay, "40"},
		{finance.NextWeek, "490"},
		{finance.NextMonth, "5550"},
	}
	for _, tt := range tests {
		fc, err := f.svc.Reports.Forecast(f.userID, tt.h)
		require.NoError(t, err)
		assert.True(t, d(tt.want).Equal(fc.Total), "horizon %d: total = %s, want %s", tt.h, fc.Total, tt.want)
	}
}

func TestReportService_Forecast_InsufficientHistory(t *testing.T) {
	f := newFixture(t)
	f.addEntry(t, calendar.Date(2024, 1, 1), models.CategoryGroceries, models.Expense, "10")
	f.addEntry(t, calendar.Date(2024, 1, 1), models.CategoryRent, models.Expense, "900")

	_, err := f.svc.Reports.Forecast(f.userID, finance.NextWeek)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientHistory)
}

func TestReportService_WeeklyCashFlow(t *testing.T) {
	f := newFixture(t)
	f.addEntry(t, calendar.Date(2024, 1, 10), models.CategoryGroceries, models.Expense, "99") // previous week
	f.addEntry(t, calendar.Date(2024, 1, 15), models.CategoryGroceries, models.Expense, "50")
	f.addEntry(t, calendar.Date(2024, 1, 19), models.CategoryPaycheck, models.Income, "100")

	w, err := f.svc.Reports.WeeklyCashFlow(f.userID, calendar.Date(2024, 1, 17))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-14", calendar.Format(w.Start))
	assert.Equal(t, time.Monday, w.Days[1].Weekday)
	assert.True(t, d("50").Equal(w.Days[1].Expense))
	assert.True(t, d("100").Equal(w.Days[5].Income))
	assert.True(t, d("50").Equal(w.TotalExpense))
	assert.True(t, d("100").Equal(w.TotalIncome))
	for i, day := range w.Days {
		if i != 1 {
			assert.True(t, day.Expense.IsZero(), "day %d expense = %s", i, day.Expense)
		}
	}
}
