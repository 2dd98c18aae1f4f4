package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

func loanCommitment(loanID int64, due time.Time) models.RecurringCommitment {
	return models.RecurringCommitment{
		ID:        7,
		UserID:    1,
		NextDue:   due,
		Category:  models.CategoryLoan,
		Kind:      models.Expense,
		Amount:    d("110"),
		Frequency: calendar.Monthly,
		LoanID:    &loanID,
	}
}

func TestMaterialize_LoanLinked_FirstOccurrence(t *testing.T) {
	loan := &finance.LoanState{
		ID:             3,
		Principal:      d("1200"),
		Interest:       decimal.Zero,
		Rate:           d("12"),
		LastCalculated: calendar.Date(2024, 1, 1),
	}
	c := loanCommitment(3, calendar.Date(2024, 1, 1))

	exp, err := finance.Materialize(c, loan, calendar.Date(2024, 1, 15))
	require.NoError(t, err)

	require.Len(t, exp.Entries, 1)
	entry := exp.Entries[0]
	assert.Equal(t, "2024-01-01", calendar.Format(entry.Date))
	assert.True(t, d("110").Equal(entry.Amount))
	require.NotNil(t, entry.LoanID)
	assert.Equal(t, int64(3), *entry.LoanID)
	require.NotNil(t, entry.CommitmentID)
	assert.Equal(t, int64(7), *entry.CommitmentID)
	assert.Equal(t, models.Expense, entry.Kind)

	require.NotNil(t, exp.Loan)
	assert.True(t, exp.Loan.Interest.IsZero(), "interest = %s, want 0", exp.Loan.Interest)
	assert.True(t, d("1090").Equal(exp.Loan.Principal), "principal = %s, want 1090", exp.Loan.Principal)
	assert.Equal(t, "2024-01-01", calendar.Format(exp.Loan.LastCalculated))
	assert.True(t, d("110").Equal(exp.RepaidPrincipal))

	// Months are fixed 30-day steps.
	assert.Equal(t, "2024-01-31", calendar.Format(exp.NextDue))

	// Inputs are untouched.
	assert.True(t, d("1200").Equal(loan.Principal))
	assert.Equal(t, "2024-01-01", calendar.Format(c.NextDue))
}

func TestMaterialize_LoanLinked_AccruesBetweenOccurrences(t *testing.T) {
	loan := &finance.LoanState{ID: 3, Principal: d("1200"), Interest: decimal.Zero, Rate: d("12"), LastCalculated: calendar.Date(2024, 1, 1)}
	c := loanCommitment(3, calendar.Date(2024, 1, 1))

	exp, err := finance.Materialize(c, loan, calendar.Date(2024, 2, 1))
	require.NoError(t, err)

	require.Len(t, exp.Entries, 2)
	assert.Equal(t, "2024-01-31", calendar.Format(exp.Entries[1].Date))
	// Second step: 1090 * 12% * 30/365 = 10.7507 interest, the rest goes to principal.
	assert.True(t, exp.Loan.Interest.IsZero())
	assert.Equal(t, "990.7507", exp.Loan.Principal.StringFixed(4))
	assert.Equal(t, "2024-03-01", calendar.Format(exp.NextDue))
	assert.Equal(t, "209.2493", exp.RepaidPrincipal.StringFixed(4))
}

func TestMaterialize_Replay_IsNoOp(t *testing.T) {
	loan := &finance.LoanState{ID: 3, Principal: d("1200"), Interest: decimal.Zero, Rate: d("12"), LastCalculated: calendar.Date(2024, 1, 1)}
	c := loanCommitment(3, calendar.Date(2024, 1, 1))
	today := calendar.Date(2024, 4, 20)

	first, err := finance.Materialize(c, loan, today)
	require.NoError(t, err)
	require.NotEmpty(t, first.Entries)

	c.NextDue = first.NextDue
	second, err := finance.Materialize(c, first.Loan, today)
	require.NoError(t, err)

	assert.Empty(t, second.Entries)
	assert.False(t, second.Advanced())
	assert.True(t, first.Loan.Principal.Equal(second.Loan.Principal))
	assert.True(t, first.Loan.Interest.Equal(second.Loan.Interest))
	assert.Equal(t, first.NextDue, second.NextDue)
	assert.True(t, second.RepaidPrincipal.IsZero())
}

func TestMaterialize_Plain_ExpandsUntilToday(t *testing.T) {
	c := models.RecurringCommitment{
		ID:        2,
		UserID:    1,
		NextDue:   calendar.Date(2024, 3, 1),
		Category:  models.CategoryGroceries,
		Kind:      models.Expense,
		Amount:    d("12.50"),
		Frequency: calendar.Daily,
	}

	exp, err := finance.Materialize(c, nil, calendar.Date(2024, 3, 3))
	require.NoError(t, err)

	require.Len(t, exp.Entries, 3)
	for _, e := range exp.Entries {
		assert.Nil(t, e.LoanID)
		assert.True(t, d("12.50").Equal(e.Amount))
	}
	assert.Nil(t, exp.Loan)
	assert.Equal(t, "2024-03-04", calendar.Format(exp.NextDue))
}

func TestMaterialize_FutureCommitment_NothingDue(t *testing.T) {
	c := models.RecurringCommitment{ID: 2, NextDue: calendar.Date(2024, 6, 1), Kind: models.Income, Amount: d("3000"), Frequency: calendar.Monthly}

	exp, err := finance.Materialize(c, nil, calendar.Date(2024, 5, 31))
	require.NoError(t, err)
	assert.Empty(t, exp.Entries)
	assert.Equal(t, "2024-06-01", calendar.Format(exp.NextDue))
}

func TestMaterialize_NegativeAmount_UsesAbsoluteValue(t *testing.T) {
	loan := &finance.LoanState{ID: 3, Principal: d("500"), Interest: decimal.Zero, Rate: d("0"), LastCalculated: calendar.Date(2024, 1, 1)}
	c := loanCommitment(3, calendar.Date(2024, 1, 1))
	c.Amount = d("-100")

	exp, err := finance.Materialize(c, loan, calendar.Date(2024, 1, 1))
	require.NoError(t, err)
	assert.True(t, d("100").Equal(exp.Entries[0].Amount))
	assert.True(t, d("400").Equal(exp.Loan.Principal))
}

func TestMaterialize_MissingLoan_ReturnsDanglingReference(t *testing.T) {
	c := loanCommitment(99, calendar.Date(2024, 1, 1))

	exp, err := finance.Materialize(c, nil, calendar.Date(2024, 3, 1))
	require.Error(t, err)
	assert.Nil(t, exp)
	assert.ErrorIs(t, err, apperrors.ErrDanglingReference)
}

func TestMaterialize_UnknownFrequency_ReturnsValidation(t *testing.T) {
	c := models.RecurringCommitment{ID: 2, NextDue: calendar.Date(2024, 1, 1), Kind: models.Expense, Amount: d("1"), Frequency: "Hourly"}

	_, err := finance.Materialize(c, nil, calendar.Date(2024, 1, 2))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestMaterialize_OccurrenceBeforeLastCalculated_ReturnsInvalidElapsed(t *testing.T) {
	loan := &finance.LoanState{ID: 3, Principal: d("1000"), Interest: decimal.Zero, Rate: d("5"), LastCalculated: calendar.Date(2024, 2, 1)}
	c := loanCommitment(3, calendar.Date(2024, 1, 1))

	_, err := finance.Materialize(c, loan, calendar.Date(2024, 3, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidElapsed)
}
