package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
)

// flakyProvider times out on every price request.
type flakyProvider struct {
	*marketdata.Static
}

func (flakyProvider) CurrentPrice(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("i/o timeout")
}

func TestRefreshService_Run(t *testing.T) {
	f := newFixture(t)
	loan := f.addLoan(t)
	f.addRepayment(t, loan.ID)
	f.addLot(t, "ABC", "15", "10")
	f.addLot(t, "ZZZ", "1", "1")

	today := calendar.Date(2024, 1, 15)
	report, err := f.svc.Refresh.Run(context.Background(), f.userID, today)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Materialize.EntriesCreated)
	assert.Equal(t, []string{"ZZZ"}, report.Portfolio.Pruned)
	require.NotNil(t, report.NetWorth)
	// 0 - 0 + 180 + 0 - 1090; the repayment is not an expense.
	assert.True(t, d("-910").Equal(report.NetWorth.Total()), "total = %s", report.NetWorth.Total())
	require.Len(t, report.Loans, 1)

	run, err := f.svc.Repos.RefreshRuns.GetByRunID(report.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.RefreshSuccess, run.Status)
	assert.Equal(t, 1, run.EntriesMaterialized)
	assert.Equal(t, 1, run.SymbolsPruned)

	// The statement write-back moved the accrual cursor to today.
	got, _ := f.svc.Repos.Loans.GetByID(loan.ID)
	assert.Equal(t, "2024-01-15", calendar.Format(got.LastCalculated))

	history, _ := f.svc.NetWorth.History(f.userID, time.Time{})
	assert.Len(t, history, 1)
}

func TestRefreshService_Run_PriceFailure_KeepsMaterialization(t *testing.T) {
	f := newFixture(t)
	f.svc = New(f.db, flakyProvider{f.quotes}, 50, quietLogger())
	_, err := f.svc.Ledger.AddCommitment(f.userID, NewCommitment{
		NextDue:   calendar.Date(2024, 1, 1),
		Category:  models.CategoryRent,
		Kind:      models.Expense,
		Amount:    d("900"),
		Frequency: calendar.Monthly,
	})
	require.NoError(t, err)
	f.addLot(t, "ABC", "15", "10")

	report, err := f.svc.Refresh.Run(context.Background(), f.userID, calendar.Date(2024, 1, 15))
	require.Error(t, err)
	require.NotNil(t, report)

	runs, err := f.svc.Repos.RefreshRuns.GetByUserID(f.userID, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RefreshError, runs[0].Status)
	assert.Contains(t, runs[0].ErrorMessage, "timeout")
	assert.Equal(t, 1, runs[0].EntriesMaterialized)

	entries, _ := f.svc.Repos.Ledger.GetByUserID(f.userID)
	assert.Len(t, entries, 1)
	history, _ := f.svc.NetWorth.History(f.userID, time.Time{})
	assert.Empty(t, history)
}

func TestRefreshService_Run_RepaymentAddedAfterRefresh(t *testing.T) {
	f := newFixture(t)
	loan := f.addLoan(t)
	f.addLot(t, "ABC", "15", "10")

	_, err := f.svc.Refresh.Run(context.Background(), f.userID, calendar.Date(2024, 1, 15))
	require.NoError(t, err)

	// The refresh moved the loan's accrual cursor past this due date.
	_, err = f.svc.Ledger.AddCommitment(f.userID, NewCommitment{
		NextDue:   calendar.Date(2024, 1, 10),
		Category:  models.CategoryLoan,
		Kind:      models.Expense,
		Amount:    d("110"),
		Frequency: calendar.Monthly,
		LoanID:    &loan.ID,
	})
	require.Error(t, err)

	_, err = f.svc.Ledger.AddCommitment(f.userID, NewCommitment{
		NextDue:   calendar.Date(2024, 1, 20),
		Category:  models.CategoryLoan,
		Kind:      models.Expense,
		Amount:    d("110"),
		Frequency: calendar.Monthly,
		LoanID:    &loan.ID,
	})
	require.NoError(t, err)

	report, err := f.svc.Refresh.Run(context.Background(), f.userID, calendar.Date(2024, 1, 25))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Materialize.EntriesCreated)
	assert.Empty(t, report.Materialize.Abandoned)

	history, _ := f.svc.NetWorth.History(f.userID, time.Time{})
	assert.Len(t, history, 2)
}
