package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
)

func TestNetWorthService_Compute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	loan := f.addLoan(t)
	f.addRepayment(t, loan.ID)
	_, err := f.svc.Materializer.Run(f.userID, calendar.Date(2024, 1, 15))
	require.NoError(t, err)

	f.addEntry(t, calendar.Date(2024, 1, 2), models.CategoryPaycheck, models.Income, "1000")
	f.addEntry(t, calendar.Date(2024, 1, 3), models.CategoryGroceries, models.Expense, "200")
	f.addLot(t, "ABC", "15", "10")
	_, err = f.svc.Assets.AddAsset(f.userID, NewAsset{Name: "Bike", PurchasePrice: d("500"), YearOfPurchase: 2022})
	require.NoError(t, err)

	today := calendar.Date(2024, 1, 15)
	nw, err := f.svc.NetWorth.Compute(ctx, f.userID, today)
	require.NoError(t, err)

	assert.True(t, d("1000").Equal(nw.Income))
	assert.True(t, d("200").Equal(nw.Expenses), "loan payments are not expenses, got %s", nw.Expenses)
	assert.True(t, d("180").Equal(nw.Portfolio))
	assert.True(t, d("500").Equal(nw.Assets))
	assert.True(t, d("1090").Equal(nw.Liabilities))
	// 1000 - 200 + 180 + 500 - 1090
	assert.True(t, d("390").Equal(nw.Total()), "total = %s", nw.Total())

	history, err := f.svc.NetWorth.History(f.userID, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, d("390").Equal(history[0].NetWorth))

	// Recomputing the same day replaces the sample.
	f.addEntry(t, calendar.Date(2024, 1, 4), models.CategoryOther, models.Income, "10")
	_, err = f.svc.NetWorth.Compute(ctx, f.userID, today)
	require.NoError(t, err)
	history, _ = f.svc.NetWorth.History(f.userID, time.Time{})
	require.Len(t, history, 1)
	assert.True(t, d("400").Equal(history[0].NetWorth))
}

func TestNetWorthService_PriceFailure_RecordsNothing(t *testing.T) {
	f := newFixture(t)
	f.addLot(t, "ABC", "15", "10")
	f.addLot(t, "ZZZ", "1", "1")

	_, err := f.svc.NetWorth.Compute(context.Background(), f.userID, calendar.Date(2024, 1, 15))
	require.Error(t, err)
	assert.True(t, apperrors.IsUnknownSymbol(err))

	history, err := f.svc.NetWorth.History(f.userID, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, history)

	// Net worth never prunes.
	lots, _ := f.svc.Repos.Lots.GetBySymbol(f.userID, "ZZZ")
	assert.Len(t, lots, 1)
}
