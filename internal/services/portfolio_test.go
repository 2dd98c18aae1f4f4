package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
)

func TestPortfolioService_AddLot_ResolvesName(t *testing.T) {
	f := newFixture(t)

	lot, err := f.svc.Portfolio.AddLot(context.Background(), f.userID, NewLot{
		Symbol:        " abc ",
		PurchasePrice: d("10"),
		Quantity:      d("4"),
		PurchaseDate:  calendar.Date(2023, 6, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC", lot.Symbol)
	assert.Equal(t, "ABC Corp", lot.CompanyName)
}

func TestPortfolioService_AddLot_UnknownSymbol_Rejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Portfolio.AddLot(context.Background(), f.userID, NewLot{
		Symbol:        "ZZZZ",
		PurchasePrice: d("10"),
		Quantity:      d("1"),
		PurchaseDate:  calendar.Date(2023, 6, 1),
	})
	assert.True(t, apperrors.IsUnknownSymbol(err))

	lots, _ := f.svc.Portfolio.ListLots(f.userID)
	assert.Empty(t, lots)
}

func TestPortfolioService_Summary_CancelledContext_KeepsLots(t *testing.T) {
	f := newFixture(t)
	f.addLot(t, "ABC", "10", "4")
	f.addLot(t, "ZZZ", "5", "100")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Portfolio.Summary(ctx, f.userID, calendar.Date(2024, 5, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	lots, err := f.svc.Portfolio.ListLots(f.userID)
	require.NoError(t, err)
	assert.Len(t, lots, 2)
}

func TestPortfolioService_Summary_PrunesUnknownSymbols(t *testing.T) {
	f := newFixture(t)
	f.addLot(t, "ABC", "10", "4")
	f.addLot(t, "ABC", "20", "6")
	f.addLot(t, "ZZZ", "5", "100")

	s, err := f.svc.Portfolio.Summary(context.Background(), f.userID, calendar.Date(2024, 5, 1))
	require.NoError(t, err)

	require.Len(t, s.Positions, 1)
	assert.Equal(t, "ABC", s.Positions[0].Symbol)
	assert.Equal(t, []string{"ZZZ"}, s.Pruned)
	assert.True(t, d("180").Equal(s.CurrentValue))
	assert.Equal(t, "5.88", s.DailyPct.StringFixed(2))
	assert.Equal(t, "50.00", s.YearlyPct.StringFixed(2))
	assert.Equal(t, "20.00", s.TotalPct.StringFixed(2))

	lots, _ := f.svc.Repos.Lots.GetBySymbol(f.userID, "ZZZ")
	assert.Empty(t, lots)
}

func TestPortfolioService_SellSymbol(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		realize bool
		kind    models.Kind
		amount  string
	}{
		{"gain", "18", true, models.Income, "30"},
		{"loss", "12", true, models.Expense, "30"},
		{"not realized", "18", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.quotes.Set("ABC", marketdata.StaticQuote{Name: "ABC Corp", Current: d(tt.price), Open: d(tt.price), YearAgoClose: d(tt.price)})
			f.addLot(t, "ABC", "10", "4")
			f.addLot(t, "ABC", "20", "6")

			res, err := f.svc.Portfolio.SellSymbol(context.Background(), f.userID, "abc", tt.realize, calendar.Date(2024, 5, 1))
			require.NoError(t, err)
			assert.Equal(t, int64(2), res.LotsSold)

			lots, _ := f.svc.Portfolio.ListLots(f.userID)
			assert.Empty(t, lots)

			entries, _ := f.svc.Repos.Ledger.GetByUserID(f.userID)
			if !tt.realize {
				assert.Nil(t, res.Entry)
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, tt.kind, entries[0].Kind)
			assert.Equal(t, models.CategoryInvestments, entries[0].Category)
			assert.True(t, d(tt.amount).Equal(entries[0].Amount), "amount = %s", entries[0].Amount)
			assert.Equal(t, "2024-05-01", calendar.Format(entries[0].Date))
		})
	}
}

func TestPortfolioService_SellSymbol_NoLots(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Portfolio.SellSymbol(context.Background(), f.userID, "ABC", true, calendar.Date(2024, 5, 1))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssetService(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.Assets.AddAsset(f.userID, NewAsset{Name: "Bike", PurchasePrice: d("800"), YearOfPurchase: 2021})
	require.NoError(t, err)

	assets, err := f.svc.Assets.ListAssets(f.userID)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	require.NoError(t, f.svc.Assets.DeleteAsset(f.userID, a.ID))
	assert.True(t, apperrors.IsNotFound(f.svc.Assets.DeleteAsset(f.userID, a.ID)))

	_, err = f.svc.Assets.AddAsset(f.userID, NewAsset{Name: "", PurchasePrice: d("1"), YearOfPurchase: 2021})
	assert.True(t, apperrors.IsValidation(err))
}
