package finance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

func TestGroupLots_CombinesBySymbol(t *testing.T) {
	lots := []models.PortfolioLot{
		{Symbol: "abc", CompanyName: "ABC Corp", PurchasePrice: d("10"), Quantity: d("4"), PurchaseDate: calendar.Date(2023, 1, 2)},
		{Symbol: "XYZ", CompanyName: "XYZ Inc", PurchasePrice: d("100"), Quantity: d("1"), PurchaseDate: calendar.Date(2023, 2, 1)},
		{Symbol: "ABC", CompanyName: "ABC Corp", PurchasePrice: d("20"), Quantity: d("6"), PurchaseDate: calendar.Date(2023, 3, 4)},
	}

	positions := finance.GroupLots(lots)

	require.Len(t, positions, 2)
	abc := positions[0]
	assert.Equal(t, "ABC", abc.Symbol)
	assert.Equal(t, "ABC Corp", abc.CompanyName)
	assert.Equal(t, 2, abc.Lots)
	// Plain mean of lot prices, not weighted by quantity.
	assert.True(t, d("15").Equal(abc.AvgPurchasePrice), "avg = %s", abc.AvgPurchasePrice)
	assert.True(t, d("10").Equal(abc.Quantity))
	assert.Equal(t, "XYZ", positions[1].Symbol)
}

func TestGroupLots_Empty(t *testing.T) {
	assert.Empty(t, finance.GroupLots(nil))
}

func TestValue(t *testing.T) {
	p := finance.Position{Symbol: "ABC", AvgPurchasePrice: d("15"), Quantity: d("10"), Lots: 2}
	q := finance.Quote{Current: d("18"), Open: d("17"), YearAgoClose: d("12")}

	v := finance.Value(p, q)

	assert.True(t, d("180").Equal(v.CurrentValue))
	assert.True(t, d("150").Equal(v.PurchaseValue))
	assert.True(t, d("30").Equal(v.TotalPL))
	assert.True(t, d("10").Equal(v.DailyChange))
	assert.True(t, d("60").Equal(v.YearlyChange))
}

func TestSummarize(t *testing.T) {
	v := finance.Value(
		finance.Position{Symbol: "ABC", AvgPurchasePrice: d("15"), Quantity: d("10")},
		finance.Quote{Current: d("18"), Open: d("17"), YearAgoClose: d("12")},
	)

	s := finance.Summarize([]finance.Valuation{v})

	assert.True(t, d("180").Equal(s.CurrentValue))
	assert.True(t, d("30").Equal(s.TotalChange))
	assert.Equal(t, "5.88", s.DailyPct.StringFixed(2))
	assert.Equal(t, "50.00", s.YearlyPct.StringFixed(2))
	assert.Equal(t, "20.00", s.TotalPct.StringFixed(2))
}

func TestSummarize_Empty_ZeroPercentages(t *testing.T) {
	s := finance.Summarize(nil)

	assert.True(t, s.CurrentValue.IsZero())
	assert.True(t, s.DailyPct.IsZero())
	assert.True(t, s.YearlyPct.IsZero())
	assert.True(t, s.TotalPct.IsZero())
}
