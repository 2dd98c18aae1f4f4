package finance

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/models"
)

// Position is all lots of one symbol combined.
type Position struct {
	Symbol           string          `json:"symbol"`
	CompanyName      string          `json:"company_name"`
	AvgPurchasePrice decimal.Decimal `json:"avg_purchase_price"`
	Quantity         decimal.Decimal `json:"quantity"`
	Lots             int             `json:"lots"`
}

// GroupLots combines lots by upper-cased symbol, sorted by symbol.
// The average purchase price is the plain mean of lot prices, not weighted by quantity.
func GroupLots(lots []models.PortfolioLot) []Position {
	type acc struct {
		name     string
		priceSum decimal.Decimal
		qty      decimal.Decimal
		n        int
	}
	bySymbol := make(map[string]*acc)
	for _, lot := range lots {
		sym := strings.ToUpper(lot.Symbol)
		a, ok := bySymbol[sym]
		if !ok {
			a = &acc{name: lot.CompanyName, priceSum: decimal.Zero, qty: decimal.Zero}
			bySymbol[sym] = a
		}
		a.priceSum = a.priceSum.Add(lot.PurchasePrice)
		a.qty = a.qty.Add(lot.Quantity)
		a.n++
	}

	positions := make([]Position, 0, len(bySymbol))
	for sym, a := range bySymbol {
		positions = append(positions, Position{
			Symbol:           sym,
			CompanyName:      a.name,
			AvgPurchasePrice: a.priceSum.Div(decimal.NewFromInt(int64(a.n))),
			Quantity:         a.qty,
			Lots:             a.n,
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})
	return positions
}

// Quote is the market data needed to value a position.
type Quote struct {
	Current      decimal.Decimal
	Open         decimal.Decimal
	YearAgoClose decimal.Decimal
}

// Valuation is a position priced against a quote.
type Valuation struct {
	Position
	CurrentPrice  decimal.Decimal `json:"current_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	DailyChange   decimal.Decimal `json:"daily_change"`
	YearlyChange  decimal.Decimal `json:"yearly_change"`
	TotalPL       decimal.Decimal `json:"total_pl"`
}

// Value prices p against q.
func Value(p Position, q Quote) Valuation {
	return Valuation{
		Position:      p,
		CurrentPrice:  q.Current,
		CurrentValue:  q.Current.Mul(p.Quantity),
		PurchaseValue: p.AvgPurchasePrice.Mul(p.Quantity),
		DailyChange:   q.Current.Sub(q.Open).Mul(p.Quantity),
		YearlyChange:  q.Current.Sub(q.YearAgoClose).Mul(p.Quantity),
		TotalPL:       q.Current.Sub(p.AvgPurchasePrice).Mul(p.Quantity),
	}
}

// PortfolioSummary totals a set of valuations.
type PortfolioSummary struct {
	Positions     []Valuation     `json:"positions"`
	Pruned        []string        `json:"pruned,omitempty"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	PurchaseValue decimal.Decimal `json:"purchase_value"`
	DailyChange   decimal.Decimal `json:"daily_change"`
	YearlyChange  decimal.Decimal `json:"yearly_change"`
	TotalChange   decimal.Decimal `json:"total_change"`
	DailyPct      decimal.Decimal `json:"daily_pct"`
	YearlyPct     decimal.Decimal `json:"yearly_pct"`
	TotalPct      decimal.Decimal `json:"total_pct"`
}

// Summarize adds up valuations and derives percentage changes.
// Daily and yearly percentages are relative to the value before the change.
func Summarize(vals []Valuation) PortfolioSummary {
	s := PortfolioSummary{
		Positions:     vals,
		CurrentValue:  decimal.Zero,
		PurchaseValue: decimal.Zero,
		DailyChange:   decimal.Zero,
		YearlyChange:  decimal.Zero,
		TotalChange:   decimal.Zero,
		DailyPct:      decimal.Zero,
		YearlyPct:     decimal.Zero,
		TotalPct:      decimal.Zero,
	}
	for _, v := range vals {
		s.CurrentValue = s.CurrentValue.Add(v.CurrentValue)
		s.PurchaseValue = s.PurchaseValue.Add(v.PurchaseValue)
		s.DailyChange = s.DailyChange.Add(v.DailyChange)
		s.YearlyChange = s.YearlyChange.Add(v.YearlyChange)
		s.TotalChange = s.TotalChange.Add(v.TotalPL)
	}

	if base := s.CurrentValue.Sub(s.DailyChange); !base.IsZero() {
		s.DailyPct = s.DailyChange.Div(base).Mul(hundred)
	}
	if base := s.CurrentValue.Sub(s.YearlyChange); !base.IsZero() {
		s.YearlyPct = s.YearlyChange.Div(base).Mul(hundred)
	}
	if !s.PurchaseValue.IsZero() {
		s.TotalPct = s.TotalChange.Div(s.PurchaseValue).Mul(hundred)
	}
	return s
}
