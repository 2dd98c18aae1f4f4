// Package marketdata resolves ticker symbols to prices and company names.
package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/finance"
)

// Provider answers price questions about a ticker symbol.
// Every method fails with an ErrUnknownSymbol error when the symbol cannot be resolved.
type Provider interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	OpeningPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	// HistoricalClose returns the first close on or after asOf.
	HistoricalClose(ctx context.Context, symbol string, asOf time.Time) (decimal.Decimal, error)
	DisplayName(ctx context.Context, symbol string) (string, error)
}

// YearAgo is how far back the yearly change looks.
const YearAgo = 365

// QuoteFor gathers the current, opening and year-ago prices of a symbol.
func QuoteFor(ctx context.Context, p Provider, symbol string, today time.Time) (finance.Quote, error) {
	current, err := p.CurrentPrice(ctx, symbol)
	if err != nil {
		return finance.Quote{}, err
	}
	open, err := p.OpeningPrice(ctx, symbol)
	if err != nil {
		return finance.Quote{}, err
	}
	yearAgo, err := p.HistoricalClose(ctx, symbol, calendar.Day(today).AddDate(0, 0, -YearAgo))
	if err != nil {
		return finance.Quote{}, err
	}
	return finance.Quote{Current: current, Open: open, YearAgoClose: yearAgo}, nil
}
