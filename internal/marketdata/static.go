package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finance_tracker/internal/errors"
)

// StaticQuote is a fixed answer for one symbol.
type StaticQuote struct {
	Name         string
	Current      decimal.Decimal
	Open         decimal.Decimal
	YearAgoClose decimal.Decimal
}

// Static serves fixed quotes. It backs demo mode and offline runs.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]StaticQuote
}

// NewStatic creates a Static provider from quotes keyed by symbol.
func NewStatic(quotes map[string]StaticQuote) *Static {
	s := &Static{quotes: make(map[string]StaticQuote, len(quotes))}
	for sym, q := range quotes {
		s.quotes[strings.ToUpper(sym)] = q
	}
	return s
}

// Set adds or replaces the quote for symbol.
func (s *Static) Set(symbol string, q StaticQuote) {
	s.mu.Lock()
	s.quotes[strings.ToUpper(symbol)] = q
	s.mu.Unlock()
}

// Remove forgets symbol, as if it were delisted.
func (s *Static) Remove(symbol string) {
	s.mu.Lock()
	delete(s.quotes, strings.ToUpper(symbol))
	s.mu.Unlock()
}

func (s *Static) quote(ctx context.Context, symbol string) (StaticQuote, error) {
	if err := ctx.Err(); err != nil {
		return StaticQuote{}, apperrors.UnknownSymbol(symbol, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[strings.ToUpper(symbol)]
	if !ok {
		return StaticQuote{}, apperrors.UnknownSymbol(symbol, nil)
	}
	return q, nil
}

func (s *Static) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := s.quote(ctx, symbol)
	return q.Current, err
}

func (s *Static) OpeningPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := s.quote(ctx, symbol)
	return q.Open, err
}

func (s *Static) HistoricalClose(ctx context.Context, symbol string, _ time.Time) (decimal.Decimal, error) {
	q, err := s.quote(ctx, symbol)
	return q.YearAgoClose, err
}

func (s *Static) DisplayName(ctx context.Context, symbol string) (string, error) {
	q, err := s.quote(ctx, symbol)
	return q.Name, err
}
