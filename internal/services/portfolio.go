package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
)

// PortfolioService manages portfolio lots and values them against market data.
type PortfolioService struct {
	db       *database.DB
	repos    *Repositories
	provider marketdata.Provider
	log      logrus.FieldLogger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(db *database.DB, repos *Repositories, provider marketdata.Provider, log logrus.FieldLogger) *PortfolioService {
	return &PortfolioService{db: db, repos: repos, provider: provider, log: log}
}

// AddLot records a purchase. The symbol must resolve with the market data provider,
// which also supplies the company name.
func (s *PortfolioService) AddLot(ctx context.Context, userID int64, cmd NewLot) (*models.PortfolioLot, error) {
	cmd.Symbol = strings.ToUpper(strings.TrimSpace(cmd.Symbol))
	if err := Validate(cmd); err != nil {
		return nil, err
	}

	name, err := s.provider.DisplayName(ctx, cmd.Symbol)
	if err != nil {
		return nil, err
	}

	lot := &models.PortfolioLot{
		UserID:        userID,
		Symbol:        cmd.Symbol,
		CompanyName:   name,
		PurchasePrice: cmd.PurchasePrice,
		Quantity:      cmd.Quantity,
		PurchaseDate:  calendar.Day(cmd.PurchaseDate),
	}
	id, err := s.repos.Lots.Create(lot)
	if err != nil {
		return nil, fmt.Errorf("creating lot: %w", err)
	}
	lot.ID = id
	return lot, nil
}

// ListLots returns the user's lots by symbol.
func (s *PortfolioService) ListLots(userID int64) ([]*models.PortfolioLot, error) {
	lots, err := s.repos.Lots.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	return lots, nil
}

// Summary values every position of the user. A symbol the provider cannot resolve is
// treated as delisted: its lots are deleted and it is reported in Pruned. Nothing is
// pruned once ctx is done.
func (s *PortfolioService) Summary(ctx context.Context, userID int64, today time.Time) (*finance.PortfolioSummary, error) {
	lots, err := s.repos.Lots.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}

	var vals []finance.Valuation
	var pruned []string
	for _, pos := range finance.GroupLots(values(lots)) {
		q, err := marketdata.QuoteFor(ctx, s.provider, pos.Symbol, today)
		if err != nil && ctx.Err() != nil {
			// A cancelled caller says nothing about the symbol.
			return nil, fmt.Errorf("quoting %s: %w", pos.Symbol, ctx.Err())
		}
		if apperrors.IsUnknownSymbol(err) {
			if _, err := s.repos.Lots.DeleteBySymbol(userID, pos.Symbol); err != nil {
				return nil, fmt.Errorf("pruning %s: %w", pos.Symbol, err)
			}
			s.log.WithFields(logrus.Fields{"user_id": userID, "symbol": pos.Symbol}).
				WithError(err).Warn("pruned unresolvable symbol")
			pruned = append(pruned, pos.Symbol)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("quoting %s: %w", pos.Symbol, err)
		}
		vals = append(vals, finance.Value(pos, q))
	}

	summary := finance.Summarize(vals)
	summary.Pruned = pruned
	return &summary, nil
}

// Value returns the current market value of the user's lots. Unlike Summary it stops at
// the first symbol that cannot be priced.
func (s *PortfolioService) Value(ctx context.Context, userID int64) (decimal.Decimal, error) {
	lots, err := s.repos.Lots.GetByUserID(userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing lots: %w", err)
	}

	total := decimal.Zero
	for _, pos := range finance.GroupLots(values(lots)) {
		price, err := s.provider.CurrentPrice(ctx, pos.Symbol)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price.Mul(pos.Quantity))
	}
	return total, nil
}

// SaleResult describes a sold position.
type SaleResult struct {
	Symbol     string              `json:"symbol"`
	LotsSold   int64               `json:"lots_sold"`
	ProfitLoss decimal.Decimal     `json:"profit_loss"`
	Entry      *models.LedgerEntry `json:"entry,omitempty"`
}

// SellSymbol removes every lot of a symbol. With realize set, the profit or loss against
// the current price is booked as an Investments entry dated today: income for a gain,
// expense for a loss.
func (s *PortfolioService) SellSymbol(ctx context.Context, userID int64, symbol string, realize bool, today time.Time) (*SaleResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	lots, err := s.repos.Lots.GetBySymbol(userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	if len(lots) == 0 {
		return nil, apperrors.NotFoundf("no lots of %s", symbol)
	}

	result := &SaleResult{Symbol: symbol, ProfitLoss: decimal.Zero}
	var entry *models.LedgerEntry
	if realize {
		price, err := s.provider.CurrentPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
		pos := finance.GroupLots(values(lots))[0]
		result.ProfitLoss = price.Sub(pos.AvgPurchasePrice).Mul(pos.Quantity)

		kind := models.Income
		if result.ProfitLoss.IsNegative() {
			kind = models.Expense
		}
		entry = &models.LedgerEntry{
			UserID:   userID,
			Date:     calendar.Day(today),
			Category: models.CategoryInvestments,
			Kind:     kind,
			Amount:   result.ProfitLoss.Abs(),
		}
	}

	err = s.db.InTx(func(tx *sql.Tx) error {
		repos := s.repos.WithTx(tx)
		n, err := repos.Lots.DeleteBySymbol(userID, symbol)
		if err != nil {
			return err
		}
		result.LotsSold = n
		if entry != nil {
			id, err := repos.Ledger.Create(entry)
			if err != nil {
				return err
			}
			entry.ID = id
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("selling %s: %w", symbol, err)
	}

	result.Entry = entry
	s.log.WithFields(logrus.Fields{"user_id": userID, "symbol": symbol, "realized": realize}).Info("sold position")
	return result, nil
}
