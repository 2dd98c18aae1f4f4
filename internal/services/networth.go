package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

// NetWorthService computes net worth and keeps its daily history.
type NetWorthService struct {
	repos     *Repositories
	portfolio *PortfolioService
	log       logrus.FieldLogger
}

// NewNetWorthService creates a new NetWorthService.
func NewNetWorthService(repos *Repositories, portfolio *PortfolioService, log logrus.FieldLogger) *NetWorthService {
	return &NetWorthService{repos: repos, portfolio: portfolio, log: log}
}

// Compute aggregates the user's net worth and records it as today's sample.
// Any price that cannot be fetched fails the whole computation and nothing is recorded.
func (s *NetWorthService) Compute(ctx context.Context, userID int64, today time.Time) (*finance.NetWorth, error) {
	nw, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.NetWorth.Upsert(userID, calendar.Day(today), nw.Total()); err != nil {
		return nil, fmt.Errorf("recording net worth: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "net_worth": nw.Total().StringFixed(2)}).Debug("recorded net worth")
	return nw, nil
}

// Current aggregates the user's net worth without recording it.
func (s *NetWorthService) Current(ctx context.Context, userID int64) (*finance.NetWorth, error) {
	entries, err := s.repos.Ledger.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	assets, err := s.repos.Assets.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	loans, err := s.repos.Loans.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	portfolio, err := s.portfolio.Value(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("valuing portfolio: %w", err)
	}

	income, expenses := finance.SumLedger(values(entries))
	return &finance.NetWorth{
		Income:      income,
		Expenses:    expenses,
		Portfolio:   portfolio,
		Assets:      finance.SumAssets(values(assets)),
		Liabilities: finance.SumLiabilities(values(loans)),
	}, nil
}

// History returns the user's samples from the given day on, oldest first.
func (s *NetWorthService) History(userID int64, from time.Time) ([]models.NetWorthSample, error) {
	samples, err := s.repos.NetWorth.History(userID, from)
	if err != nil {
		return nil, fmt.Errorf("getting net worth history: %w", err)
	}
	return samples, nil
}
