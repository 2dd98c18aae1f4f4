package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/finance"
)

// RefreshReport is everything a "refresh all" pass produced.
type RefreshReport struct {
	RunID       string                    `json:"run_id"`
	Materialize *MaterializeResult        `json:"materialize"`
	Portfolio   *finance.PortfolioSummary `json:"portfolio,omitempty"`
	NetWorth    *finance.NetWorth         `json:"net_worth,omitempty"`
	Loans       []*finance.LoanStatement  `json:"loans,omitempty"`
}

// RefreshService brings a user's derived data up to date.
type RefreshService struct {
	repos        *Repositories
	materializer *Materializer
	portfolio    *PortfolioService
	netWorth     *NetWorthService
	loans        *LoanService
	log          logrus.FieldLogger
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(
	repos *Repositories,
	materializer *Materializer,
	portfolio *PortfolioService,
	netWorth *NetWorthService,
	loans *LoanService,
	log logrus.FieldLogger,
) *RefreshService {
	return &RefreshService{
		repos:        repos,
		materializer: materializer,
		portfolio:    portfolio,
		netWorth:     netWorth,
		loans:        loans,
		log:          log,
	}
}

// Run materializes due commitments, revalues the portfolio (pruning unresolvable symbols),
// records today's net worth and writes back loan statements, in that order.
// The pass is recorded in refresh_runs. A failing step stops the pass; what earlier steps
// committed stays committed.
func (s *RefreshService) Run(ctx context.Context, userID int64, today time.Time) (*RefreshReport, error) {
	report := &RefreshReport{RunID: uuid.NewString()}
	log := s.log.WithFields(logrus.Fields{"user_id": userID, "run_id": report.RunID})

	id, err := s.repos.RefreshRuns.Start(report.RunID, userID)
	if err != nil {
		return nil, fmt.Errorf("starting refresh run: %w", err)
	}

	fail := func(step string, err error) (*RefreshReport, error) {
		entries, pruned := report.counts()
		if ferr := s.repos.RefreshRuns.Fail(id, entries, pruned, err.Error()); ferr != nil {
			log.WithError(ferr).Error("failed to record refresh failure")
		}
		log.WithError(err).WithField("step", step).Error("refresh failed")
		return report, fmt.Errorf("%s: %w", step, err)
	}

	if report.Materialize, err = s.materializer.Run(userID, today); err != nil {
		return fail("materialize", err)
	}
	if report.Portfolio, err = s.portfolio.Summary(ctx, userID, today); err != nil {
		return fail("portfolio", err)
	}
	if report.NetWorth, err = s.netWorth.Compute(ctx, userID, today); err != nil {
		return fail("net worth", err)
	}
	if report.Loans, err = s.loans.Statements(userID, today, true); err != nil {
		return fail("loan statements", err)
	}

	entries, pruned := report.counts()
	if err := s.repos.RefreshRuns.Complete(id, entries, pruned); err != nil {
		log.WithError(err).Error("failed to record refresh completion")
	}
	log.WithFields(logrus.Fields{"entries": entries, "pruned": pruned}).Info("refresh completed")
	return report, nil
}

func (r *RefreshReport) counts() (entries, pruned int) {
	if r.Materialize != nil {
		entries = r.Materialize.EntriesCreated
	}
	if r.Portfolio != nil {
		pruned = len(r.Portfolio.Pruned)
	}
	return entries, pruned
}
