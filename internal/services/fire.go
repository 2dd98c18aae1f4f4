package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

// FIREService runs retirement projections for a user.
type FIREService struct {
	repos     *Repositories
	portfolio *PortfolioService
	maxYears  int
}

// NewFIREService creates a new FIREService. maxYears caps every simulation.
func NewFIREService(repos *Repositories, portfolio *PortfolioService, maxYears int) *FIREService {
	if maxYears <= 0 {
		maxYears = finance.DefaultMaxYears
	}
	return &FIREService{repos: repos, portfolio: portfolio, maxYears: maxYears}
}

// Default assumptions for a new projection.
var (
	DefaultSavingsRate    = decimal.RequireFromString("0.40")
	DefaultIncomeGrowth   = decimal.RequireFromString("0.02")
	DefaultGrowthYears    = 20
	DefaultWithdrawalRate = decimal.RequireFromString("0.04")
	DefaultROI            = decimal.RequireFromString("0.05")
)

// Defaults derives starting parameters from the user's data: the portfolio's current value
// and the annualized Paycheck commitments as income. Expenses are what the default savings
// rate leaves of that income.
func (s *FIREService) Defaults(ctx context.Context, userID int64, today time.Time) (*FIREParams, error) {
	summary, err := s.portfolio.Summary(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	commitments, err := s.repos.Commitments.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	income := decimal.Zero
	for _, c := range commitments {
		if c.Category == models.CategoryPaycheck {
			income = income.Add(finance.Annualize(c.Amount, c.Frequency))
		}
	}

	return &FIREParams{
		Portfolio:      summary.CurrentValue,
		Income:         income,
		SavingsRate:    DefaultSavingsRate,
		IncomeGrowth:   DefaultIncomeGrowth,
		GrowthYears:    DefaultGrowthYears,
		Expenses:       income.Mul(decimal.NewFromInt(1).Sub(DefaultSavingsRate)).Round(2),
		WithdrawalRate: DefaultWithdrawalRate,
		ROI:            DefaultROI,
	}, nil
}

// Run validates params and simulates until retirement.
// With IncludeLoans set, every loan of the user is repaid from income by the first
// commitment linked to it.
func (s *FIREService) Run(userID int64, params FIREParams) (*finance.Projection, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	var snapshots []finance.LoanSnapshot
	if params.IncludeLoans {
		var err error
		if snapshots, err = s.loanSnapshots(userID); err != nil {
			return nil, err
		}
	}
	return finance.Simulate(params.Inputs(), snapshots, s.maxYears)
}

func (s *FIREService) loanSnapshots(userID int64) ([]finance.LoanSnapshot, error) {
	loans, err := s.repos.Loans.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}

	snapshots := make([]finance.LoanSnapshot, 0, len(loans))
	for _, l := range loans {
		snap := finance.LoanSnapshot{
			LoanID:    l.ID,
			Principal: l.Principal,
			Interest:  l.AccruedInterest,
			Rate:      l.InterestRate,
			Payment:   decimal.Zero,
		}
		linked, err := s.repos.Commitments.GetByLoanID(l.ID)
		if err != nil {
			return nil, fmt.Errorf("listing commitments of loan %d: %w", l.ID, err)
		}
		if len(linked) > 0 {
			snap.Payment = linked[0].Amount
			snap.Frequency = linked[0].Frequency
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
