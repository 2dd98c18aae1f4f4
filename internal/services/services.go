// Package services contains the business logic of the finance tracker.
// Services load records through the repositories, run the finance engine over them
// and write the results back, using one transaction for every multi-row change.
package services

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/database"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
)

// Repositories bundles the repositories a service may touch.
type Repositories struct {
	Users       *repository.UserRepository
	Ledger      *repository.LedgerRepository
	Commitments *repository.CommitmentRepository
	Loans       *repository.LoanRepository
	Repayments  *repository.RepaymentRepository
	Lots        *repository.LotRepository
	Assets      *repository.AssetRepository
	NetWorth    *repository.NetWorthRepository
	RefreshRuns *repository.RefreshRunRepository
}

// NewRepositories creates every repository over db.
func NewRepositories(db database.Querier) *Repositories {
	return &Repositories{
		Users:       repository.NewUserRepository(db),
		Ledger:      repository.NewLedgerRepository(db),
		Commitments: repository.NewCommitmentRepository(db),
		Loans:       repository.NewLoanRepository(db),
		Repayments:  repository.NewRepaymentRepository(db),
		Lots:        repository.NewLotRepository(db),
		Assets:      repository.NewAssetRepository(db),
		NetWorth:    repository.NewNetWorthRepository(db),
		RefreshRuns: repository.NewRefreshRunRepository(db),
	}
}

// WithTx returns the repositories bound to tx. Refresh runs are recorded outside
// of any transaction so a failed run still leaves its record.
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return &Repositories{
		Users:       r.Users.WithTx(tx),
		Ledger:      r.Ledger.WithTx(tx),
		Commitments: r.Commitments.WithTx(tx),
		Loans:       r.Loans.WithTx(tx),
		Repayments:  r.Repayments.WithTx(tx),
		Lots:        r.Lots.WithTx(tx),
		Assets:      r.Assets.WithTx(tx),
		NetWorth:    r.NetWorth.WithTx(tx),
		RefreshRuns: r.RefreshRuns,
	}
}

// Services holds every service wired over one database and market data provider.
type Services struct {
	Repos        *Repositories
	Ledger       *LedgerService
	Loans        *LoanService
	Portfolio    *PortfolioService
	Assets       *AssetService
	NetWorth     *NetWorthService
	FIRE         *FIREService
	Reports      *ReportService
	Materializer *Materializer
	Refresh      *RefreshService
}

// New wires the services. fireMaxYears caps FIRE simulations.
func New(db *database.DB, provider marketdata.Provider, fireMaxYears int, log logrus.FieldLogger) *Services {
	repos := NewRepositories(db)
	s := &Services{
		Repos:        repos,
		Ledger:       NewLedgerService(db, repos, log),
		Loans:        NewLoanService(db, repos, log),
		Portfolio:    NewPortfolioService(db, repos, provider, log),
		Assets:       NewAssetService(repos),
		Reports:      NewReportService(repos),
		Materializer: NewMaterializer(db, repos, log),
	}
	s.NetWorth = NewNetWorthService(repos, s.Portfolio, log)
	s.FIRE = NewFIREService(repos, s.Portfolio, fireMaxYears)
	s.Refresh = NewRefreshService(repos, s.Materializer, s.Portfolio, s.NetWorth, s.Loans, log)
	return s
}

// ownedLoan loads a loan and checks it belongs to userID.
func ownedLoan(repo *repository.LoanRepository, userID, loanID int64) (*models.Loan, error) {
	loan, err := repo.GetByID(loanID)
	if err != nil {
		return nil, fmt.Errorf("getting loan %d: %w", loanID, err)
	}
	if loan == nil || loan.UserID != userID {
		return nil, nil
	}
	return loan, nil
}

// values copies a slice of records into a slice of values for the finance engine.
func values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}
