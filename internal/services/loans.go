package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

// LoanService manages loans and their statements.
type LoanService struct {
	db    *database.DB
	repos *Repositories
	log   logrus.FieldLogger
}

// NewLoanService creates a new LoanService.
func NewLoanService(db *database.DB, repos *Repositories, log logrus.FieldLogger) *LoanService {
	return &LoanService{db: db, repos: repos, log: log}
}

// CreateLoan opens a loan with no accrued interest, accruing from its signing date.
func (s *LoanService) CreateLoan(userID int64, cmd NewLoan) (*models.Loan, error) {
	if err := Validate(cmd); err != nil {
		return nil, err
	}

	signing := calendar.Day(cmd.SigningDate)
	l := &models.Loan{
		UserID:           userID,
		Name:             cmd.Name,
		Principal:        cmd.Principal,
		InitialPrincipal: cmd.Principal,
		InterestRate:     cmd.InterestRate,
		SigningDate:      signing,
		AccruedInterest:  decimal.Zero,
		LastCalculated:   signing,
	}
	id, err := s.repos.Loans.Create(l)
	if err != nil {
		return nil, fmt.Errorf("creating loan: %w", err)
	}
	return s.repos.Loans.GetByID(id)
}

// ListLoans returns the user's loans.
func (s *LoanService) ListLoans(userID int64) ([]*models.Loan, error) {
	loans, err := s.repos.Loans.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	return loans, nil
}

// DeleteLoan removes a loan together with the commitments repaying it, its payment
// entries and its repaid total.
func (s *LoanService) DeleteLoan(userID, loanID int64) error {
	loan, err := ownedLoan(s.repos.Loans, userID, loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return apperrors.NotFound("loan")
	}

	err = s.db.InTx(func(tx *sql.Tx) error {
		repos := s.repos.WithTx(tx)
		if _, err := repos.Commitments.DeleteByLoanID(loanID); err != nil {
			return fmt.Errorf("deleting commitments: %w", err)
		}
		if _, err := repos.Ledger.DeleteByLoanID(loanID); err != nil {
			return fmt.Errorf("deleting payments: %w", err)
		}
		if err := repos.Loans.Zero(loanID); err != nil {
			return fmt.Errorf("clearing balance: %w", err)
		}
		if err := repos.Loans.Delete(loanID); err != nil {
			return fmt.Errorf("deleting loan: %w", err)
		}
		return repos.Repayments.Delete(loanID)
	})
	if err != nil {
		return fmt.Errorf("deleting loan %d: %w", loanID, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "loan_id": loanID}).Info("deleted loan")
	return nil
}

// Statements computes the statement of every loan of the user as of today.
// When writeBack is set, each loan's accrued interest and last calculated day are
// replaced by the statement's values.
func (s *LoanService) Statements(userID int64, today time.Time, writeBack bool) ([]*finance.LoanStatement, error) {
	loans, err := s.repos.Loans.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}

	statements := make([]*finance.LoanStatement, 0, len(loans))
	for _, l := range loans {
		repaid, err := s.repos.Repayments.Get(l.ID)
		if err != nil {
			return nil, fmt.Errorf("getting repayments of loan %d: %w", l.ID, err)
		}
		next, err := s.repos.Commitments.NextDueForLoan(l.ID)
		if err != nil {
			return nil, fmt.Errorf("getting next repayment of loan %d: %w", l.ID, err)
		}

		st, err := finance.Statement(*l, repaid, next, today)
		if err != nil {
			return nil, fmt.Errorf("loan %d statement: %w", l.ID, err)
		}
		if writeBack {
			if err := s.repos.Loans.UpdateAccrual(l.ID, st.CurrentInterest, st.AsOf); err != nil {
				return nil, fmt.Errorf("updating loan %d: %w", l.ID, err)
			}
		}
		statements = append(statements, st)
	}
	return statements, nil
}
