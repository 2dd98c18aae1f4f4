package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
)

// LedgerService manages ledger entries and recurring commitments.
type LedgerService struct {
	db    *database.DB
	repos *Repositories
	log   logrus.FieldLogger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(db *database.DB, repos *Repositories, log logrus.FieldLogger) *LedgerService {
	return &LedgerService{db: db, repos: repos, log: log}
}

// AddEntry records a manual ledger entry. The amount is stored as its absolute value.
func (s *LedgerService) AddEntry(userID int64, cmd NewEntry) (*models.LedgerEntry, error) {
	if err := Validate(cmd); err != nil {
		return nil, err
	}

	e := &models.LedgerEntry{
		UserID:   userID,
		Date:     calendar.Day(cmd.Date),
		Category: cmd.Category,
		Kind:     cmd.Kind,
		Amount:   cmd.Amount.Abs(),
	}
	id, err := s.repos.Ledger.Create(e)
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	return s.repos.Ledger.GetByID(id)
}

// ListEntries returns the user's entries matching the filter, newest first.
func (s *LedgerService) ListEntries(f repository.EntryFilter) ([]*models.LedgerEntry, error) {
	entries, err := s.repos.Ledger.List(f)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// ListEntriesPage returns one page of the user's entries matching the filter.
func (s *LedgerService) ListEntriesPage(f repository.EntryFilter, p repository.Pagination) (*repository.Page[*models.LedgerEntry], error) {
	page, err := s.repos.Ledger.ListPaginated(f, p)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return page, nil
}

// DeleteEntry removes one of the user's entries.
func (s *LedgerService) DeleteEntry(userID, entryID int64) error {
	e, err := s.repos.Ledger.GetByID(entryID)
	if err != nil {
		return fmt.Errorf("getting entry: %w", err)
	}
	if e == nil || e.UserID != userID {
		return apperrors.NotFound("ledger entry")
	}
	if err := s.repos.Ledger.Delete(entryID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return apperrors.NotFound("ledger entry")
		}
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// AddCommitment stores a recurring commitment. A loan-linked commitment must be a
// Loan expense, must point at one of the user's loans and cannot fall due before the
// loan's last accrual date.
func (s *LedgerService) AddCommitment(userID int64, cmd NewCommitment) (*models.RecurringCommitment, error) {
	if err := Validate(cmd); err != nil {
		return nil, err
	}
	freq, err := calendar.ParseFrequency(string(cmd.Frequency))
	if err != nil {
		return nil, apperrors.ValidationField("frequency", err.Error())
	}

	if cmd.LoanID != nil {
		if cmd.Category != models.CategoryLoan {
			return nil, apperrors.ValidationField("category", "a loan repayment must use the Loan category")
		}
		if cmd.Kind != models.Expense {
			return nil, apperrors.ValidationField("kind", "a loan repayment must be an expense")
		}
		loan, err := ownedLoan(s.repos.Loans, userID, *cmd.LoanID)
		if err != nil {
			return nil, err
		}
		if loan == nil {
			return nil, apperrors.ValidationField("loan_id", fmt.Sprintf("loan %d does not exist", *cmd.LoanID))
		}
		if calendar.Day(cmd.NextDue).Before(loan.LastCalculated) {
			return nil, apperrors.ValidationField("next_due_date",
				fmt.Sprintf("a repayment cannot be due before the loan was last accrued on %s", calendar.Format(loan.LastCalculated)))
		}
	}

	c := &models.RecurringCommitment{
		UserID:    userID,
		NextDue:   calendar.Day(cmd.NextDue),
		Category:  cmd.Category,
		Kind:      cmd.Kind,
		Amount:    cmd.Amount.Abs(),
		Frequency: freq,
		LoanID:    cmd.LoanID,
	}
	id, err := s.repos.Commitments.Create(c)
	if err != nil {
		return nil, fmt.Errorf("creating commitment: %w", err)
	}
	return s.repos.Commitments.GetByID(id)
}

// ListCommitments returns the user's commitments, earliest due first.
func (s *LedgerService) ListCommitments(userID int64) ([]*models.RecurringCommitment, error) {
	commitments, err := s.repos.Commitments.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	return commitments, nil
}

// DeleteCommitment removes a commitment. Removing a loan repayment also undoes it:
// the loan returns to its initial principal with no interest, and its repaid total and
// payment entries are deleted.
func (s *LedgerService) DeleteCommitment(userID, commitmentID int64) error {
	c, err := s.repos.Commitments.GetByID(commitmentID)
	if err != nil {
		return fmt.Errorf("getting commitment: %w", err)
	}
	if c == nil || c.UserID != userID {
		return apperrors.NotFound("commitment")
	}

	err = s.db.InTx(func(tx *sql.Tx) error {
		repos := s.repos.WithTx(tx)
		if c.IsLoanLinked() {
			loanID := *c.LoanID
			if err := repos.Loans.Reset(loanID); err != nil {
				return fmt.Errorf("resetting loan %d: %w", loanID, err)
			}
			if err := repos.Repayments.Delete(loanID); err != nil {
				return fmt.Errorf("clearing repayments of loan %d: %w", loanID, err)
			}
			if _, err := repos.Ledger.DeleteByLoanID(loanID); err != nil {
				return fmt.Errorf("deleting payments of loan %d: %w", loanID, err)
			}
		}
		return repos.Commitments.Delete(c.ID)
	})
	if err != nil {
		return fmt.Errorf("deleting commitment %d: %w", commitmentID, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "commitment_id": commitmentID}).Info("deleted commitment")
	return nil
}
