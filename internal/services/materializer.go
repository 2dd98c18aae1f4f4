package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
)

// MaterializeResult summarizes one materialization pass.
type MaterializeResult struct {
	EntriesCreated      int     `json:"entries_created"`
	CommitmentsAdvanced int     `json:"commitments_advanced"`
	Abandoned           []int64 `json:"abandoned,omitempty"` // Commitments that could not be expanded
}

// Materializer turns due recurring commitments into ledger entries.
type Materializer struct {
	db    *database.DB
	repos *Repositories
	log   logrus.FieldLogger
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(db *database.DB, repos *Repositories, log logrus.FieldLogger) *Materializer {
	return &Materializer{db: db, repos: repos, log: log}
}

// Run materializes every commitment of the user that is due on or before today.
// Each commitment is written in its own transaction: the new entries, the loan balance,
// the repaid total and the advanced cursor commit together or not at all.
// Running it twice for the same day changes nothing the second time. A commitment that
// points at a missing loan, or is due before its loan was last accrued, is left untouched
// and reported in Abandoned.
func (m *Materializer) Run(userID int64, today time.Time) (*MaterializeResult, error) {
	today = calendar.Day(today)
	commitments, err := m.repos.Commitments.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("getting commitments: %w", err)
	}

	result := &MaterializeResult{}
	for _, c := range commitments {
		if c.NextDue.After(today) {
			continue
		}
		log := m.log.WithFields(logrus.Fields{"user_id": userID, "commitment_id": c.ID})

		created := 0
		err := m.db.InTx(func(tx *sql.Tx) error {
			repos := m.repos.WithTx(tx)

			var state *finance.LoanState
			if c.IsLoanLinked() {
				loan, err := ownedLoan(repos.Loans, userID, *c.LoanID)
				if err != nil {
					return err
				}
				state = finance.LoanStateOf(loan)
			}

			exp, err := finance.Materialize(*c, state, today)
			if err != nil {
				return err
			}

			for i := range exp.Entries {
				ok, err := repos.Ledger.InsertMaterialized(&exp.Entries[i])
				if err != nil {
					return fmt.Errorf("inserting entry for %s: %w", calendar.Format(exp.Entries[i].Date), err)
				}
				if ok {
					created++
				}
			}

			if exp.Loan != nil {
				if err := repos.Loans.UpdateBalance(exp.Loan.ID, exp.Loan.Principal, exp.Loan.Interest, exp.Loan.LastCalculated); err != nil {
					return fmt.Errorf("updating loan %d: %w", exp.Loan.ID, err)
				}
				if err := repos.Repayments.Add(exp.Loan.ID, exp.RepaidPrincipal); err != nil {
					return fmt.Errorf("recording repayment on loan %d: %w", exp.Loan.ID, err)
				}
			}

			if err := repos.Commitments.UpdateNextDue(c.ID, exp.NextDue); err != nil {
				return fmt.Errorf("advancing commitment: %w", err)
			}
			return nil
		})

		switch {
		case err == nil:
			result.EntriesCreated += created
			result.CommitmentsAdvanced++
		case apperrors.IsDanglingReference(err):
			log.WithError(err).Warn("skipping commitment with missing loan")
			result.Abandoned = append(result.Abandoned, c.ID)
		case apperrors.IsInvalidElapsed(err):
			log.WithError(err).Warn("skipping commitment due before its loan was last accrued")
			result.Abandoned = append(result.Abandoned, c.ID)
		default:
			return result, fmt.Errorf("materializing commitment %d: %w", c.ID, err)
		}
	}

	if result.EntriesCreated > 0 {
		m.log.WithFields(logrus.Fields{
			"user_id":     userID,
			"entries":     result.EntriesCreated,
			"commitments": result.CommitmentsAdvanced,
		}).Info("materialized recurring commitments")
	}
	return result, nil
}
