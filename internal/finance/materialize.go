package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
)

// LoanState is the slice of a loan that materialization reads and rewrites.
type LoanState struct {
	ID             int64
	Principal      decimal.Decimal
	Interest       decimal.Decimal
	Rate           decimal.Decimal
	LastCalculated time.Time
}

// LoanStateOf snapshots a stored loan.
func LoanStateOf(l *models.Loan) *LoanState {
	if l == nil {
		return nil
	}
	return &LoanState{
		ID:             l.ID,
		Principal:      l.Principal,
		Interest:       l.AccruedInterest,
		Rate:           l.InterestRate,
		LastCalculated: calendar.Day(l.LastCalculated),
	}
}

// Expansion is the result of materializing one commitment.
type Expansion struct {
	Entries []models.LedgerEntry
	// Loan is the updated loan, nil for plain commitments.
	Loan *LoanState
	// NextDue is the first occurrence strictly after today.
	NextDue time.Time
	// RepaidPrincipal is how much principal the new entries paid off.
	RepaidPrincipal decimal.Decimal
}

// Advanced reports whether any occurrence was materialized.
func (e *Expansion) Advanced() bool {
	return len(e.Entries) > 0
}

// Materialize expands c into one entry per occurrence due on or before today.
// For loan-linked commitments each occurrence accrues interest on the current principal from
// the loan's last calculated day, then pays interest first and principal second.
// The inputs are not modified.
func Materialize(c models.RecurringCommitment, loan *LoanState, today time.Time) (*Expansion, error) {
	if !c.Frequency.Valid() {
		return nil, apperrors.ValidationField("frequency", fmt.Sprintf("commitment %d has unknown frequency %q", c.ID, c.Frequency))
	}
	if c.IsLoanLinked() && loan == nil {
		return nil, apperrors.Newf(apperrors.ErrDanglingReference, "commitment %d references missing loan %d", c.ID, *c.LoanID)
	}

	today = calendar.Day(today)
	due := calendar.Day(c.NextDue)
	amount := c.Amount.Abs()
	commitmentID := c.ID

	exp := &Expansion{RepaidPrincipal: decimal.Zero}
	var state LoanState
	if c.IsLoanLinked() {
		state = *loan
	}

	for !due.After(today) {
		if c.IsLoanLinked() {
			accrued, err := Accrue(state.Principal, state.Rate, calendar.DaysBetween(state.LastCalculated, due))
			if err != nil {
				return nil, fmt.Errorf("accruing loan %d to %s: %w", state.ID, calendar.Format(due), err)
			}
			interest, principal := AllocatePayment(amount, state.Interest.Add(accrued), state.Principal)
			exp.RepaidPrincipal = exp.RepaidPrincipal.Add(state.Principal.Sub(principal))
			state.Interest = interest
			state.Principal = principal
			state.LastCalculated = due
		}

		entry := models.LedgerEntry{
			UserID:       c.UserID,
			Date:         due,
			Category:     c.Category,
			Kind:         c.Kind,
			Amount:       amount,
			CommitmentID: &commitmentID,
		}
		if c.IsLoanLinked() {
			loanID := state.ID
			entry.LoanID = &loanID
		}
		exp.Entries = append(exp.Entries, entry)

		due = calendar.Advance(due, c.Frequency)
	}

	exp.NextDue = due
	if c.IsLoanLinked() {
		exp.Loan = &state
	}
	return exp, nil
}
