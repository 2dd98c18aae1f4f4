package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/models"
)

// LoanStatement is the displayed state of a loan as of a day.
type LoanStatement struct {
	LoanID           int64           `json:"loan_id"`
	Name             string          `json:"name"`
	InitialPrincipal decimal.Decimal `json:"initial_principal"`
	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	CurrentInterest  decimal.Decimal `json:"current_interest"`
	Repaid           decimal.Decimal `json:"repaid"`
	PrincipalToRepay decimal.Decimal `json:"principal_to_repay"`
	IsRepaid         bool            `json:"is_repaid"`
	NextRepayment    *time.Time      `json:"next_repayment,omitempty"`
	// AsOf becomes the loan's last calculated day when the statement is written back.
	AsOf time.Time `json:"as_of"`
}

// Statement accrues interest on the loan's initial principal from its last calculated day to today.
// A loan whose last calculated day is after today accrues nothing and keeps its cursor.
// nextDue is the earliest cursor among the commitments repaying the loan, if any.
func Statement(loan models.Loan, repaid decimal.Decimal, nextDue *time.Time, today time.Time) (*LoanStatement, error) {
	today = calendar.Day(today)
	asOf := today
	accrued := decimal.Zero
	if last := calendar.Day(loan.LastCalculated); last.After(today) {
		asOf = last
	} else {
		var err error
		accrued, err = Accrue(loan.InitialPrincipal, loan.InterestRate, calendar.DaysBetween(last, today))
		if err != nil {
			return nil, err
		}
	}

	toRepay := decimal.Max(decimal.Zero, loan.InitialPrincipal.Sub(repaid))
	return &LoanStatement{
		LoanID:           loan.ID,
		Name:             loan.Name,
		InitialPrincipal: loan.InitialPrincipal,
		Principal:        loan.Principal,
		InterestRate:     loan.InterestRate,
		CurrentInterest:  decimal.Max(decimal.Zero, loan.AccruedInterest.Add(accrued)),
		Repaid:           repaid,
		PrincipalToRepay: toRepay,
		IsRepaid:         toRepay.IsZero(),
		NextRepayment:    nextDue,
		AsOf:             asOf,
	}, nil
}
