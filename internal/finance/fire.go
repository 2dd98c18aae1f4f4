package finance

import (
	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
)

// DefaultMaxYears bounds the FIRE simulation when no cap is given.
const DefaultMaxYears = 300

// FIREInputs are the parameters of a retirement projection. Rates are fractions (0.05 = 5%).
type FIREInputs struct {
	Portfolio      decimal.Decimal `json:"portfolio"`
	Income         decimal.Decimal `json:"income"`
	SavingsRate    decimal.Decimal `json:"savings_rate"`
	IncomeGrowth   decimal.Decimal `json:"income_growth"`
	GrowthYears    int             `json:"growth_years"`
	Expenses       decimal.Decimal `json:"expenses"`
	WithdrawalRate decimal.Decimal `json:"withdrawal_rate"`
	ROI            decimal.Decimal `json:"roi"`
	IncludeLoans   bool            `json:"include_loans"`
}

// LoanSnapshot is a loan as seen by the simulator, with the commitment that repays it.
// A zero Frequency means nothing repays the loan.
type LoanSnapshot struct {
	LoanID    int64
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Rate      decimal.Decimal // Annual, in percent
	Payment   decimal.Decimal
	Frequency calendar.Frequency
}

// AnnualPayment returns the payment scaled to one year.
func (l LoanSnapshot) AnnualPayment() decimal.Decimal {
	return Annualize(l.Payment, l.Frequency)
}

// Annualize scales a per-period amount to a yearly amount.
func Annualize(amount decimal.Decimal, f calendar.Frequency) decimal.Decimal {
	return amount.Abs().Mul(decimal.NewFromInt(f.PeriodsPerYear()))
}

// Projection is the outcome of a successful simulation.
type Projection struct {
	Years int `json:"years"`
	// Trajectory holds the portfolio at the start and after each simulated year.
	Trajectory []decimal.Decimal `json:"trajectory"`
}

// Final returns the portfolio value in the retirement year.
func (p *Projection) Final() decimal.Decimal {
	return p.Trajectory[len(p.Trajectory)-1]
}

// Simulate advances the portfolio a year at a time until the withdrawal rate covers expenses.
// It fails with ErrUnreachableGoal when maxYears pass without reaching the goal.
// The loans slice is not modified.
func Simulate(in FIREInputs, loans []LoanSnapshot, maxYears int) (*Projection, error) {
	if maxYears <= 0 {
		maxYears = DefaultMaxYears
	}

	var state []LoanSnapshot
	if in.IncludeLoans {
		state = append(state, loans...)
	}

	portfolio := in.Portfolio
	income := in.Income
	trajectory := []decimal.Decimal{portfolio}

	for years := 0; years < maxYears; {
		loanExpenses := decimal.Zero
		for i := range state {
			l := &state[i]
			if !l.Principal.IsPositive() {
				continue
			}
			l.Interest = l.Interest.Add(l.Principal.Mul(l.Rate).Div(hundred))
			payment := decimal.Min(l.AnnualPayment(), l.Principal.Add(l.Interest))
			l.Interest, l.Principal = AllocatePayment(payment, l.Interest, l.Principal)
			loanExpenses = loanExpenses.Add(payment)
		}

		if years < in.GrowthYears {
			income = income.Mul(one.Add(in.IncomeGrowth))
		}
		income = decimal.Max(decimal.Zero, income.Sub(loanExpenses))
		savings := income.Mul(in.SavingsRate)

		portfolio = portfolio.Add(savings).Mul(one.Add(in.ROI))
		trajectory = append(trajectory, portfolio)
		years++

		if portfolio.Mul(in.WithdrawalRate).GreaterThanOrEqual(in.Expenses) {
			return &Projection{Years: years, Trajectory: trajectory}, nil
		}
	}

	return nil, apperrors.Newf(apperrors.ErrUnreachableGoal,
		"portfolio does not cover expenses of %s within %d years", in.Expenses.StringFixed(2), maxYears).
		WithDetails(map[string]any{"max_years": maxYears, "final_portfolio": portfolio.StringFixed(2)})
}
