// Package finance holds the pure ledger and projection engine.
// Nothing here touches storage or the network; callers pass snapshots in and persist what comes out.
package finance

import (
	"github.com/shopspring/decimal"

	apperrors "finance_tracker/internal/errors"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
	one         = decimal.NewFromInt(1)
)

// Accrue returns the simple interest on principal at annualRatePct percent per year over elapsedDays.
func Accrue(principal, annualRatePct decimal.Decimal, elapsedDays int) (decimal.Decimal, error) {
	if annualRatePct.IsNegative() {
		return decimal.Zero, apperrors.Newf(apperrors.ErrInvalidRate, "interest rate %s%% is negative", annualRatePct)
	}
	if elapsedDays < 0 {
		return decimal.Zero, apperrors.Newf(apperrors.ErrInvalidElapsed, "elapsed period of %d days is negative", elapsedDays)
	}
	return principal.
		Mul(annualRatePct).
		Mul(decimal.NewFromInt(int64(elapsedDays))).
		Div(hundred.Mul(daysPerYear)), nil
}

// AllocatePayment applies a non-negative payment to interest first, then principal.
// Principal never goes below zero; any excess beyond the total debt is dropped.
func AllocatePayment(payment, interest, principal decimal.Decimal) (newInterest, newPrincipal decimal.Decimal) {
	if payment.LessThanOrEqual(interest) {
		return interest.Sub(payment), principal
	}
	rest := payment.Sub(interest)
	return decimal.Zero, decimal.Max(decimal.Zero, principal.Sub(rest))
}
