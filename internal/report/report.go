// Package report renders engine results as markdown for the terminal.
package report

import (
	"fmt"
	"strings"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// NetWorth renders the current net worth breakdown and, when given, its history.
func (f *Formatter) NetWorth(nw *finance.NetWorth, history []models.NetWorthSample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Net Worth: %s\n\n", f.Money(nw.Total()))
	fmt.Fprintln(&b, "| Component | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Income | %s |\n", f.Money(nw.Income))
	fmt.Fprintf(&b, "| Expenses | %s |\n", f.Money(nw.Expenses.Neg()))
	fmt.Fprintf(&b, "| Portfolio | %s |\n", f.Money(nw.Portfolio))
	fmt.Fprintf(&b, "| Assets | %s |\n", f.Money(nw.Assets))
	fmt.Fprintf(&b, "| Liabilities | %s |\n", f.Money(nw.Liabilities.Neg()))

	if len(history) > 0 {
		fmt.Fprintf(&b, "\n## History\n\n")
		fmt.Fprintln(&b, "| Date | Net Worth |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, s := range history {
			fmt.Fprintf(&b, "| %s | %s |\n", calendar.Format(s.Date), f.Money(s.NetWorth))
		}
	}
	return b.String()
}

// Portfolio renders positions with their daily, yearly and total changes.
func (f *Formatter) Portfolio(s *finance.PortfolioSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio: %s\n\n", f.Money(s.CurrentValue))

	if len(s.Positions) == 0 {
		fmt.Fprintln(&b, "No positions.")
	} else {
		fmt.Fprintln(&b, "| Symbol | Name | Quantity | Avg Price | Price | Value | Day | Year | P/L |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
		for _, v := range s.Positions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				v.Symbol,
				v.CompanyName,
				v.Quantity.String(),
				f.Money(v.AvgPurchasePrice),
				f.Money(v.CurrentPrice),
				f.Money(v.CurrentValue),
				f.Signed(v.DailyChange),
				f.Signed(v.YearlyChange),
				f.Signed(v.TotalPL),
			)
		}
	}

	fmt.Fprintf(&b, "\n| | Change | %% |\n|:---|---:|---:|\n")
	fmt.Fprintf(&b, "| Today | %s | %s |\n", f.Signed(s.DailyChange), Percent(s.DailyPct))
	fmt.Fprintf(&b, "| 1 year | %s | %s |\n", f.Signed(s.YearlyChange), Percent(s.YearlyPct))
	fmt.Fprintf(&b, "| Total | %s | %s |\n", f.Signed(s.TotalChange), Percent(s.TotalPct))

	if len(s.Pruned) > 0 {
		fmt.Fprintf(&b, "\n> Removed unresolvable symbols: %s\n", strings.Join(s.Pruned, ", "))
	}
	return b.String()
}

// Loans renders one statement per loan.
func (f *Formatter) Loans(stmts []*finance.LoanStatement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Loans\n\n")
	if len(stmts) == 0 {
		fmt.Fprintln(&b, "No loans.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Loan | Rate | Borrowed | Repaid | Principal | Interest | Next Payment |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|:---|")
	for _, s := range stmts {
		next := "-"
		switch {
		case s.IsRepaid:
			next = "repaid"
		case s.NextRepayment != nil:
			next = calendar.Format(*s.NextRepayment)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			s.Name,
			Percent(s.InterestRate),
			f.Money(s.InitialPrincipal),
			f.Money(s.Repaid),
			f.Money(s.PrincipalToRepay),
			f.Money(s.CurrentInterest),
			next,
		)
	}
	return b.String()
}

// FIRE renders a retirement projection and the inputs it was run with.
func (f *Formatter) FIRE(in finance.FIREInputs, p *finance.Projection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Financial Independence in %d years\n\n", p.Years)

	fmt.Fprintln(&b, "| Input | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Portfolio | %s |\n", f.Money(in.Portfolio))
	fmt.Fprintf(&b, "| Income | %s |\n", f.Money(in.Income))
	fmt.Fprintf(&b, "| Savings rate | %s |\n", Rate(in.SavingsRate))
	fmt.Fprintf(&b, "| Income growth | %s for %d years |\n", Rate(in.IncomeGrowth), in.GrowthYears)
	fmt.Fprintf(&b, "| Expenses | %s |\n", f.Money(in.Expenses))
	fmt.Fprintf(&b, "| Withdrawal rate | %s |\n", Rate(in.WithdrawalRate))
	fmt.Fprintf(&b, "| Return | %s |\n", Rate(in.ROI))
	if in.IncludeLoans {
		fmt.Fprintln(&b, "| Loans | repayments deducted |")
	}

	fmt.Fprintf(&b, "\n## Trajectory\n\n")
	fmt.Fprintln(&b, "| Year | Portfolio |")
	fmt.Fprintln(&b, "|---:|---:|")
	for year, v := range p.Trajectory {
		fmt.Fprintf(&b, "| %d | %s |\n", year, f.Money(v))
	}
	return b.String()
}

// Forecast renders projected spending over a horizon.
func (f *Formatter) Forecast(fc *finance.ExpenseForecast) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Expense Forecast: %s\n\n", f.Money(fc.Total))
	fmt.Fprintf(&b, "Projected spending for the %d day(s) after %s, fitted on %d days of history (%s to %s).\n\n",
		fc.Horizon, calendar.Format(fc.To), fc.HistoryDays, calendar.Format(fc.From), calendar.Format(fc.To))
	fmt.Fprintf(&b, "Daily spend trend: %+.2f per day.\n", fc.Slope)
	return b.String()
}

// CashFlow renders a Sunday-to-Saturday income and expense table.
func (f *Formatter) CashFlow(w *finance.WeeklyCashFlow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Cash Flow: week of %s\n\n", calendar.Format(w.Start))
	fmt.Fprintln(&b, "| Day | Date | Income | Expense |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, d := range w.Days {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Weekday, calendar.Format(d.Date), f.Money(d.Income), f.Money(d.Expense))
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** |\n", f.Money(w.TotalIncome), f.Money(w.TotalExpense))
	return b.String()
}

// Refresh renders the outcome of a refresh pass. Sections for steps that did not run are omitted.
func (f *Formatter) Refresh(r *services.RefreshReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Refresh `%s`\n\n", r.RunID)
	if m := r.Materialize; m != nil {
		fmt.Fprintf(&b, "- %d entries materialized from %d commitments\n", m.EntriesCreated, m.CommitmentsAdvanced)
		if len(m.Abandoned) > 0 {
			fmt.Fprintf(&b, "- %d commitments skipped for missing loans\n", len(m.Abandoned))
		}
	}
	if r.Portfolio != nil && len(r.Portfolio.Pruned) > 0 {
		fmt.Fprintf(&b, "- Pruned symbols: %s\n", strings.Join(r.Portfolio.Pruned, ", "))
	}
	if r.NetWorth != nil {
		fmt.Fprintf(&b, "- Net worth recorded: %s\n", f.Money(r.NetWorth.Total()))
	}
	if len(r.Loans) > 0 {
		fmt.Fprintf(&b, "- %d loan statements updated\n", len(r.Loans))
	}
	return b.String()
}
