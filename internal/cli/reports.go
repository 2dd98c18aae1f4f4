package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"finance_tracker/internal/app"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/report"
)

type refreshCmd struct {
	env *Env
	target
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "materialize commitments and update derived data" }
func (*refreshCmd) Usage() string {
	return `pfm refresh [-user <name>] [-d <date>]

  Materializes due commitments, revalues the portfolio, records today's net
  worth and brings loan statements up to date.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) { c.target.setFlags(f) }

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		r, err := a.Services.Refresh.Run(ctx, userID, today)
		if r != nil {
			if perr := c.env.print(f.Refresh(r)); perr != nil && err == nil {
				err = perr
			}
		}
		return err
	})
}

type netWorthCmd struct {
	env *Env
	target
	record bool
}

func (*netWorthCmd) Name() string     { return "networth" }
func (*netWorthCmd) Synopsis() string { return "display net worth and its history" }
func (*netWorthCmd) Usage() string {
	return `pfm networth [-user <name>] [-d <date>] [-record]

  Displays the current net worth breakdown and the recorded history of the
  past year.
`
}

func (c *netWorthCmd) SetFlags(f *flag.FlagSet) {
	c.target.setFlags(f)
	f.BoolVar(&c.record, "record", false, "record the computed value as the sample for -d")
}

func (c *netWorthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		var nw *finance.NetWorth
		if c.record {
			nw, err = a.Services.NetWorth.Compute(ctx, userID, today)
		} else {
			nw, err = a.Services.NetWorth.Current(ctx, userID)
		}
		if err != nil {
			return err
		}
		history, err := a.Services.NetWorth.History(userID, today.AddDate(-1, 0, 0))
		if err != nil {
			return err
		}
		return c.env.print(f.NetWorth(nw, history))
	})
}

type portfolioCmd struct {
	env *Env
	target
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display portfolio positions and performance" }
func (*portfolioCmd) Usage() string {
	return `pfm portfolio [-user <name>] [-d <date>]

  Values every position at current prices. Symbols the market data provider
  no longer knows are removed.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) { c.target.setFlags(f) }

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		s, err := a.Services.Portfolio.Summary(ctx, userID, today)
		if err != nil {
			return err
		}
		return c.env.print(f.Portfolio(s))
	})
}

type loansCmd struct {
	env *Env
	target
}

func (*loansCmd) Name() string     { return "loans" }
func (*loansCmd) Synopsis() string { return "display loan statements" }
func (*loansCmd) Usage() string {
	return `pfm loans [-user <name>] [-d <date>]

  Displays each loan with interest accrued up to -d. Nothing is written back;
  use refresh for that.
`
}

func (c *loansCmd) SetFlags(f *flag.FlagSet) { c.target.setFlags(f) }

func (c *loansCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		stmts, err := a.Services.Loans.Statements(userID, today, false)
		if err != nil {
			return err
		}
		return c.env.print(f.Loans(stmts))
	})
}

type forecastCmd struct {
	env *Env
	target
	horizon string
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "forecast spending from ledger history" }
func (*forecastCmd) Usage() string {
	return `pfm forecast [-user <name>] [-h day|week|month]

  Projects spending per category over the horizon from the average daily
  spending in the ledger.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	c.target.setFlags(f)
	f.StringVar(&c.horizon, "h", "week", "forecast horizon (day, week, month)")
}

func (c *forecastCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := finance.ParseHorizon(c.horizon)
	if err != nil {
		return c.env.fail(usagef("invalid -h %q: %v", c.horizon, err))
	}
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, _, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		fc, err := a.Services.Reports.Forecast(userID, h)
		if err != nil {
			return err
		}
		return c.env.print(f.Forecast(fc))
	})
}

type cashFlowCmd struct {
	env *Env
	target
}

func (*cashFlowCmd) Name() string     { return "cashflow" }
func (*cashFlowCmd) Synopsis() string { return "display income and expenses for a week" }
func (*cashFlowCmd) Usage() string {
	return `pfm cashflow [-user <name>] [-d <date>]

  Displays daily income and expenses for the Sunday-based week holding -d.
`
}

func (c *cashFlowCmd) SetFlags(f *flag.FlagSet) { c.target.setFlags(f) }

func (c *cashFlowCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, f *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		w, err := a.Services.Reports.WeeklyCashFlow(userID, today)
		if err != nil {
			return err
		}
		return c.env.print(f.CashFlow(w))
	})
}

// lower normalizes a flag value for comparison.
func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
