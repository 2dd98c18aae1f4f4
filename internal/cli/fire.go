package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"finance_tracker/internal/app"
	"finance_tracker/internal/report"
	"finance_tracker/internal/services"
)

type fireCmd struct {
	env *Env
	target

	decimals     map[string]*string
	growthYears  int
	includeLoans bool
}

func (*fireCmd) Name() string     { return "fire" }
func (*fireCmd) Synopsis() string { return "project the years until financial independence" }
func (*fireCmd) Usage() string {
	return `pfm fire [-user <name>] [-portfolio <amount>] [-income <amount>] [-savings-rate <rate>] ...

  Runs a retirement projection. Inputs not given on the command line are
  derived from the portfolio value and the monthly commitments. Rates are
  fractions, so 0.04 means 4%.
`
}

var fireDecimalFlags = []struct{ name, usage string }{
	{"portfolio", "starting portfolio value"},
	{"income", "yearly income"},
	{"savings-rate", "share of income invested each year"},
	{"income-growth", "yearly income growth"},
	{"expenses", "yearly expenses in retirement"},
	{"withdrawal-rate", "safe withdrawal rate"},
	{"roi", "yearly portfolio return"},
}

func (c *fireCmd) SetFlags(f *flag.FlagSet) {
	c.target.setFlags(f)
	c.decimals = make(map[string]*string, len(fireDecimalFlags))
	for _, d := range fireDecimalFlags {
		c.decimals[d.name] = f.String(d.name, "", d.usage)
	}
	f.IntVar(&c.growthYears, "growth-years", 0, "years the income keeps growing")
	f.BoolVar(&c.includeLoans, "include-loans", false, "deduct loan repayments from savings until each loan is paid off")
}

// apply overrides the derived params with the flags set on the command line.
func (c *fireCmd) apply(f *flag.FlagSet, p *services.FIREParams) error {
	targets := map[string]*decimal.Decimal{
		"portfolio":       &p.Portfolio,
		"income":          &p.Income,
		"savings-rate":    &p.SavingsRate,
		"income-growth":   &p.IncomeGrowth,
		"expenses":        &p.Expenses,
		"withdrawal-rate": &p.WithdrawalRate,
		"roi":             &p.ROI,
	}
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		if dst, ok := targets[fl.Name]; ok {
			v, perr := decimal.NewFromString(*c.decimals[fl.Name])
			if perr != nil {
				err = usagef("invalid -%s %q: not a number", fl.Name, *c.decimals[fl.Name])
				return
			}
			*dst = v
		}
		if fl.Name == "growth-years" {
			p.GrowthYears = c.growthYears
		}
	})
	p.IncludeLoans = c.includeLoans
	return err
}

func (c *fireCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, rf *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		params, err := a.Services.FIRE.Defaults(ctx, userID, today)
		if err != nil {
			return err
		}
		if err := c.apply(f, params); err != nil {
			return err
		}
		p, err := a.Services.FIRE.Run(userID, *params)
		if err != nil {
			return err
		}
		return c.env.print(rf.FIRE(params.Inputs(), p))
	})
}
