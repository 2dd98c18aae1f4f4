package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"finance_tracker/internal/app"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/calendar"
	"finance_tracker/internal/demo"
	"finance_tracker/internal/report"
	"finance_tracker/internal/services"
)

type seedCmd struct {
	env  *Env
	date string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "load demo data into an empty database" }
func (*seedCmd) Usage() string {
	return `pfm seed [-d <date>]

  Creates the demo user with a year of history ending on -d. Does nothing
  when the database already has users. Demo lots are priced against fixed
  quotes so no network access is needed.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "last day of the demo history, YYYY-MM-DD. Defaults to today.")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today := calendar.Day(c.env.Today())
	if c.date != "" {
		d, err := calendar.Parse(c.date)
		if err != nil {
			return c.env.fail(usagef("invalid -d %q: %v", c.date, err))
		}
		today = d
	}
	return c.env.run(func(a *app.App, _ *report.Formatter) error {
		svc := services.New(a.DB, demo.Quotes(), a.Config.FIREMaxYears, a.Log)
		return demo.NewSeeder(svc, a.Log).SeedIfEmpty(ctx, today)
	})
}

type tokenCmd struct {
	env *Env
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "generate an API token and its hash" }
func (*tokenCmd) Usage() string {
	return `pfm token

  Prints a new API token and the bcrypt hash to put in API_TOKEN_HASH.
  The token itself is not stored anywhere.
`
}

func (*tokenCmd) SetFlags(*flag.FlagSet) {}

func (c *tokenCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	token, err := auth.GenerateToken()
	if err != nil {
		return c.env.fail(err)
	}
	hash, err := auth.HashToken(token)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "token: %s\nAPI_TOKEN_HASH=%s\n", token, hash)
	return subcommands.ExitSuccess
}
