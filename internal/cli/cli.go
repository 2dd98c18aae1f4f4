// Package cli implements the pfm command line tool. Every command opens the
// configured database, runs one service operation and prints the result as
// markdown, rendered for the terminal unless -plain is set.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"finance_tracker/internal/app"
	"finance_tracker/internal/calendar"
	"finance_tracker/internal/config"
	"finance_tracker/internal/report"
)

// Env is what every command shares: how to open the application and where to write.
type Env struct {
	Open  func() (*app.App, error)
	Out   io.Writer
	Err   io.Writer
	Today func() time.Time

	Plain bool
	Width int
}

// NewEnv returns an Env that opens the application from the environment configuration.
func NewEnv(stdout, stderr io.Writer) *Env {
	return &Env{
		Open: func() (*app.App, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
			log.SetOutput(stderr)
			return app.New(cfg, log)
		},
		Out:   stdout,
		Err:   stderr,
		Today: calendar.Today,
		Width: 100,
	}
}

// SetFlags registers the flags every command understands.
func (e *Env) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&e.Plain, "plain", false, "print raw markdown instead of rendering it")
	f.IntVar(&e.Width, "width", e.Width, "word wrap width of rendered output")
}

// Register adds every command to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&refreshCmd{env: env}, "ledger")
	c.Register(&netWorthCmd{env: env}, "reports")
	c.Register(&portfolioCmd{env: env}, "reports")
	c.Register(&loansCmd{env: env}, "reports")
	c.Register(&forecastCmd{env: env}, "reports")
	c.Register(&cashFlowCmd{env: env}, "reports")
	c.Register(&fireCmd{env: env}, "reports")
	c.Register(&exportCmd{env: env}, "ledger")
	c.Register(&seedCmd{env: env}, "admin")
	c.Register(&tokenCmd{env: env}, "admin")
}

// print writes md to Out, through glamour unless Plain is set.
func (e *Env) print(md string) error {
	if e.Plain {
		_, err := io.WriteString(e.Out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(e.Width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(e.Out, out)
	return err
}

// fail reports err and returns the matching exit status.
func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// run opens the application, calls fn and closes it again.
func (e *Env) run(fn func(a *app.App, f *report.Formatter) error) subcommands.ExitStatus {
	a, err := e.Open()
	if err != nil {
		return e.fail(err)
	}
	defer a.Close()

	if err := fn(a, report.NewFormatter(a.Config.Currency)); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}

// usageError marks errors caused by bad flags.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// target holds the flags that pick whose data a command reads and as of which day.
type target struct {
	user string
	date string
}

func (t *target) setFlags(f *flag.FlagSet) {
	f.StringVar(&t.user, "user", "", "user name. Defaults to the only user if there is one.")
	f.StringVar(&t.date, "d", "", "day to report as of, YYYY-MM-DD. Defaults to today.")
}

// resolve returns the selected user's ID and the reporting day.
func (t *target) resolve(e *Env, a *app.App) (int64, time.Time, error) {
	today := calendar.Day(e.Today())
	if t.date != "" {
		d, err := calendar.Parse(t.date)
		if err != nil {
			return 0, time.Time{}, usagef("invalid -d %q: %v", t.date, err)
		}
		today = d
	}

	users := a.Services.Repos.Users
	if t.user == "" {
		all, err := users.GetAll()
		if err != nil {
			return 0, time.Time{}, err
		}
		if len(all) != 1 {
			return 0, time.Time{}, usagef("found %d users, pick one with -user", len(all))
		}
		return all[0].ID, today, nil
	}

	u, err := users.GetByName(t.user)
	if err != nil {
		return 0, time.Time{}, err
	}
	if u == nil {
		return 0, time.Time{}, usagef("unknown user %q", t.user)
	}
	return u.ID, today, nil
}
