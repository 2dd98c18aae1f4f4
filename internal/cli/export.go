package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"finance_tracker/internal/app"
	"finance_tracker/internal/export"
	"finance_tracker/internal/report"
	"finance_tracker/internal/repository"
)

type exportCmd struct {
	env *Env
	target
	what   string
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export ledger entries or net worth history" }
func (*exportCmd) Usage() string {
	return `pfm export [-user <name>] [-what entries|networth] [-format csv|xlsx] [-o <file>]

  Writes the export to -o, or to a dated file in the current directory.
  Net worth history is only available as xlsx.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.target.setFlags(f)
	f.StringVar(&c.what, "what", "entries", "data to export (entries, networth)")
	f.StringVar(&c.format, "format", "csv", "file format (csv, xlsx)")
	f.StringVar(&c.out, "o", "", "output file. Use - for stdout.")
}

// writer picks the renderer for the requested data and format.
func (c *exportCmd) writer(a *app.App, userID int64) (func(io.Writer) error, error) {
	switch {
	case lower(c.what) == "entries" && lower(c.format) == "csv":
		entries, err := a.Services.Ledger.ListEntries(repository.EntryFilter{UserID: userID})
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return export.EntriesCSV(w, entries) }, nil
	case lower(c.what) == "entries" && lower(c.format) == "xlsx":
		entries, err := a.Services.Ledger.ListEntries(repository.EntryFilter{UserID: userID})
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return export.EntriesXLSX(w, entries) }, nil
	case lower(c.what) == "networth" && lower(c.format) == "xlsx":
		history, err := a.Services.NetWorth.History(userID, time.Time{})
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return export.NetWorthXLSX(w, history) }, nil
	}
	return nil, usagef("cannot export %q as %q", c.what, c.format)
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(func(a *app.App, _ *report.Formatter) error {
		userID, today, err := c.resolve(c.env, a)
		if err != nil {
			return err
		}
		render, err := c.writer(a, userID)
		if err != nil {
			return err
		}

		if c.out == "-" {
			return render(c.env.Out)
		}
		path := c.out
		if path == "" {
			path = export.Filename(lower(c.what), lower(c.format), today)
		}
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(file); err != nil {
			file.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
		fmt.Fprintf(c.env.Err, "Wrote %s\n", path)
		return nil
	})
}
