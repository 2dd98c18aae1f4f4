package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/app"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/calendar"
	"finance_tracker/internal/config"
)

type harness struct {
	env    *Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		DBPath:       filepath.Join(t.TempDir(), "cli.db"),
		Currency:     "USD",
		FIREMaxYears: 100,
		DemoMode:     true,
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.env = &Env{
		Open:  func() (*app.App, error) { return app.New(cfg, log) },
		Out:   h.stdout,
		Err:   h.stderr,
		Today: func() time.Time { return calendar.Date(2024, 6, 15) },
		Width: 200,
	}
	return h
}

// run executes one command line and returns its exit status.
func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	fs := flag.NewFlagSet("pfm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	commander := subcommands.NewCommander(fs, "pfm")
	commander.Output = io.Discard
	commander.Error = io.Discard
	h.env.Plain = false
	h.env.SetFlags(fs)
	Register(commander, h.env)

	require.NoError(t, fs.Parse(args))
	return commander.Execute(context.Background())
}

func TestToken_PrintsVerifiableHash(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "token"))

	var token, hash string
	for _, line := range strings.Split(strings.TrimSpace(h.stdout.String()), "\n") {
		if v, ok := strings.CutPrefix(line, "token: "); ok {
			token = v
		}
		if v, ok := strings.CutPrefix(line, "API_TOKEN_HASH="); ok {
			hash = v
		}
	}
	require.Len(t, token, 64)
	assert.True(t, auth.CheckToken(token, hash))
}

func TestReports_AfterSeed(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"networth"}, []string{"# Net Worth: $"}},
		{[]string{"portfolio", "-user", "demo"}, []string{"# Portfolio: $", "VTI", "Apple Inc."}},
		{[]string{"loans"}, []string{"# Loans", "Car loan"}},
		{[]string{"forecast", "-h", "month"}, []string{"# Expense Forecast: $", "fitted on"}},
		{[]string{"cashflow", "-d", "2024-06-12"}, []string{"# Cash Flow: week of 2024-06-09"}},
		{[]string{"fire", "-roi", "0.07", "-include-loans"}, []string{"# Financial Independence in", "| Return | 7.00% |", "repayments deducted"}},
		{[]string{"refresh"}, []string{"# Refresh `"}},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			status := h.run(t, append([]string{"-plain"}, tt.args...)...)
			require.Equal(t, subcommands.ExitSuccess, status, "stderr: %s", h.stderr.String())
			for _, want := range tt.want {
				assert.Contains(t, h.stdout.String(), want)
			}
		})
	}
}

func TestRendered_UsesGlamour(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "-plain", "loans"))
	plain := h.stdout.String()

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "loans"))
	rendered := h.stdout.String()
	assert.Contains(t, rendered, "Car loan")
	assert.NotEqual(t, plain, rendered)
	assert.NotContains(t, rendered, "|:---|")
}

func TestExport_WritesFile(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))
	out := filepath.Join(t.TempDir(), "entries.csv")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "export", "-o", out), "stderr: %s", h.stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Category,Kind,Amount"))
	assert.Contains(t, h.stderr.String(), "Wrote "+out)
}

func TestExport_UnsupportedCombination(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))

	status := h.run(t, "export", "-what", "networth", "-format", "csv", "-o", "-")
	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, h.stderr.String(), `cannot export "networth" as "csv"`)
}

func TestUserSelection(t *testing.T) {
	h := newHarness(t)

	// No users yet, so there is nothing to default to.
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "networth"))
	assert.Contains(t, h.stderr.String(), "found 0 users")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "networth", "-user", "bob"))
	assert.Contains(t, h.stderr.String(), `unknown user "bob"`)
}

func TestBadFlags_AreUsageErrors(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "seed"))

	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "forecast", "-h", "year"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "cashflow", "-d", "15/06/2024"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "fire", "-roi", "lots"))
}
