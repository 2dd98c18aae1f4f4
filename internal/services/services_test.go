package services

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
)

type fixture struct {
	db     *database.DB
	svc    *Services
	quotes *marketdata.Static
	userID int64
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	quotes := marketdata.NewStatic(map[string]marketdata.StaticQuote{
		"ABC": {Name: "ABC Corp", Current: d("18"), Open: d("17"), YearAgoClose: d("12")},
	})
	svc := New(db, quotes, 50, quietLogger())

	userID, err := svc.Repos.Users.Create("alice")
	require.NoError(t, err)

	return &fixture{db: db, svc: svc, quotes: quotes, userID: userID}
}

// addLoan opens the loan used across the scenarios: 1200 at 12% signed 2024-01-01.
func (f *fixture) addLoan(t *testing.T) *models.Loan {
	t.Helper()
	loan, err := f.svc.Loans.CreateLoan(f.userID, NewLoan{
		Name:         "Car",
		Principal:    d("1200"),
		InterestRate: d("12"),
		SigningDate:  calendar.Date(2024, 1, 1),
	})
	require.NoError(t, err)
	return loan
}

// addRepayment links a monthly 110 repayment to loanID, first due 2024-01-01.
func (f *fixture) addRepayment(t *testing.T, loanID int64) *models.RecurringCommitment {
	t.Helper()
	c, err := f.svc.Ledger.AddCommitment(f.userID, NewCommitment{
		NextDue:   calendar.Date(2024, 1, 1),
		Category:  models.CategoryLoan,
		Kind:      models.Expense,
		Amount:    d("110"),
		Frequency: calendar.Monthly,
		LoanID:    &loanID,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) addEntry(t *testing.T, date time.Time, category string, kind models.Kind, amount string) *models.LedgerEntry {
	t.Helper()
	e, err := f.svc.Ledger.AddEntry(f.userID, NewEntry{Date: date, Category: category, Kind: kind, Amount: d(amount)})
	require.NoError(t, err)
	return e
}

func (f *fixture) addLot(t *testing.T, symbol, price, qty string) {
	t.Helper()
	_, err := f.svc.Repos.Lots.Create(&models.PortfolioLot{
		UserID:        f.userID,
		Symbol:        symbol,
		CompanyName:   symbol + " Corp",
		PurchasePrice: d(price),
		Quantity:      d(qty),
		PurchaseDate:  calendar.Date(2023, 6, 1),
	})
	require.NoError(t, err)
}
