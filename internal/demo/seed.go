// Package demo provides demo data seeding for demonstration deployments.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// UserName is the name of the seeded demo user.
const UserName = "demo"

// Quotes returns the fixed quotes demo deployments price against.
func Quotes() *marketdata.Static {
	return marketdata.NewStatic(map[string]marketdata.StaticQuote{
		"VTI":  {Name: "Vanguard Total Stock Market ETF", Current: dec("268.40"), Open: dec("266.95"), YearAgoClose: dec("231.10")},
		"AAPL": {Name: "Apple Inc.", Current: dec("227.15"), Open: dec("229.80"), YearAgoClose: dec("189.30")},
		"MSFT": {Name: "Microsoft Corporation", Current: dec("418.60"), Open: dec("415.20"), YearAgoClose: dec("402.75")},
		"BND":  {Name: "Vanguard Total Bond Market ETF", Current: dec("72.85"), Open: dec("72.90"), YearAgoClose: dec("71.40")},
	})
}

// Seeder seeds the database with demo data.
type Seeder struct {
	svc *services.Services
	log logrus.FieldLogger
}

// NewSeeder creates a new demo data seeder.
func NewSeeder(svc *services.Services, log logrus.FieldLogger) *Seeder {
	return &Seeder{svc: svc, log: log}
}

// SeedIfEmpty seeds demo data if the database has no users yet.
func (s *Seeder) SeedIfEmpty(ctx context.Context, today time.Time) error {
	users, err := s.svc.Repos.Users.GetAll()
	if err != nil {
		return err
	}

	if len(users) > 0 {
		s.log.Info("Database already has users, skipping demo seed")
		return nil
	}

	s.log.Info("Seeding demo data...")
	return s.Seed(ctx, today)
}

// Seed creates the demo user with a year of history ending today.
func (s *Seeder) Seed(ctx context.Context, today time.Time) error {
	today = calendar.Day(today)
	start := today.AddDate(-1, 0, 0)

	userID, err := s.svc.Repos.Users.Create(UserName)
	if err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}
	log := s.log.WithField("user_id", userID)
	log.Info("Created demo user")

	loan, err := s.svc.Loans.CreateLoan(userID, services.NewLoan{
		Name:         "Car loan",
		Principal:    dec("18000"),
		InterestRate: dec("6.5"),
		SigningDate:  start,
	})
	if err != nil {
		return fmt.Errorf("creating loan: %w", err)
	}

	commitments := []services.NewCommitment{
		{NextDue: start, Category: models.CategoryPaycheck, Kind: models.Income, Amount: dec("4200"), Frequency: calendar.Monthly},
		{NextDue: start, Category: models.CategoryRent, Kind: models.Expense, Amount: dec("1450"), Frequency: calendar.Monthly},
		{NextDue: start.AddDate(0, 0, 3), Category: models.CategoryUtilities, Kind: models.Expense, Amount: dec("165"), Frequency: calendar.Monthly},
		{NextDue: start.AddDate(0, 0, 5), Category: models.CategoryLoan, Kind: models.Expense, Amount: dec("420"), Frequency: calendar.Monthly, LoanID: &loan.ID},
	}
	for _, c := range commitments {
		if _, err := s.svc.Ledger.AddCommitment(userID, c); err != nil {
			return fmt.Errorf("creating %s commitment: %w", c.Category, err)
		}
	}
	log.WithField("count", len(commitments)).Info("Created commitments")

	entries := generateEntries(start, today)
	for _, e := range entries {
		if _, err := s.svc.Ledger.AddEntry(userID, e); err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}
	log.WithField("count", len(entries)).Info("Created ledger entries")

	lots := []services.NewLot{
		{Symbol: "VTI", PurchasePrice: dec("224.50"), Quantity: dec("40"), PurchaseDate: start.AddDate(0, 1, 0)},
		{Symbol: "VTI", PurchasePrice: dec("251.10"), Quantity: dec("15"), PurchaseDate: start.AddDate(0, 7, 0)},
		{Symbol: "AAPL", PurchasePrice: dec("182.00"), Quantity: dec("12"), PurchaseDate: start.AddDate(0, 2, 0)},
		{Symbol: "MSFT", PurchasePrice: dec("405.25"), Quantity: dec("6"), PurchaseDate: start.AddDate(0, 4, 0)},
		{Symbol: "BND", PurchasePrice: dec("70.90"), Quantity: dec("60"), PurchaseDate: start.AddDate(0, 3, 0)},
	}
	for _, l := range lots {
		if _, err := s.svc.Portfolio.AddLot(ctx, userID, l); err != nil {
			return fmt.Errorf("creating %s lot: %w", l.Symbol, err)
		}
	}
	log.WithField("count", len(lots)).Info("Created portfolio lots")

	assets := []services.NewAsset{
		{Name: "Road bike", PurchasePrice: dec("2400"), YearOfPurchase: today.Year() - 2},
		{Name: "Laptop", PurchasePrice: dec("1800"), YearOfPurchase: today.Year() - 1},
	}
	for _, a := range assets {
		if _, err := s.svc.Assets.AddAsset(userID, a); err != nil {
			return fmt.Errorf("creating asset %q: %w", a.Name, err)
		}
	}

	if _, err := s.svc.Materializer.Run(userID, today); err != nil {
		return fmt.Errorf("materializing commitments: %w", err)
	}

	nw, err := s.svc.NetWorth.Compute(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("computing net worth: %w", err)
	}

	// Backfill monthly samples climbing towards today's value.
	current := nw.Total()
	for m := 12; m >= 1; m-- {
		step := decimal.NewFromInt(int64(m))
		sample := current.Sub(step.Mul(dec("850"))).Round(2)
		if err := s.svc.Repos.NetWorth.Upsert(userID, today.AddDate(0, -m, 0), sample); err != nil {
			return fmt.Errorf("recording net worth history: %w", err)
		}
	}

	log.WithField("net_worth", current.StringFixed(2)).Info("Demo data seeded")
	return nil
}

var groceryAmounts = []string{"64.20", "81.35", "47.90", "102.15", "58.60", "73.05"}

// generateEntries creates a deterministic history of day-to-day spending.
func generateEntries(start, end time.Time) []services.NewEntry {
	var entries []services.NewEntry
	week := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		entries = append(entries, services.NewEntry{
			Date:     d.AddDate(0, 0, 1),
			Category: models.CategoryGroceries,
			Kind:     models.Expense,
			Amount:   dec(groceryAmounts[week%len(groceryAmounts)]),
		})
		if week%2 == 0 {
			entries = append(entries, services.NewEntry{
				Date:     d.AddDate(0, 0, 4),
				Category: models.CategoryTransport,
				Kind:     models.Expense,
				Amount:   dec("38.50"),
			})
		}
		if week%3 == 1 {
			entries = append(entries, services.NewEntry{
				Date:     d.AddDate(0, 0, 5),
				Category: models.CategoryEntertainment,
				Kind:     models.Expense,
				Amount:   dec("56.00"),
			})
		}
		week++
	}

	// Entries past today would never show up in reports.
	out := entries[:0]
	for _, e := range entries {
		if !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
