// Package models contains the domain models for the finance tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
)

// Kind tells income from expense.
type Kind string

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// Valid reports whether k is Income or Expense.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Well-known categories. Categories are an open set; these drive defaults and reports.
const (
	CategoryGroceries     = "Groceries"
	CategoryUtilities     = "Utilities"
	CategoryRent          = "Rent"
	CategoryEntertainment = "Entertainment"
	CategoryTransport     = "Transport"
	CategoryHealthcare    = "Healthcare"
	CategoryPaycheck      = "Paycheck"
	CategoryInvestments   = "Investments"
	CategoryOther         = "Other"
	CategoryLoan          = "Loan"
)

// Categories lists the well-known categories in display order.
var Categories = []string{
	CategoryGroceries,
	CategoryUtilities,
	CategoryRent,
	CategoryEntertainment,
	CategoryTransport,
	CategoryHealthcare,
	CategoryPaycheck,
	CategoryInvestments,
	CategoryOther,
	CategoryLoan,
}

// User owns every other record. Users are identified by name.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerEntry is one realized income or expense event.
// Entries are immutable once written; they are only ever deleted.
type LedgerEntry struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category"`
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	LoanID       *int64          `json:"loan_id,omitempty"`       // Set when the entry is a loan payment
	CommitmentID *int64          `json:"commitment_id,omitempty"` // Set when materialized from a commitment
	CreatedAt    time.Time       `json:"created_at"`
}

// IsLoanPayment returns true if the entry pays down a loan.
func (e *LedgerEntry) IsLoanPayment() bool {
	return e.LoanID != nil
}

// RecurringCommitment generates ledger entries on a schedule.
// NextDue is the materialization cursor: every occurrence before it is already in the ledger.
type RecurringCommitment struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	NextDue   time.Time          `json:"next_due_date"`
	Category  string             `json:"category"`
	Kind      Kind               `json:"kind"`
	Amount    decimal.Decimal    `json:"amount"`
	Frequency calendar.Frequency `json:"frequency"`
	LoanID    *int64             `json:"loan_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// IsLoanLinked returns true if the commitment repays a loan.
func (c *RecurringCommitment) IsLoanLinked() bool {
	return c.LoanID != nil
}

// Loan is an outstanding debt.
// Principal only decreases; LastCalculated is the day interest has been accrued through.
type Loan struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	Name             string          `json:"name"`
	Principal        decimal.Decimal `json:"principal"`
	InitialPrincipal decimal.Decimal `json:"initial_principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"` // Annual, in percent
	SigningDate      time.Time       `json:"signing_date"`
	AccruedInterest  decimal.Decimal `json:"accrued_interest"`
	LastCalculated   time.Time       `json:"last_calculated_date"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Liability returns principal plus accrued interest.
func (l *Loan) Liability() decimal.Decimal {
	return l.Principal.Add(l.AccruedInterest)
}

// LoanRepayment is the cumulative principal repaid on a loan.
type LoanRepayment struct {
	LoanID          int64           `json:"loan_id"`
	RepaidPrincipal decimal.Decimal `json:"repaid_principal"`
}

// PortfolioLot is one purchase of a security.
type PortfolioLot struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"company_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Asset is a physical or other non-market holding valued at cost.
type Asset struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	YearOfPurchase int             `json:"year_of_purchase"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NetWorthSample is the net worth computed for one day.
type NetWorthSample struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Date     time.Time       `json:"date"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// Refresh run statuses.
const (
	RefreshStarted = "started"
	RefreshSuccess = "success"
	RefreshError   = "error"
)

// RefreshRun records one "refresh all" pass over a user's data.
type RefreshRun struct {
	ID                  int64      `json:"id"`
	RunID               string     `json:"run_id"`
	UserID              int64      `json:"user_id"`
	Status              string     `json:"status"` // "started", "success", "error"
	EntriesMaterialized int        `json:"entries_materialized"`
	SymbolsPruned       int        `json:"symbols_pruned"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	DurationMs          int64      `json:"duration_ms,omitempty"`
}
