package finance

import (
	"github.com/shopspring/decimal"

	"finance_tracker/internal/models"
)

// NetWorth holds the five components of a net worth figure.
type NetWorth struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"` // Excludes loan payments
	Portfolio   decimal.Decimal `json:"portfolio"`
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
}

// Total returns income - expenses + portfolio + assets - liabilities.
func (n NetWorth) Total() decimal.Decimal {
	return n.Income.Sub(n.Expenses).Add(n.Portfolio).Add(n.Assets).Sub(n.Liabilities)
}

// SumLedger totals income and expenses. Loan payments move money from cash to the
// liability and are left out of expenses.
func SumLedger(entries []models.LedgerEntry) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case models.Income:
			income = income.Add(e.Amount)
		case models.Expense:
			if !e.IsLoanPayment() {
				expenses = expenses.Add(e.Amount)
			}
		}
	}
	return income, expenses
}

// SumAssets totals asset book values.
func SumAssets(assets []models.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.PurchasePrice)
	}
	return total
}

// SumLiabilities totals principal plus accrued interest over all loans.
func SumLiabilities(loans []models.Loan) decimal.Decimal {
	total := decimal.Zero
	for i := range loans {
		total = total.Add(loans[i].Liability())
	}
	return total
}
