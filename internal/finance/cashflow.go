package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/models"
)

// CashFlowDay is the income and expense recorded on one weekday.
type CashFlowDay struct {
	Weekday time.Weekday    `json:"weekday"`
	Date    time.Time       `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// WeeklyCashFlow is a Sunday-to-Saturday week of ledger activity.
type WeeklyCashFlow struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"` // Exclusive
	Days         [7]CashFlowDay  `json:"days"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// CashFlowWindow returns the seven days ending at the next Sunday, or at today when today is a Sunday.
func CashFlowWindow(today time.Time) (start, end time.Time) {
	today = calendar.Day(today)
	end = calendar.WeekStart(today)
	if !end.Equal(today) {
		end = end.AddDate(0, 0, 7)
	}
	return end.AddDate(0, 0, -7), end
}

// WeeklyCashFlowFor groups the entries falling inside the cash flow window by weekday and kind.
// Every weekday is present, zero when nothing was recorded.
func WeeklyCashFlowFor(entries []models.LedgerEntry, today time.Time) WeeklyCashFlow {
	start, end := CashFlowWindow(today)
	w := WeeklyCashFlow{Start: start, End: end, TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for i := range w.Days {
		d := start.AddDate(0, 0, i)
		w.Days[i] = CashFlowDay{Weekday: d.Weekday(), Date: d, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, e := range entries {
		day := calendar.Day(e.Date)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		slot := &w.Days[day.Weekday()]
		switch e.Kind {
		case models.Income:
			slot.Income = slot.Income.Add(e.Amount)
			w.TotalIncome = w.TotalIncome.Add(e.Amount)
		case models.Expense:
			slot.Expense = slot.Expense.Add(e.Amount)
			w.TotalExpense = w.TotalExpense.Add(e.Amount)
		}
	}
	return w
}
