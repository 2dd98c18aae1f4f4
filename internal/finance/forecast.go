package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
)

// Horizon is the number of days a forecast covers.
type Horizon int

const (
	NextDay   Horizon = 1
	NextWeek  Horizon = 7
	NextMonth Horizon = 30
)

// ParseHorizon accepts "day", "week", "month" or the matching day counts.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "1":
		return NextDay, nil
	case "week", "7":
		return NextWeek, nil
	case "month", "30":
		return NextMonth, nil
	}
	return 0, apperrors.ValidationField("horizon", fmt.Sprintf("unknown horizon %q, want day, week or month", s))
}

// ExpenseForecast is the projected spending over a horizon.
type ExpenseForecast struct {
	Horizon     Horizon         `json:"horizon"`
	Total       decimal.Decimal `json:"total"`
	Slope       float64         `json:"slope"`     // Change in daily spend per day
	Intercept   float64         `json:"intercept"` // Fitted spend on the first day
	HistoryDays int             `json:"history_days"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
}

// ForecastExpenses fits a line to daily expense totals and sums its predictions for the
// days following the last recorded day. Investments are not spending and are ignored.
func ForecastExpenses(entries []models.LedgerEntry, h Horizon) (*ExpenseForecast, error) {
	daily := make(map[time.Time]decimal.Decimal)
	var first, last time.Time
	for _, e := range entries {
		if e.Kind != models.Expense || e.Category == models.CategoryInvestments {
			continue
		}
		day := calendar.Day(e.Date)
		if len(daily) == 0 || day.Before(first) {
			first = day
		}
		if len(daily) == 0 || day.After(last) {
			last = day
		}
		daily[day] = daily[day].Add(e.Amount)
	}
	if len(daily) < 2 {
		return nil, apperrors.Newf(apperrors.ErrInsufficientHistory,
			"need expenses on at least 2 distinct days, have %d", len(daily))
	}

	span := calendar.DaysBetween(first, last) + 1
	xs := make([]float64, span)
	ys := make([]float64, span)
	for i := 0; i < span; i++ {
		xs[i] = float64(i)
		ys[i] = daily[first.AddDate(0, 0, i)].InexactFloat64()
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	total := 0.0
	for i := 1; i <= int(h); i++ {
		total += alpha + beta*float64(span-1+i)
	}

	return &ExpenseForecast{
		Horizon:     h,
		Total:       decimal.NewFromFloat(total).Round(2),
		Slope:       beta,
		Intercept:   alpha,
		HistoryDays: span,
		From:        last.AddDate(0, 0, 1),
		To:          last.AddDate(0, 0, int(h)),
	}, nil
}
