package services

import (
	"fmt"
	"time"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/repository"
)

// ReportService answers read-only questions about the ledger.
type ReportService struct {
	repos *Repositories
}

// NewReportService creates a new ReportService.
func NewReportService(repos *Repositories) *ReportService {
	return &ReportService{repos: repos}
}

// Forecast projects the user's spending over the horizon from their expense history.
func (s *ReportService) Forecast(userID int64, h finance.Horizon) (*finance.ExpenseForecast, error) {
	entries, err := s.repos.Ledger.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return finance.ForecastExpenses(values(entries), h)
}

// WeeklyCashFlow groups the last full week of ledger activity by weekday.
func (s *ReportService) WeeklyCashFlow(userID int64, today time.Time) (*finance.WeeklyCashFlow, error) {
	start, end := finance.CashFlowWindow(today)
	entries, err := s.repos.Ledger.List(repository.EntryFilter{
		UserID: userID,
		From:   start,
		To:     end.AddDate(0, 0, -1),
	})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	w := finance.WeeklyCashFlowFor(values(entries), today)
	return &w, nil
}
