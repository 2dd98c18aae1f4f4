package handlers

import (
	"net/http"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/services"
)

// ReportHandler handles spending forecasts and the weekly cash flow.
type ReportHandler struct {
	deps    *Dependencies
	reports *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(deps *Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps, reports: deps.Services.Reports}
}

// Forecast projects spending over the horizon query parameter (day, week or month; default week).
func (h *ReportHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("horizon")
	if raw == "" {
		raw = "week"
	}
	horizon, err := finance.ParseHorizon(raw)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	fc, err := h.reports.Forecast(currentUser(r).ID, horizon)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// CashFlow returns income and expense per day of the week containing the
// date query parameter, or of the current week.
func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate("date", r.URL.Query().Get("date"))
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if day.IsZero() {
		day = h.deps.today()
	}

	cf, err := h.reports.WeeklyCashFlow(currentUser(r).ID, day)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cf)
}
