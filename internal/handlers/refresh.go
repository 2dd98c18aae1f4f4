package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/services"
)

// RefreshHandler runs "refresh all" passes.
type RefreshHandler struct {
	deps    *Dependencies
	refresh *services.RefreshService
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(deps *Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps, refresh: deps.Services.Refresh}
}

type refreshFailure struct {
	Error  string                  `json:"error"`
	Report *services.RefreshReport `json:"report,omitempty"`
}

// Run materializes commitments, revalues the portfolio, records net worth and
// updates loan statements. A failed pass still returns what the completed
// steps produced.
func (h *RefreshHandler) Run(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	report, err := h.refresh.Run(r.Context(), user.ID, h.deps.today())
	if err != nil {
		if report == nil {
			h.deps.writeError(w, r, err)
			return
		}
		status := apperrors.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			// Some step's dependency failed, usually the market data provider
			status = http.StatusBadGateway
		}
		h.deps.Log.WithFields(logrus.Fields{"user_id": user.ID, "run_id": report.RunID}).WithError(err).Warn("refresh incomplete")
		writeJSON(w, status, refreshFailure{Error: err.Error(), Report: report})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Runs lists the most recent refresh runs, newest first.
func (h *RefreshHandler) Runs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := h.deps.Services.Repos.RefreshRuns.GetByUserID(currentUser(r).ID, limit)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
