package handlers

import (
	"net/http"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// NetWorthHandler handles the net worth breakdown and its history.
type NetWorthHandler struct {
	deps     *Dependencies
	netWorth *services.NetWorthService
}

// NewNetWorthHandler creates a new NetWorthHandler.
func NewNetWorthHandler(deps *Dependencies) *NetWorthHandler {
	return &NetWorthHandler{deps: deps, netWorth: deps.Services.NetWorth}
}

type netWorthResponse struct {
	*finance.NetWorth
	Total string `json:"total"`
}

// Current computes net worth without recording it.
func (h *NetWorthHandler) Current(w http.ResponseWriter, r *http.Request) {
	nw, err := h.netWorth.Current(r.Context(), currentUser(r).ID)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, netWorthResponse{NetWorth: nw, Total: nw.Total().String()})
}

// Record computes net worth and stores it as today's sample.
func (h *NetWorthHandler) Record(w http.ResponseWriter, r *http.Request) {
	nw, err := h.netWorth.Compute(r.Context(), currentUser(r).ID, h.deps.today())
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, netWorthResponse{NetWorth: nw, Total: nw.Total().String()})
}

// History returns recorded samples, oldest first, optionally from a given day.
func (h *NetWorthHandler) History(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate("from", r.URL.Query().Get("from"))
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	history, err := h.netWorth.History(currentUser(r).ID, from)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if history == nil {
		history = []models.NetWorthSample{}
	}
	writeJSON(w, http.StatusOK, history)
}
