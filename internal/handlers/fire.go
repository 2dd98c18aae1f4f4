package handlers

import (
	"net/http"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/services"
)

// FIREHandler handles retirement projections.
type FIREHandler struct {
	deps *Dependencies
	fire *services.FIREService
}

// NewFIREHandler creates a new FIREHandler.
func NewFIREHandler(deps *Dependencies) *FIREHandler {
	return &FIREHandler{deps: deps, fire: deps.Services.FIRE}
}

type fireResponse struct {
	Params     services.FIREParams `json:"params"`
	Projection *finance.Projection `json:"projection"`
}

// Defaults returns projection inputs derived from the user's portfolio and paychecks.
func (h *FIREHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	params, err := h.fire.Defaults(r.Context(), currentUser(r).ID, h.deps.today())
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

// Project runs the simulator on the posted inputs.
// An unreachable goal is a 422 with the configured year cap in its details.
func (h *FIREHandler) Project(w http.ResponseWriter, r *http.Request) {
	var params services.FIREParams
	if err := decodeJSON(w, r, &params); err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	p, err := h.fire.Run(currentUser(r).ID, params)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fireResponse{Params: params, Projection: p})
}
