package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// PortfolioHandler handles security lots and portfolio valuation.
type PortfolioHandler struct {
	deps      *Dependencies
	portfolio *services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(deps *Dependencies) *PortfolioHandler {
	return &PortfolioHandler{deps: deps, portfolio: deps.Services.Portfolio}
}

type lotRequest struct {
	Symbol        string          `json:"symbol"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchaseDate  string          `json:"purchase_date"`
}

// ListLots returns every lot.
func (h *PortfolioHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.portfolio.ListLots(currentUser(r).ID)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if lots == nil {
		lots = []*models.PortfolioLot{}
	}
	writeJSON(w, http.StatusOK, lots)
}

// AddLot records a purchase. The symbol must resolve at the market data provider.
func (h *PortfolioHandler) AddLot(w http.ResponseWriter, r *http.Request) {
	var req lotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	purchased, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	lot, err := h.portfolio.AddLot(r.Context(), currentUser(r).ID, services.NewLot{
		Symbol:        req.Symbol,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		PurchaseDate:  purchased,
	})
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lot)
}

// Sell removes every lot of {symbol}. The gain or loss is booked to the ledger
// unless the realize query parameter is false.
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	realize := true
	if raw := r.URL.Query().Get("realize"); raw != "" {
		var err error
		if realize, err = strconv.ParseBool(raw); err != nil {
			h.deps.writeError(w, r, apperrors.ValidationField("realize", "realize must be true or false"))
			return
		}
	}

	sale, err := h.portfolio.SellSymbol(r.Context(), currentUser(r).ID, chi.URLParam(r, "symbol"), realize, h.deps.today())
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// Summary values every position. Symbols the provider cannot price are pruned
// and listed in the response.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolio.Summary(r.Context(), currentUser(r).ID, h.deps.today())
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
