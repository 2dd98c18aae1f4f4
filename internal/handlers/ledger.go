package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/services"
)

// LedgerHandler handles ledger entries and recurring commitments.
type LedgerHandler struct {
	deps   *Dependencies
	ledger *services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(deps *Dependencies) *LedgerHandler {
	return &LedgerHandler{deps: deps, ledger: deps.Services.Ledger}
}

type entryRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Kind     models.Kind     `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
}

type commitmentRequest struct {
	NextDue   string          `json:"next_due_date"`
	Category  string          `json:"category"`
	Kind      models.Kind     `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	LoanID    *int64          `json:"loan_id,omitempty"`
}

// ListEntries returns one page of entries, newest first. Supports from, to,
// category, kind, limit and offset query parameters.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EntryFilter{
		UserID:   currentUser(r).ID,
		Category: q.Get("category"),
		Kind:     models.Kind(q.Get("kind")),
	}

	var err error
	if filter.From, err = parseDate("from", q.Get("from")); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if filter.To, err = parseDate("to", q.Get("to")); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", repository.DefaultPageSize)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	page, err := h.ledger.ListEntriesPage(filter, repository.NewPagination(limit, offset))
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreateEntry records a manual entry.
func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	entry, err := h.ledger.AddEntry(currentUser(r).ID, services.NewEntry{
		Date:     date,
		Category: req.Category,
		Kind:     req.Kind,
		Amount:   req.Amount,
	})
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// DeleteEntry removes one entry.
func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "entryID")
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if err := h.ledger.DeleteEntry(currentUser(r).ID, id); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCommitments returns every recurring commitment.
func (h *LedgerHandler) ListCommitments(w http.ResponseWriter, r *http.Request) {
	commitments, err := h.ledger.ListCommitments(currentUser(r).ID)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if commitments == nil {
		commitments = []*models.RecurringCommitment{}
	}
	writeJSON(w, http.StatusOK, commitments)
}

// CreateCommitment schedules a recurring commitment.
func (h *LedgerHandler) CreateCommitment(w http.ResponseWriter, r *http.Request) {
	var req commitmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	next, err := parseDate("next_due_date", req.NextDue)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	c, err := h.ledger.AddCommitment(currentUser(r).ID, services.NewCommitment{
		NextDue:   next,
		Category:  req.Category,
		Kind:      req.Kind,
		Amount:    req.Amount,
		Frequency: calendar.Frequency(req.Frequency),
		LoanID:    req.LoanID,
	})
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCommitment removes a commitment. Removing a loan repayment resets its loan.
func (h *LedgerHandler) DeleteCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "commitmentID")
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if err := h.ledger.DeleteCommitment(currentUser(r).ID, id); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
