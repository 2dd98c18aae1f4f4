package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// LoanHandler handles loans and their statements.
type LoanHandler struct {
	deps  *Dependencies
	loans *services.LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(deps *Dependencies) *LoanHandler {
	return &LoanHandler{deps: deps, loans: deps.Services.Loans}
}

type loanRequest struct {
	Name         string          `json:"name"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	SigningDate  string          `json:"signing_date"`
}

// List returns every loan.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListLoans(currentUser(r).ID)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if loans == nil {
		loans = []*models.Loan{}
	}
	writeJSON(w, http.StatusOK, loans)
}

// Create opens a loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	signed, err := parseDate("signing_date", req.SigningDate)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	loan, err := h.loans.CreateLoan(currentUser(r).ID, services.NewLoan{
		Name:         req.Name,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		SigningDate:  signed,
	})
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// Delete removes a loan together with its repayment commitments and payments.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "loanID")
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if err := h.loans.DeleteLoan(currentUser(r).ID, id); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statements returns today's statement of every loan. Reading statements does
// not move the accrual cursor; a refresh does.
func (h *LoanHandler) Statements(w http.ResponseWriter, r *http.Request) {
	stmts, err := h.loans.Statements(currentUser(r).ID, h.deps.today(), false)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if stmts == nil {
		stmts = []*finance.LoanStatement{}
	}
	writeJSON(w, http.StatusOK, stmts)
}
