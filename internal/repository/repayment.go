package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/database"
)

// RepaymentRepository tracks the cumulative principal repaid per loan.
type RepaymentRepository struct {
	db database.Querier
}

// NewRepaymentRepository creates a new RepaymentRepository.
func NewRepaymentRepository(db database.Querier) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *RepaymentRepository) WithTx(tx *sql.Tx) *RepaymentRepository {
	return &RepaymentRepository{db: tx}
}

// Get returns the principal repaid on a loan, zero when nothing is recorded.
func (r *RepaymentRepository) Get(loanID int64) (decimal.Decimal, error) {
	var repaid decimal.Decimal
	err := r.db.QueryRow(`SELECT repaid_principal FROM loan_repayments WHERE loan_id = ?`, loanID).Scan(&repaid)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return repaid, nil
}

// Add increases the repaid total of a loan by amount.
func (r *RepaymentRepository) Add(loanID int64, amount decimal.Decimal) error {
	current, err := r.Get(loanID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		INSERT INTO loan_repayments (loan_id, repaid_principal)
		VALUES (?, ?)
		ON CONFLICT(loan_id) DO UPDATE SET repaid_principal = excluded.repaid_principal
	`, loanID, current.Add(amount))
	return err
}

// Delete removes the repaid total of a loan.
func (r *RepaymentRepository) Delete(loanID int64) error {
	_, err := r.db.Exec(`DELETE FROM loan_repayments WHERE loan_id = ?`, loanID)
	return err
}
