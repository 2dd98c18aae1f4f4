package repository

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

const loanColumns = `id, user_id, name, principal, initial_principal, interest_rate, signing_date, accrued_interest, last_calculated_date, created_at`

// LoanRepository handles loan database operations.
type LoanRepository struct {
	db database.Querier
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db database.Querier) *LoanRepository {
	return &LoanRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *LoanRepository) WithTx(tx *sql.Tx) *LoanRepository {
	return &LoanRepository{db: tx}
}

// Create inserts a new loan and returns its ID.
func (r *LoanRepository) Create(l *models.Loan) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO loans (user_id, name, principal, initial_principal, interest_rate, signing_date, accrued_interest, last_calculated_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.UserID, l.Name, l.Principal, l.InitialPrincipal, l.InterestRate,
		calendar.Format(l.SigningDate), l.AccruedInterest, calendar.Format(l.LastCalculated))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(id int64) (*models.Loan, error) {
	l, err := scanLoan(r.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByUserID retrieves all loans of a user, sorted by name.
func (r *LoanRepository) GetByUserID(userID int64) ([]*models.Loan, error) {
	rows, err := r.db.Query(`SELECT `+loanColumns+` FROM loans WHERE user_id = ? ORDER BY name ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*models.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// UpdateBalance writes back principal, interest and the accrual cursor.
func (r *LoanRepository) UpdateBalance(id int64, principal, interest decimal.Decimal, lastCalculated time.Time) error {
	_, err := r.db.Exec(`
		UPDATE loans
		SET principal = ?, accrued_interest = ?, last_calculated_date = ?
		WHERE id = ?
	`, principal, interest, calendar.Format(lastCalculated), id)
	return err
}

// UpdateAccrual writes back the accrued interest and the accrual cursor, leaving principal alone.
func (r *LoanRepository) UpdateAccrual(id int64, interest decimal.Decimal, lastCalculated time.Time) error {
	_, err := r.db.Exec(`
		UPDATE loans
		SET accrued_interest = ?, last_calculated_date = ?
		WHERE id = ?
	`, interest, calendar.Format(lastCalculated), id)
	return err
}

// Reset restores principal to its initial value and clears accrued interest.
func (r *LoanRepository) Reset(id int64) error {
	_, err := r.db.Exec(`UPDATE loans SET principal = initial_principal, accrued_interest = '0' WHERE id = ?`, id)
	return err
}

// Zero clears principal and accrued interest.
func (r *LoanRepository) Zero(id int64) error {
	_, err := r.db.Exec(`UPDATE loans SET principal = '0', accrued_interest = '0' WHERE id = ?`, id)
	return err
}

// Delete removes a loan by ID.
func (r *LoanRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM loans WHERE id = ?`, id)
	return err
}

func scanLoan(s scanner) (*models.Loan, error) {
	l := &models.Loan{}
	var signing, lastCalculated string

	err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&l.Principal,
		&l.InitialPrincipal,
		&l.InterestRate,
		&signing,
		&l.AccruedInterest,
		&lastCalculated,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.SigningDate = day(signing)
	l.LastCalculated = day(lastCalculated)
	return l, nil
}
