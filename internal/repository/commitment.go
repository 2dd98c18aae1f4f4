package repository

import (
	"database/sql"
	"time"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

const commitmentColumns = `id, user_id, next_due_date, category, kind, amount, frequency, loan_id, created_at`

// CommitmentRepository handles recurring commitment database operations.
type CommitmentRepository struct {
	db database.Querier
}

// NewCommitmentRepository creates a new CommitmentRepository.
func NewCommitmentRepository(db database.Querier) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *CommitmentRepository) WithTx(tx *sql.Tx) *CommitmentRepository {
	return &CommitmentRepository{db: tx}
}

// Create inserts a new commitment and returns its ID.
func (r *CommitmentRepository) Create(c *models.RecurringCommitment) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO recurring_commitments (user_id, next_due_date, category, kind, amount, frequency, loan_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.UserID, calendar.Format(c.NextDue), c.Category, string(c.Kind), c.Amount, string(c.Frequency), c.LoanID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByID retrieves a commitment by ID.
func (r *CommitmentRepository) GetByID(id int64) (*models.RecurringCommitment, error) {
	c, err := scanCommitment(r.db.QueryRow(`SELECT `+commitmentColumns+` FROM recurring_commitments WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByUserID retrieves all commitments of a user, earliest due first.
func (r *CommitmentRepository) GetByUserID(userID int64) ([]*models.RecurringCommitment, error) {
	return r.queryCommitments(`
		SELECT `+commitmentColumns+`
		FROM recurring_commitments
		WHERE user_id = ?
		ORDER BY next_due_date ASC, id ASC
	`, userID)
}

// GetByLoanID retrieves the commitments repaying a loan.
func (r *CommitmentRepository) GetByLoanID(loanID int64) ([]*models.RecurringCommitment, error) {
	return r.queryCommitments(`
		SELECT `+commitmentColumns+`
		FROM recurring_commitments
		WHERE loan_id = ?
		ORDER BY next_due_date ASC, id ASC
	`, loanID)
}

// NextDueForLoan returns the earliest cursor among the loan's commitments, or nil if none repays it.
func (r *CommitmentRepository) NextDueForLoan(loanID int64) (*time.Time, error) {
	var next sql.NullString
	err := r.db.QueryRow(`SELECT MIN(next_due_date) FROM recurring_commitments WHERE loan_id = ?`, loanID).Scan(&next)
	if err != nil {
		return nil, err
	}
	if !next.Valid {
		return nil, nil
	}
	d := day(next.String)
	return &d, nil
}

// UpdateNextDue moves a commitment's cursor.
func (r *CommitmentRepository) UpdateNextDue(id int64, next time.Time) error {
	_, err := r.db.Exec(`UPDATE recurring_commitments SET next_due_date = ? WHERE id = ?`, calendar.Format(next), id)
	return err
}

// Delete removes a commitment by ID.
func (r *CommitmentRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM recurring_commitments WHERE id = ?`, id)
	return err
}

// DeleteByLoanID removes every commitment repaying a loan.
func (r *CommitmentRepository) DeleteByLoanID(loanID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM recurring_commitments WHERE loan_id = ?`, loanID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CommitmentRepository) queryCommitments(query string, args ...any) ([]*models.RecurringCommitment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commitments := make([]*models.RecurringCommitment, 0)
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

func scanCommitment(s scanner) (*models.RecurringCommitment, error) {
	c := &models.RecurringCommitment{}
	var nextDue, kind, frequency string
	var loanID sql.NullInt64

	err := s.Scan(
		&c.ID,
		&c.UserID,
		&nextDue,
		&c.Category,
		&kind,
		&c.Amount,
		&frequency,
		&loanID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.NextDue = day(nextDue)
	c.Kind = models.Kind(kind)
	c.Frequency = calendar.Frequency(frequency)
	c.LoanID = optionalID(loanID)
	return c, nil
}
