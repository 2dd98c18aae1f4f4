package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

// ErrEntryNotFound is returned when deleting an entry that does not exist.
var ErrEntryNotFound = errors.New("ledger entry not found")

// EntryFilter narrows a ledger query. Zero fields match everything.
type EntryFilter struct {
	UserID   int64
	From     time.Time // Inclusive
	To       time.Time // Inclusive
	Category string
	Kind     models.Kind
}

func (f EntryFilter) where() (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{f.UserID}
	if !f.From.IsZero() {
		clauses = append(clauses, "entry_date >= ?")
		args = append(args, calendar.Format(f.From))
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "entry_date <= ?")
		args = append(args, calendar.Format(f.To))
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(f.Kind))
	}
	return strings.Join(clauses, " AND "), args
}

const entryColumns = `id, user_id, entry_date, category, kind, amount, loan_id, commitment_id, created_at`

// LedgerRepository handles ledger entry database operations.
type LedgerRepository struct {
	db database.Querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db database.Querier) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *LedgerRepository) WithTx(tx *sql.Tx) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// Create inserts a new entry and returns its ID.
func (r *LedgerRepository) Create(e *models.LedgerEntry) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO ledger_entries (user_id, entry_date, category, kind, amount, loan_id, commitment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, calendar.Format(e.Date), e.Category, string(e.Kind), e.Amount, e.LoanID, e.CommitmentID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertMaterialized inserts an entry produced by a commitment unless one already exists
// for the same commitment and date. It reports whether a row was written.
func (r *LedgerRepository) InsertMaterialized(e *models.LedgerEntry) (bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO ledger_entries (user_id, entry_date, category, kind, amount, loan_id, commitment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(commitment_id, entry_date) DO NOTHING
	`, e.UserID, calendar.Format(e.Date), e.Category, string(e.Kind), e.Amount, e.LoanID, e.CommitmentID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetByID retrieves an entry by ID.
func (r *LedgerRepository) GetByID(id int64) (*models.LedgerEntry, error) {
	e, err := scanEntry(r.db.QueryRow(`SELECT `+entryColumns+` FROM ledger_entries WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves the entries matching f, newest first.
func (r *LedgerRepository) List(f EntryFilter) ([]*models.LedgerEntry, error) {
	where, args := f.where()
	return r.queryEntries(`SELECT `+entryColumns+` FROM ledger_entries WHERE `+where+` ORDER BY entry_date DESC, id DESC`, args...)
}

// ListPaginated retrieves one page of the entries matching f with full pagination info.
func (r *LedgerRepository) ListPaginated(f EntryFilter, p Pagination) (*Page[*models.LedgerEntry], error) {
	where, args := f.where()

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	items, err := r.queryEntries(
		`SELECT `+entryColumns+` FROM ledger_entries WHERE `+where+` ORDER BY entry_date DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset)...,
	)
	if err != nil {
		return nil, err
	}

	return newPage(items, total, p), nil
}

// GetByUserID retrieves every entry of a user in date order.
func (r *LedgerRepository) GetByUserID(userID int64) ([]*models.LedgerEntry, error) {
	return r.queryEntries(`SELECT `+entryColumns+` FROM ledger_entries WHERE user_id = ? ORDER BY entry_date ASC, id ASC`, userID)
}

// Delete removes an entry by ID.
func (r *LedgerRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteByLoanID removes every payment recorded against a loan.
func (r *LedgerRepository) DeleteByLoanID(loanID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM ledger_entries WHERE loan_id = ?`, loanID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LedgerRepository) queryEntries(query string, args ...any) ([]*models.LedgerEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(s scanner) (*models.LedgerEntry, error) {
	e := &models.LedgerEntry{}
	var date, kind string
	var loanID, commitmentID sql.NullInt64

	err := s.Scan(
		&e.ID,
		&e.UserID,
		&date,
		&e.Category,
		&kind,
		&e.Amount,
		&loanID,
		&commitmentID,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Date = day(date)
	e.Kind = models.Kind(kind)
	e.LoanID = optionalID(loanID)
	e.CommitmentID = optionalID(commitmentID)
	return e, nil
}
