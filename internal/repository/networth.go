package repository

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

// NetWorthRepository stores one net worth sample per user and day.
type NetWorthRepository struct {
	db database.Querier
}

// NewNetWorthRepository creates a new NetWorthRepository.
func NewNetWorthRepository(db database.Querier) *NetWorthRepository {
	return &NetWorthRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *NetWorthRepository) WithTx(tx *sql.Tx) *NetWorthRepository {
	return &NetWorthRepository{db: tx}
}

// Upsert records the net worth for a day, replacing any earlier sample for that day.
func (r *NetWorthRepository) Upsert(userID int64, date time.Time, netWorth decimal.Decimal) error {
	_, err := r.db.Exec(`
		INSERT INTO net_worth_history (user_id, sample_date, net_worth)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, sample_date) DO UPDATE SET net_worth = excluded.net_worth
	`, userID, calendar.Format(date), netWorth)
	return err
}

// History returns a user's samples from the given day on, oldest first. A zero from returns everything.
func (r *NetWorthRepository) History(userID int64, from time.Time) ([]models.NetWorthSample, error) {
	since := ""
	if !from.IsZero() {
		since = calendar.Format(from)
	}
	rows, err := r.db.Query(`
		SELECT id, user_id, sample_date, net_worth
		FROM net_worth_history
		WHERE user_id = ? AND sample_date >= ?
		ORDER BY sample_date ASC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]models.NetWorthSample, 0)
	for rows.Next() {
		var s models.NetWorthSample
		var date string
		if err := rows.Scan(&s.ID, &s.UserID, &date, &s.NetWorth); err != nil {
			return nil, err
		}
		s.Date = day(date)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Latest returns a user's most recent sample, or nil if there is none.
func (r *NetWorthRepository) Latest(userID int64) (*models.NetWorthSample, error) {
	var s models.NetWorthSample
	var date string
	err := r.db.QueryRow(`
		SELECT id, user_id, sample_date, net_worth
		FROM net_worth_history
		WHERE user_id = ?
		ORDER BY sample_date DESC
		LIMIT 1
	`, userID).Scan(&s.ID, &s.UserID, &date, &s.NetWorth)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Date = day(date)
	return &s, nil
}
