package repository

import (
	"database/sql"
	"time"

	"finance_tracker/internal/calendar"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// day parses a stored date. Unparseable values become the zero time.
func day(s string) time.Time {
	t, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func optionalID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
