package repository

import (
	"database/sql"
	"time"

	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

const refreshRunColumns = `id, run_id, user_id, status, entries_materialized, symbols_pruned, error_message, started_at, completed_at, duration_ms`

// RefreshRunRepository records refresh runs.
type RefreshRunRepository struct {
	db database.Querier
}

// NewRefreshRunRepository creates a new RefreshRunRepository.
func NewRefreshRunRepository(db database.Querier) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

// Start creates a run with status "started" and returns its ID.
func (r *RefreshRunRepository) Start(runID string, userID int64) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO refresh_runs (run_id, user_id, status, started_at)
		VALUES (?, ?, ?, ?)
	`, runID, userID, models.RefreshStarted, time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Complete marks a run as successful.
func (r *RefreshRunRepository) Complete(id int64, entriesMaterialized, symbolsPruned int) error {
	now := time.Now()
	_, err := r.db.Exec(`
		UPDATE refresh_runs
		SET status = ?, entries_materialized = ?, symbols_pruned = ?, completed_at = ?,
		    duration_ms = CAST((julianday(?) - julianday(started_at)) * 86400000 AS INTEGER)
		WHERE id = ?
	`, models.RefreshSuccess, entriesMaterialized, symbolsPruned, now, now, id)
	return err
}

// Fail marks a run as failed. Work done before the failure is still counted.
func (r *RefreshRunRepository) Fail(id int64, entriesMaterialized, symbolsPruned int, errorMsg string) error {
	now := time.Now()
	_, err := r.db.Exec(`
		UPDATE refresh_runs
		SET status = ?, entries_materialized = ?, symbols_pruned = ?, error_message = ?, completed_at = ?,
		    duration_ms = CAST((julianday(?) - julianday(started_at)) * 86400000 AS INTEGER)
		WHERE id = ?
	`, models.RefreshError, entriesMaterialized, symbolsPruned, errorMsg, now, now, id)
	return err
}

// GetByRunID retrieves a run by its UUID.
func (r *RefreshRunRepository) GetByRunID(runID string) (*models.RefreshRun, error) {
	run, err := scanRefreshRun(r.db.QueryRow(`SELECT `+refreshRunColumns+` FROM refresh_runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetByUserID retrieves a user's runs, most recent first.
func (r *RefreshRunRepository) GetByUserID(userID int64, limit int) ([]*models.RefreshRun, error) {
	rows, err := r.db.Query(`
		SELECT `+refreshRunColumns+`
		FROM refresh_runs
		WHERE user_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*models.RefreshRun, 0)
	for rows.Next() {
		run, err := scanRefreshRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRefreshRun(s scanner) (*models.RefreshRun, error) {
	run := &models.RefreshRun{}
	var errorMsg sql.NullString
	var completedAt sql.NullTime
	var durationMs sql.NullInt64

	err := s.Scan(
		&run.ID,
		&run.RunID,
		&run.UserID,
		&run.Status,
		&run.EntriesMaterialized,
		&run.SymbolsPruned,
		&errorMsg,
		&run.StartedAt,
		&completedAt,
		&durationMs,
	)
	if err != nil {
		return nil, err
	}

	if errorMsg.Valid {
		run.ErrorMessage = errorMsg.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if durationMs.Valid {
		run.DurationMs = durationMs.Int64
	}
	return run, nil
}
