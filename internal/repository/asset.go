package repository

import (
	"database/sql"
	"errors"

	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

// ErrAssetNotFound is returned when deleting an asset that does not exist.
var ErrAssetNotFound = errors.New("asset not found")

// AssetRepository handles asset database operations.
type AssetRepository struct {
	db database.Querier
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db database.Querier) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{db: tx}
}

// Create inserts a new asset and returns its ID.
func (r *AssetRepository) Create(a *models.Asset) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO assets (user_id, name, purchase_price, year_of_purchase)
		VALUES (?, ?, ?, ?)
	`, a.UserID, a.Name, a.PurchasePrice, a.YearOfPurchase)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByUserID retrieves all assets of a user, sorted by name.
func (r *AssetRepository) GetByUserID(userID int64) ([]*models.Asset, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, purchase_price, year_of_purchase, created_at
		FROM assets
		WHERE user_id = ?
		ORDER BY name ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		a := &models.Asset{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.PurchasePrice, &a.YearOfPurchase, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Delete removes one of a user's assets.
func (r *AssetRepository) Delete(userID, id int64) error {
	result, err := r.db.Exec(`DELETE FROM assets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}
