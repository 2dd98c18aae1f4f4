package repository

import (
	"database/sql"
	"strings"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

const lotColumns = `id, user_id, symbol, company_name, purchase_price, quantity, purchase_date, created_at`

// LotRepository handles portfolio lot database operations.
type LotRepository struct {
	db database.Querier
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(db database.Querier) *LotRepository {
	return &LotRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *LotRepository) WithTx(tx *sql.Tx) *LotRepository {
	return &LotRepository{db: tx}
}

// Create inserts a new lot and returns its ID. The symbol is stored upper-cased.
func (r *LotRepository) Create(lot *models.PortfolioLot) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO portfolio_lots (user_id, symbol, company_name, purchase_price, quantity, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, lot.UserID, strings.ToUpper(lot.Symbol), lot.CompanyName, lot.PurchasePrice, lot.Quantity, calendar.Format(lot.PurchaseDate))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByUserID retrieves all lots of a user, by symbol then purchase date.
func (r *LotRepository) GetByUserID(userID int64) ([]*models.PortfolioLot, error) {
	return r.queryLots(`
		SELECT `+lotColumns+`
		FROM portfolio_lots
		WHERE user_id = ?
		ORDER BY symbol ASC, purchase_date ASC, id ASC
	`, userID)
}

// GetBySymbol retrieves a user's lots of one symbol.
func (r *LotRepository) GetBySymbol(userID int64, symbol string) ([]*models.PortfolioLot, error) {
	return r.queryLots(`
		SELECT `+lotColumns+`
		FROM portfolio_lots
		WHERE user_id = ? AND symbol = ?
		ORDER BY purchase_date ASC, id ASC
	`, userID, strings.ToUpper(symbol))
}

// Symbols returns the distinct symbols a user holds.
func (r *LotRepository) Symbols(userID int64) ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM portfolio_lots WHERE user_id = ? ORDER BY symbol`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// DeleteBySymbol removes every lot of a symbol and returns how many were removed.
func (r *LotRepository) DeleteBySymbol(userID int64, symbol string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM portfolio_lots WHERE user_id = ? AND symbol = ?`, userID, strings.ToUpper(symbol))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LotRepository) queryLots(query string, args ...any) ([]*models.PortfolioLot, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]*models.PortfolioLot, 0)
	for rows.Next() {
		lot := &models.PortfolioLot{}
		var purchaseDate string
		err := rows.Scan(
			&lot.ID,
			&lot.UserID,
			&lot.Symbol,
			&lot.CompanyName,
			&lot.PurchasePrice,
			&lot.Quantity,
			&purchaseDate,
			&lot.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		lot.PurchaseDate = day(purchaseDate)
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}
