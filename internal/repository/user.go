package repository

import (
	"database/sql"
	"fmt"

	"finance_tracker/internal/database"
	"finance_tracker/internal/models"
)

// UserRepository handles user data operations.
type UserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts a new user and returns the ID.
func (r *UserRepository) Create(name string) (int64, error) {
	result, err := r.db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a user by ID. Returns nil if not found.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(`SELECT id, name, created_at FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

// GetByName retrieves a user by name. Returns nil if not found.
func (r *UserRepository) GetByName(name string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(`SELECT id, name, created_at FROM users WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("getting user by name: %w", err)
	}
	return user, nil
}

// GetOrCreateByName returns the user with the given name, creating it first if needed.
func (r *UserRepository) GetOrCreateByName(name string) (*models.User, error) {
	if _, err := r.db.Exec(`INSERT INTO users (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return r.GetByName(name)
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("getting all users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete removes a user and, through cascades, everything they own.
func (r *UserRepository) Delete(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
