package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	query := `
		SELECT id, full_name, email, role, warehouse_location
		FROM users
		WHERE id = ?
	`

	var user domain.User
	var warehouse sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.FullName, &user.Email, &user.Role, &warehouse,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	user.WarehouseLocation = warehouse.String
	return &user, nil
}

// FindByRole returns users holding the given role, ordered by id so
// that "first buyer" selection is stable across calls.
func (r *MySQLUserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := `
		SELECT id, full_name, email, role, warehouse_location
		FROM users
		WHERE role = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("querying users by role: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *MySQLUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, full_name, email, role, warehouse_location
		FROM users
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var user domain.User
		var warehouse sql.NullString
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &warehouse); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		user.WarehouseLocation = warehouse.String
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}
