package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
	"radagast/internal/storage"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

const productColumns = `id, name, description, quantity, reorder_threshold, price, created_at, updated_at`

func (r *MySQLProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns)
	return scanProduct(r.db.QueryRowContext(ctx, query, id), id)
}

// FindByIDForUpdate locks the product row for the duration of the
// surrounding transaction. All stock mutation goes through this lock so
// two concurrent sales cannot both pass the sufficiency check against a
// stale quantity.
func (r *MySQLProductRepository) FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ? FOR UPDATE`, productColumns)
	return scanProduct(q.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLProductRepository) UpdateQuantity(ctx context.Context, q storage.Querier, id uint, quantity int) error {
	query := `UPDATE products SET quantity = ?, updated_at = NOW() WHERE id = ?`

	result, err := q.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("updating product quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}

func (r *MySQLProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id ASC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Quantity, &p.ReorderThreshold,
			&p.Price, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row *sql.Row, id uint) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Quantity, &p.ReorderThreshold,
		&p.Price, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}
