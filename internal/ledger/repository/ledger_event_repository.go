package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"radagast/internal/domain"
	"radagast/internal/storage"
)

// MySQLLedgerEventRepository is append-only: events are inserted once
// and never updated or deleted.
type MySQLLedgerEventRepository struct {
	db *sql.DB
}

func NewMySQLLedgerEventRepository(db *sql.DB) *MySQLLedgerEventRepository {
	return &MySQLLedgerEventRepository{db: db}
}

const eventColumns = `id, product_id, quantity, kind, warehouse, handler, amount, occurred_at`

func (r *MySQLLedgerEventRepository) Insert(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error) {
	query := `
		INSERT INTO ledger_events (product_id, quantity, kind, warehouse, handler, amount, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		event.ProductID, event.Quantity, string(event.Kind),
		event.Warehouse, event.Handler, event.Amount, event.OccurredAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting ledger event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting ledger event id: %w", err)
	}

	return uint(id), nil
}

// FindByProductSince returns events for one product from the given
// instant onward, in chronological ascending order. Forecast trend
// calculations depend on this ordering: the first half of the slice is
// always the earlier half.
func (r *MySQLLedgerEventRepository) FindByProductSince(ctx context.Context, productID uint, since time.Time) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE product_id = ? AND occurred_at >= ?
		ORDER BY occurred_at ASC, id ASC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, productID, since)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events by product: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *MySQLLedgerEventRepository) FindByProduct(ctx context.Context, productID uint) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE product_id = ?
		ORDER BY occurred_at ASC, id ASC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events by product: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *MySQLLedgerEventRepository) FindAll(ctx context.Context) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_events ORDER BY occurred_at DESC, id DESC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *MySQLLedgerEventRepository) FindByWarehouse(ctx context.Context, warehouse string) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE warehouse = ?
		ORDER BY occurred_at DESC, id DESC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, warehouse)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events by warehouse: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *MySQLLedgerEventRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE occurred_at BETWEEN ? AND ?
		ORDER BY occurred_at ASC, id ASC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events by date range: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *MySQLLedgerEventRepository) FindByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE warehouse = ? AND occurred_at BETWEEN ? AND ?
		ORDER BY occurred_at ASC, id ASC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, warehouse, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying ledger events by warehouse and date range: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// FindSalesSince returns SALE events across all products from the
// given instant onward. Used for the fast-movers report.
func (r *MySQLLedgerEventRepository) FindSalesSince(ctx context.Context, since time.Time) ([]domain.LedgerEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_events
		WHERE kind = ? AND occurred_at >= ?
		ORDER BY occurred_at ASC, id ASC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query, string(domain.EventSale), since)
	if err != nil {
		return nil, fmt.Errorf("querying sale events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.LedgerEvent, error) {
	var events []domain.LedgerEvent
	for rows.Next() {
		var e domain.LedgerEvent
		var kind string
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.Quantity, &kind,
			&e.Warehouse, &e.Handler, &e.Amount, &e.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger event row: %w", err)
		}
		e.Kind = domain.EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger event rows: %w", err)
	}

	return events, nil
}
