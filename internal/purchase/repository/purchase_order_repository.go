package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"radagast/internal/domain"
	"radagast/internal/errors"
	"radagast/internal/storage"
)

type MySQLPurchaseOrderRepository struct {
	db *sql.DB
}

func NewMySQLPurchaseOrderRepository(db *sql.DB) *MySQLPurchaseOrderRepository {
	return &MySQLPurchaseOrderRepository{db: db}
}

const orderColumns = `id, product_id, buyer_id, quantity, unit_price, total_amount, status,
	       auto_triggered, supplier_info, notes, order_date, completion_date`

func (r *MySQLPurchaseOrderRepository) Insert(ctx context.Context, q storage.Querier, order domain.PurchaseOrder) (uint, error) {
	query := `
		INSERT INTO purchase_orders
			(product_id, buyer_id, quantity, unit_price, total_amount, status,
			 auto_triggered, supplier_info, notes, order_date, completion_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		order.ProductID, order.BuyerID, order.Quantity, order.UnitPrice, order.TotalAmount,
		string(order.Status), order.AutoTriggered, order.SupplierInfo, order.Notes,
		order.OrderDate, order.CompletionDate,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting purchase order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting purchase order id: %w", err)
	}

	return uint(id), nil
}

func (r *MySQLPurchaseOrderRepository) FindByID(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = ?`, orderColumns)
	return scanOrder(r.db.QueryRowContext(ctx, query, id), id)
}

// FindByIDForUpdate locks the order row so completion is serialized
// against concurrent completion attempts.
func (r *MySQLPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = ? FOR UPDATE`, orderColumns)
	return scanOrder(q.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLPurchaseOrderRepository) UpdateStatus(ctx context.Context, q storage.Querier, id uint, status domain.OrderStatus, completionDate *time.Time) error {
	query := `UPDATE purchase_orders SET status = ?, completion_date = ? WHERE id = ?`

	result, err := q.ExecContext(ctx, query, string(status), completionDate, id)
	if err != nil {
		return fmt.Errorf("updating purchase order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("purchase order with id %d not found", id))
	}

	return nil
}

func (r *MySQLPurchaseOrderRepository) FindByBuyer(ctx context.Context, buyerID uint) ([]domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE buyer_id = ? ORDER BY order_date DESC`, orderColumns)
	return r.queryOrders(ctx, query, buyerID)
}

func (r *MySQLPurchaseOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE status = ? ORDER BY order_date DESC`, orderColumns)
	return r.queryOrders(ctx, query, string(status))
}

func (r *MySQLPurchaseOrderRepository) FindAutoTriggered(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE auto_triggered = 1 ORDER BY order_date DESC`, orderColumns)
	return r.queryOrders(ctx, query)
}

func (r *MySQLPurchaseOrderRepository) FindAll(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders ORDER BY order_date DESC`, orderColumns)
	return r.queryOrders(ctx, query)
}

func (r *MySQLPurchaseOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.PurchaseOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase order rows: %w", err)
	}

	return orders, nil
}

func scanOrder(row *sql.Row, id uint) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	var status string
	var supplierInfo, notes sql.NullString
	var completionDate sql.NullTime

	err := row.Scan(
		&order.ID, &order.ProductID, &order.BuyerID, &order.Quantity, &order.UnitPrice,
		&order.TotalAmount, &status, &order.AutoTriggered, &supplierInfo, &notes,
		&order.OrderDate, &completionDate,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("purchase order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying purchase order by id: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	order.SupplierInfo = supplierInfo.String
	order.Notes = notes.String
	if completionDate.Valid {
		order.CompletionDate = &completionDate.Time
	}

	return &order, nil
}

func scanOrderRow(rows *sql.Rows) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	var status string
	var supplierInfo, notes sql.NullString
	var completionDate sql.NullTime

	err := rows.Scan(
		&order.ID, &order.ProductID, &order.BuyerID, &order.Quantity, &order.UnitPrice,
		&order.TotalAmount, &status, &order.AutoTriggered, &supplierInfo, &notes,
		&order.OrderDate, &completionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning purchase order row: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	order.SupplierInfo = supplierInfo.String
	order.Notes = notes.String
	if completionDate.Valid {
		order.CompletionDate = &completionDate.Time
	}

	return &order, nil
}
