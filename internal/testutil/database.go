package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance on localhost:3306 with a 'radagast_test' schema and skips
// the test when none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/radagast_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"purchase_orders", "ledger_events", "users", "products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		quantity INT NOT NULL DEFAULT 0,
		reorder_threshold INT NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		full_name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		role VARCHAR(30) NOT NULL DEFAULT 'USER',
		warehouse_location VARCHAR(150),
		INDEX idx_role (role)
	)`

	createLedgerEventsTable := `
	CREATE TABLE IF NOT EXISTS ledger_events (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id INT UNSIGNED NOT NULL,
		quantity INT NOT NULL,
		kind VARCHAR(20) NOT NULL,
		warehouse VARCHAR(150) NOT NULL,
		handler VARCHAR(150) NOT NULL,
		amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_product (product_id),
		INDEX idx_warehouse (warehouse),
		INDEX idx_occurred (occurred_at)
	)`

	createPurchaseOrdersTable := `
	CREATE TABLE IF NOT EXISTS purchase_orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id INT UNSIGNED NOT NULL,
		buyer_id INT UNSIGNED NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		auto_triggered TINYINT(1) NOT NULL DEFAULT 0,
		supplier_info VARCHAR(255),
		notes TEXT,
		order_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completion_date DATETIME,
		INDEX idx_buyer (buyer_id),
		INDEX idx_status (status),
		INDEX idx_auto (auto_triggered)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"products", createProductsTable},
		{"users", createUsersTable},
		{"ledger_events", createLedgerEventsTable},
		{"purchase_orders", createPurchaseOrdersTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
