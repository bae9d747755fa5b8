package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radagast/internal/domain"
	"radagast/internal/testutil"
)

// Unit Tests

func TestNewMySQLLedgerEventRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLLedgerEventRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertEvent(t *testing.T, db *sql.DB, productID uint, quantity int, kind domain.EventKind, warehouse string, occurredAt time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO ledger_events (product_id, quantity, kind, warehouse, handler, amount, occurred_at)
		VALUES (?, ?, ?, ?, 'tester', 1.00, ?)
	`, productID, quantity, string(kind), warehouse, occurredAt)
	require.NoError(t, err)
}

func TestLedgerEventRepository_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLedgerEventRepository(db)

	event := domain.LedgerEvent{
		ProductID:  1,
		Quantity:   5,
		Kind:       domain.EventSale,
		Warehouse:  "Main Warehouse",
		Handler:    "alice",
		Amount:     62.50,
		OccurredAt: time.Now(),
	}

	id, err := repo.Insert(context.Background(), db, event)
	require.NoError(t, err)
	assert.NotZero(t, id)

	events, err := repo.FindByProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventSale, events[0].Kind)
	assert.Equal(t, 62.50, events[0].Amount)
}

func TestLedgerEventRepository_FindByProductSince_AscendingOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLedgerEventRepository(db)

	now := time.Now()
	insertEvent(t, db, 1, 3, domain.EventSale, "A", now.AddDate(0, 0, -2))
	insertEvent(t, db, 1, 5, domain.EventSale, "A", now.AddDate(0, 0, -1))
	insertEvent(t, db, 1, 7, domain.EventSale, "A", now.AddDate(0, 0, -120)) // outside window
	insertEvent(t, db, 2, 9, domain.EventSale, "A", now)                     // other product

	since := now.AddDate(0, 0, -90)
	events, err := repo.FindByProductSince(context.Background(), 1, since)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Oldest first.
	assert.Equal(t, 3, events[0].Quantity)
	assert.Equal(t, 5, events[1].Quantity)
}

func TestLedgerEventRepository_FindByWarehouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLedgerEventRepository(db)

	now := time.Now()
	insertEvent(t, db, 1, 3, domain.EventSale, "North", now)
	insertEvent(t, db, 1, 5, domain.EventShipment, "South", now)

	events, err := repo.FindByWarehouse(context.Background(), "North")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "North", events[0].Warehouse)
}

func TestLedgerEventRepository_FindSalesSince_ExcludesOtherKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLedgerEventRepository(db)

	now := time.Now()
	insertEvent(t, db, 1, 3, domain.EventSale, "A", now)
	insertEvent(t, db, 1, 50, domain.EventShipment, "A", now)
	insertEvent(t, db, 1, 2, domain.EventReturn, "A", now)

	events, err := repo.FindSalesSince(context.Background(), now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventSale, events[0].Kind)
}
