package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "radagast/internal/errors"
	"radagast/internal/testutil"
)

// Unit Tests

func TestNewMySQLProductRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLProductRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestProductRepository_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	result, err := db.Exec(`
		INSERT INTO products (name, description, quantity, reorder_threshold, price)
		VALUES ('Widget', 'A widget', 40, 10, 12.50)
	`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	product, err := repo.FindByID(context.Background(), uint(id))
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 40, product.Quantity)
	assert.Equal(t, 10, product.ReorderThreshold)
	assert.Equal(t, 12.50, product.Price)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	_, err := repo.FindByID(context.Background(), 9999)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductRepository_UpdateQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	result, err := db.Exec(`
		INSERT INTO products (name, quantity, reorder_threshold, price)
		VALUES ('Widget', 40, 10, 12.50)
	`)
	require.NoError(t, err)
	id, _ := result.LastInsertId()

	err = repo.UpdateQuantity(context.Background(), db, uint(id), 55)
	require.NoError(t, err)

	product, err := repo.FindByID(context.Background(), uint(id))
	require.NoError(t, err)
	assert.Equal(t, 55, product.Quantity)
}

func TestProductRepository_UpdateQuantity_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	err := repo.UpdateQuantity(context.Background(), db, 9999, 55)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductRepository_FindByIDForUpdate_InTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	result, err := db.Exec(`
		INSERT INTO products (name, quantity, reorder_threshold, price)
		VALUES ('Widget', 40, 10, 12.50)
	`)
	require.NoError(t, err)
	id, _ := result.LastInsertId()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	product, err := repo.FindByIDForUpdate(context.Background(), tx, uint(id))
	require.NoError(t, err)
	assert.Equal(t, 40, product.Quantity)
}

func TestProductRepository_FindAll_OrderedByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	_, err := db.Exec(`
		INSERT INTO products (name, quantity, reorder_threshold, price)
		VALUES ('A', 1, 1, 1.00), ('B', 2, 2, 2.00), ('C', 3, 3, 3.00)
	`)
	require.NoError(t, err)

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, "C", products[2].Name)
}
