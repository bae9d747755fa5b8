package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/testutil"
)

// Unit Tests

func TestNewMySQLUserRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestUserRepository_FindByRole_OrderedByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	_, err := db.Exec(`
		INSERT INTO users (full_name, email, role, warehouse_location)
		VALUES ('Ana Admin', 'ana@example.com', 'ADMIN', NULL),
		       ('Bob Buyer', 'bob@example.com', 'BUYER', 'North'),
		       ('Beth Buyer', 'beth@example.com', 'BUYER', 'South')
	`)
	require.NoError(t, err)

	buyers, err := repo.FindByRole(context.Background(), domain.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, buyers, 2)

	// Lowest id first, so the default picker is deterministic.
	assert.Equal(t, "Bob Buyer", buyers[0].FullName)
	assert.True(t, buyers[0].IsBuyer())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	_, err := repo.FindByID(context.Background(), 9999)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUserRepository_FindByID_NullWarehouseLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLUserRepository(db)

	result, err := db.Exec(`
		INSERT INTO users (full_name, email, role, warehouse_location)
		VALUES ('Ana Admin', 'ana@example.com', 'ADMIN', NULL)
	`)
	require.NoError(t, err)
	id, _ := result.LastInsertId()

	user, err := repo.FindByID(context.Background(), uint(id))
	require.NoError(t, err)
	assert.Equal(t, "", user.WarehouseLocation)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}
