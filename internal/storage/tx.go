package storage

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql used by repositories. Both
// *sql.DB and *sql.Tx satisfy it, so repository methods run the same
// way inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is an in-flight transaction. *sql.Tx satisfies it; tests supply
// fakes.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

// TransactionManager opens transactions. In production this is a thin
// wrapper over *sql.DB.
type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type sqlTransactionManager struct {
	db *sql.DB
}

func NewTransactionManager(db *sql.DB) TransactionManager {
	return &sqlTransactionManager{db: db}
}

func (m *sqlTransactionManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return m.db.BeginTx(ctx, opts)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Tx      = (*sql.Tx)(nil)
)
