// Package database is the SQL layer under the task store. PostgreSQL (pgx) and
// SQLite (database/sql) sit behind the same Conn, and a transaction started by
// a UnitOfWork travels in the context so repositories join it transparently.
package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Driver names a SQL backend. The values match config.StoreSQLite and
// config.StorePostgres and name the migrations directory of each backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

func (d Driver) String() string { return string(d) }

// Valid reports whether taskrank ships a schema for d.
func (d Driver) Valid() bool {
	return d == DriverSQLite || d == DriverPostgres
}

// Row is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by *sql.Rows; pgx rows are adapted.
type Rows interface {
	Row
	Next() bool
	Err() error
	Close() error
}

// Result is satisfied by sql.Result; pgx command tags are adapted.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Querier runs statements. Conn and Tx both implement it, so repositories take
// whichever QuerierFor hands them.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Tx is an open transaction.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is an open database handle.
type Conn interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// IsNoRows reports whether err means a single-row query matched nothing, for either driver.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
