// Package postgres opens the shared task store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
)

func init() {
	database.Register(database.DriverPostgres, Open)
}

// ErrNoLastInsertID is returned by Result.LastInsertId; inserts use RETURNING id.
var ErrNoLastInsertID = errors.New("postgres has no last insert id, use RETURNING")

// stmtRunner is the part of *pgxpool.Pool and pgx.Tx that queries need.
type stmtRunner interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct {
	run stmtRunner
}

func (q querier) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	tag, err := q.run.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result(tag), nil
}

func (q querier) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return q.run.QueryRow(ctx, query, args...)
}

func (q querier) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := q.run.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

type result pgconn.CommandTag

func (r result) RowsAffected() (int64, error) { return pgconn.CommandTag(r).RowsAffected(), nil }
func (r result) LastInsertId() (int64, error) { return 0, ErrNoLastInsertID }

type rows struct {
	pgx.Rows
}

func (r rows) Close() error {
	r.Rows.Close()
	return nil
}

// Conn is a PostgreSQL connection pool.
type Conn struct {
	querier
	pool *pgxpool.Pool
}

// Open connects a pool to the DATABASE_URL.
func Open(ctx context.Context, url string) (database.Conn, error) {
	if url == "" {
		return nil, errors.New("postgres store needs a database URL")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &Conn{querier: querier{run: pool}, pool: pool}, nil
}

func (c *Conn) Driver() database.Driver { return database.DriverPostgres }

func (c *Conn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *Conn) Close() error {
	c.pool.Close()
	return nil
}

func (c *Conn) Begin(ctx context.Context) (database.Tx, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{querier: querier{run: tx}, tx: tx}, nil
}

// Tx is an open PostgreSQL transaction.
type Tx struct {
	querier
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
