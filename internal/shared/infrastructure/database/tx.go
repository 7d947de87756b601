package database

import (
	"context"
	"errors"
)

// ErrNoTx is returned by Commit and Rollback when the context carries no transaction.
var ErrNoTx = errors.New("no transaction in context")

type txKey struct{}

// txScope is what a UnitOfWork stores in the context. Only the scope that
// began the transaction ends it.
type txScope struct {
	tx    Tx
	owner bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// QuerierFor returns the transaction carried by ctx, or conn outside one.
func QuerierFor(ctx context.Context, conn Conn) Querier {
	if s, ok := scopeFrom(ctx); ok {
		return s.tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on a Conn. A Begin inside an
// open transaction joins it; the outer Commit or Rollback decides.
type UnitOfWork struct {
	conn Conn
}

// NewUnitOfWork creates a UnitOfWork on conn.
func NewUnitOfWork(conn Conn) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txKey{}, txScope{tx: s.tx}), nil
	}
	tx, err := u.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: true}), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.end(ctx, Tx.Commit)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.end(ctx, Tx.Rollback)
}

func (u *UnitOfWork) end(ctx context.Context, fn func(Tx, context.Context) error) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTx
	}
	if !s.owner {
		return nil
	}
	return fn(s.tx, ctx)
}
