package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNoRedisTx is returned by Commit and Rollback outside a unit of work.
var ErrNoRedisTx = errors.New("no redis unit of work in context")

type redisTxKey struct{}

// redisTx queues the task writes of one unit of work. Only the scope that
// began it executes or discards the queue.
type redisTx struct {
	pipe  redis.Pipeliner
	owner bool
}

func redisTxFrom(ctx context.Context) (*redisTx, bool) {
	tx, ok := ctx.Value(redisTxKey{}).(*redisTx)
	return tx, ok && tx != nil
}

// RedisUnitOfWork sends every task write made inside it as one MULTI/EXEC, so
// an import with replace either lands whole or not at all. Reads and id
// allocation go straight to the server: writes queued in the unit are not
// visible until Commit, and a discarded unit can leave a gap in the id sequence.
type RedisUnitOfWork struct {
	client *redis.Client
}

// NewRedisUnitOfWork creates a unit of work on client.
func NewRedisUnitOfWork(client *redis.Client) *RedisUnitOfWork {
	return &RedisUnitOfWork{client: client}
}

func (u *RedisUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := redisTxFrom(ctx); ok {
		return context.WithValue(ctx, redisTxKey{}, &redisTx{pipe: tx.pipe}), nil
	}
	return context.WithValue(ctx, redisTxKey{}, &redisTx{pipe: u.client.TxPipeline(), owner: true}), nil
}

func (u *RedisUnitOfWork) Commit(ctx context.Context) error {
	tx, ok := redisTxFrom(ctx)
	if !ok {
		return ErrNoRedisTx
	}
	if !tx.owner {
		return nil
	}
	if _, err := tx.pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to commit task writes: %w", err)
	}
	return nil
}

func (u *RedisUnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := redisTxFrom(ctx)
	if !ok {
		return ErrNoRedisTx
	}
	if tx.owner {
		tx.pipe.Discard()
	}
	return nil
}
