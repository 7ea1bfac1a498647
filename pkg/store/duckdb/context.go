package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction carries a transaction through the context so stores can
// join an enclosing unit of work instead of writing directly to the pool.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTransaction returns the context transaction or nil.
func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
