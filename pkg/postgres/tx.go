package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxManager struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

func NewTxManager(pool *pgxpool.Pool, isolationLevel string) (*TxManager, error) {
	iso, err := ParseIsolationLevel(isolationLevel)
	if err != nil {
		return nil, err
	}
	return &TxManager{pool: pool, opts: pgx.TxOptions{IsoLevel: iso}}, nil
}

// InTx commits when fn returns nil and rolls back otherwise. The connection
// goes back to the pool on every path, panics included.
func (m *TxManager) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, m.pool, m.opts, fn)
}

func ParseIsolationLevel(level string) (pgx.TxIsoLevel, error) {
	switch level {
	case "", "read committed":
		return pgx.ReadCommitted, nil
	case "repeatable read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unsupported isolation level %q", level)
	}
}
