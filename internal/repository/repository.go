package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so the same repository
// code runs inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translate maps driver errors onto the repository sentinels, keeping the
// original error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Join(ErrUniqueViolation, err)
		case "23503":
			return errors.Join(ErrForeignKeyViolation, err)
		}
	}
	return err
}

// fail translates err and logs the driver errors that map onto no sentinel.
// Sentinel errors are expected outcomes and are left to the caller.
func fail(logger *zap.Logger, op string, err error) error {
	err = translate(err)
	if err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUniqueViolation) ||
		errors.Is(err, ErrForeignKeyViolation) {
		return err
	}
	logger.Warn("query failed", zap.String("op", op), zap.Error(err))
	return err
}
