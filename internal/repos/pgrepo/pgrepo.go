// Package pgrepo implements the identity repositories on PostgreSQL. Every
// call acquires the pool through the driver's connection manager, so a
// lost database fails fast with an unavailable error.
package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	coreerrors "gatehouse/internal/core/errors"
)

// Provider is the name the postgres driver exports its manager under.
const Provider = "Postgres"

// Acquirer hands out the live pool. *connmgr.Manager[*pgxpool.Pool]
// satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context) (*pgxpool.Pool, error)
}

const uniqueViolation = "23505"

func storageError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return coreerrors.Wrap(err, coreerrors.CodeAlreadyExists, msg)
	}
	if coreerrors.IsCode(err, coreerrors.CodeUnavailable) {
		return err
	}
	return coreerrors.Wrap(err, coreerrors.CodeStorageError, msg)
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return coreerrors.Newf(coreerrors.CodeNotFound, format, args...)
	}
	return nil
}

// collect scans every row with scan, keeping non-nil results.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeStorageError, "iterate rows")
	}
	return out, nil
}
