package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Names are unique among active rows only, so a deleted role or
// permission can be recreated.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS permissions (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS permissions_active_name
		ON permissions (name) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS roles (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'active',
		permission_ids TEXT[] NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS roles_active_name
		ON roles (name) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		username   TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		role_ids   TEXT[] NOT NULL DEFAULT '{}',
		status     TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the identity tables. It is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
