package pgrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

const permissionColumns = `id, name, status, created_at, updated_at`

type PermissionRepository struct {
	db Acquirer
}

var _ repos.IPermissionRepository = (*PermissionRepository)(nil)

func NewPermissionRepository(db Acquirer) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, p *models.Permission) error {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err = pool.Exec(ctx, `
		INSERT INTO permissions (`+permissionColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Name, string(p.Status), now, now)
	if err != nil {
		return storageError(err, "create permission")
	}
	return nil
}

func (r *PermissionRepository) FindActiveByName(ctx context.Context, name string) (*models.Permission, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	p, err := scanPermission(pool.QueryRow(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE name = $1 AND status = $2`,
		name, string(models.StatusActive)))
	if nf := notFound(err, "permission %s not found", name); nf != nil {
		return nil, nf
	}
	return p, err
}

func (r *PermissionRepository) List(ctx context.Context, filter repos.PermissionFilter) ([]*models.Permission, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT `+permissionColumns+` FROM permissions
		WHERE ($1 = '' OR name = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at
	`, filter.Name, string(filter.Status))
	if err != nil {
		return nil, storageError(err, "list permissions")
	}
	return collect(rows, scanPermission)
}

func scanPermission(row pgx.Row) (*models.Permission, error) {
	var (
		p      models.Permission
		status string
	)
	if err := row.Scan(&p.ID, &p.Name, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, coreerrors.Wrap(err, coreerrors.CodeStorageError, "scan permission")
	}
	p.Status = models.Status(status)
	return &p, nil
}
