package pgrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

const roleColumns = `id, name, status, permission_ids, created_at, updated_at`

type RoleRepository struct {
	db Acquirer
}

var _ repos.IRoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db Acquirer) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if role.ID == "" {
		role.ID = models.NewID()
	}
	if role.Status == "" {
		role.Status = models.StatusActive
	}
	if role.PermissionIDs == nil {
		role.PermissionIDs = []string{}
	}
	now := time.Now().UTC()
	role.CreatedAt, role.UpdatedAt = now, now

	_, err = pool.Exec(ctx, `
		INSERT INTO roles (`+roleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, role.ID, role.Name, string(role.Status), role.PermissionIDs, now, now)
	if err != nil {
		return storageError(err, "create role")
	}
	return nil
}

func (r *RoleRepository) FindActiveByName(ctx context.Context, name string) (*models.Role, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	role, err := scanRole(pool.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = $1 AND status = $2`, name, string(models.StatusActive)))
	if nf := notFound(err, "role %s not found", name); nf != nil {
		return nil, nf
	}
	return role, err
}

func (r *RoleRepository) List(ctx context.Context, filter repos.RoleFilter) ([]*models.Role, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE ($1 = '' OR name = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at
	`, filter.Name, string(filter.Status))
	if err != nil {
		return nil, storageError(err, "list roles")
	}
	return collect(rows, scanRole)
}

func (r *RoleRepository) ListByIDs(ctx context.Context, ids []string, status models.Status) ([]*models.Role, error) {
	if len(ids) == 0 {
		return []*models.Role{}, nil
	}
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE id = ANY($1) AND ($2 = '' OR status = $2)
		ORDER BY created_at
	`, ids, string(status))
	if err != nil {
		return nil, storageError(err, "list roles by id")
	}
	return collect(rows, scanRole)
}

func scanRole(row pgx.Row) (*models.Role, error) {
	var (
		role   models.Role
		status string
	)
	err := row.Scan(&role.ID, &role.Name, &status, &role.PermissionIDs, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, coreerrors.Wrap(err, coreerrors.CodeStorageError, "scan role")
	}
	role.Status = models.Status(status)
	return &role, nil
}
