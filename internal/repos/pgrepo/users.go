package pgrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
)

const userColumns = `id, email, username, password, role_ids, status, created_at, updated_at`

type UserRepository struct {
	db Acquirer
}

var _ repos.IUserRepository = (*UserRepository)(nil)

func NewUserRepository(db Acquirer) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.RoleIDs == nil {
		user.RoleIDs = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, err = pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.Username, user.Password, user.RoleIDs, string(user.Status), now, now)
	if err != nil {
		return storageError(err, "create user")
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if nf := notFound(err, "user %s not found", id); nf != nil {
		return nil, nf
	}
	return u, err
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 OR username = $1
		ORDER BY created_at LIMIT 1
	`, login))
	if nf := notFound(err, "user %s not found", login); nf != nil {
		return nil, nf
	}
	return u, err
}

func (r *UserRepository) FindConflicts(ctx context.Context, email, username string) ([]*models.User, error) {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 OR username = $2
		ORDER BY created_at
	`, email, username)
	if err != nil {
		return nil, storageError(err, "query users")
	}
	return collect(rows, scanUser)
}

func (r *UserRepository) SetRoles(ctx context.Context, id string, roleIDs []string) error {
	pool, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if roleIDs == nil {
		roleIDs = []string{}
	}
	tag, err := pool.Exec(ctx, `UPDATE users SET role_ids = $2, updated_at = now() WHERE id = $1`, id, roleIDs)
	if err != nil {
		return storageError(err, "update user roles")
	}
	if tag.RowsAffected() == 0 {
		return coreerrors.Newf(coreerrors.CodeNotFound, "user %s not found", id)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u      models.User
		status string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.RoleIDs, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, coreerrors.Wrap(err, coreerrors.CodeStorageError, "scan user")
	}
	u.Status = models.Status(status)
	return &u, nil
}
