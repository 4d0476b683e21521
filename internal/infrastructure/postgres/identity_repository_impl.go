package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/domain/repository"
)

// IdentityRepository persists identities in a single table keyed by email.
// Admins and members share the key space; the primary key constraint is what
// guarantees at most one record per email regardless of role.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	i := &entity.Identity{}
	var photoURL *string

	row := r.pool.QueryRow(ctx, `
		SELECT email, password_hash, name, role, photo_url, created_at, updated_at
		FROM identities
		WHERE email = $1
	`, email)

	if err := row.Scan(&i.Email, &i.PasswordHash, &i.Name, &i.Role, &photoURL,
		&i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if photoURL != nil {
		i.PhotoURL = *photoURL
	}
	return i, nil
}

func (r *IdentityRepository) EmailAvailable(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM identities WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (r *IdentityRepository) CreateMember(ctx context.Context, m *entity.Identity) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO identities (email, password_hash, name, role, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, m.Email, m.PasswordHash, m.Name, entity.RoleMember, m.PhotoURL)

	if err := row.Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	m.Role = entity.RoleMember
	return nil
}

func (r *IdentityRepository) UpdateHash(ctx context.Context, email, newHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE identities
		SET password_hash = $1, updated_at = $2
		WHERE email = $3
	`, newHash, time.Now(), email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *IdentityRepository) UpdateMemberProfile(ctx context.Context, email, name string, photoURL *string) error {
	// COALESCE keeps the current photo when the caller passes nil, so the
	// whole update stays a single atomic statement.
	res, err := r.pool.Exec(ctx, `
		UPDATE identities
		SET name = $1, photo_url = COALESCE($2, photo_url), updated_at = $3
		WHERE email = $4 AND role = $5
	`, name, photoURL, time.Now(), email, entity.RoleMember)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
