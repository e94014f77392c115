package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturehq/accesskit/pkg/pg"
)

// PGStore is a PostgreSQL-backed Store over the users table. Per-tenant
// email uniqueness is enforced by the (tenant_id, email) unique constraint.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed account store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const userColumns = `id, tenant_id, name, email, role, permissions, is_active, created_by, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, u *User) error {
	perms, err := json.Marshal(u.Permissions)
	if err != nil {
		return fmt.Errorf("directory: marshal permissions: %w", err)
	}

	var createdBy *uuid.UUID
	if u.CreatedBy != uuid.Nil {
		createdBy = &u.CreatedBy
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.TenantID, u.Name, strings.ToLower(u.Email), u.Role, perms,
		u.IsActive, createdBy, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("directory: insert user: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, u *User) error {
	perms, err := json.Marshal(u.Permissions)
	if err != nil {
		return fmt.Errorf("directory: marshal permissions: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2, email = $3, permissions = $4, is_active = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.Name, strings.ToLower(u.Email), perms, u.IsActive, u.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("directory: update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("directory: delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PGStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND email = $2`,
		tenantID, strings.ToLower(email))
	return scanUser(row)
}

func (s *PGStore) FindByEmailAny(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`,
		strings.ToLower(email))
	return scanUser(row)
}

func (s *PGStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE tenant_id = $1
		 ORDER BY created_at DESC, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("directory: list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: list users: %w", err)
	}
	return out, nil
}

func (s *PGStore) CountByRole(ctx context.Context, tenantID uuid.UUID, role Role) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE tenant_id = $1 AND role = $2`,
		tenantID, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("directory: count users: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u         User
		perms     []byte
		createdBy *uuid.UUID
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role, &perms,
		&u.IsActive, &createdBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("directory: query user: %w", err)
	}

	if err := json.Unmarshal(perms, &u.Permissions); err != nil {
		return nil, fmt.Errorf("directory: unmarshal permissions: %w", err)
	}
	if createdBy != nil {
		u.CreatedBy = *createdBy
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}
