package tenant

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturehq/accesskit/pkg/pg"
)

// PGProvider reads tenant records from the tenants table.
type PGProvider struct {
	pool *pgxpool.Pool
}

// NewPGProvider creates a PostgreSQL-backed tenant provider.
func NewPGProvider(pool *pgxpool.Pool) *PGProvider {
	return &PGProvider{pool: pool}
}

const tenantColumns = `id, name, owner_email, plan, subscription_expires_at, created_at`

func (p *PGProvider) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

func (p *PGProvider) GetByOwnerEmail(ctx context.Context, email string) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE lower(owner_email) = $1`,
		strings.ToLower(email))
	return scanTenant(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*Tenant, error) {
	var (
		t       Tenant
		expires sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Name, &t.OwnerEmail, &t.Plan, &expires, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: query failed: %w", err)
	}
	if expires.Valid {
		t.SubscriptionExpiresAt = expires.Time.UTC()
	} else {
		t.SubscriptionExpiresAt = time.Time{}
	}
	return &t, nil
}
