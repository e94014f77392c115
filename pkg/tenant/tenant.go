package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Tenant represents one subscribing organization. The owner email is the
// login identity of the account created at registration; it resolves to the
// tenant's always-full-access admin.
type Tenant struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	OwnerEmail            string    `json:"owner_email"`
	Plan                  Plan      `json:"plan"`
	SubscriptionExpiresAt time.Time `json:"subscription_expires_at"`
	CreatedAt             time.Time `json:"created_at"`
}

// IsProActive reports whether the tenant is on the pro tier with an
// unexpired subscription at the given instant. Seat-gated operations call
// this with time.Now().
func (t Tenant) IsProActive(now time.Time) bool {
	return t.Plan == PlanPro && t.SubscriptionExpiresAt.After(now)
}

// Provider loads tenant records. Read-only from this core's perspective:
// registration and billing updates happen elsewhere.
type Provider interface {
	// GetByID retrieves a tenant by its identifier.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// GetByOwnerEmail retrieves the tenant whose registered owner identity
	// matches the email. Used by session resolution to recognize owners.
	// Returns ErrTenantNotFound if the email owns no tenant.
	GetByOwnerEmail(ctx context.Context, email string) (*Tenant, error)
}
