package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturehq/accesskit/pkg/capability"
)

// Role is the account role within a tenant.
type Role string

const (
	// RoleAdmin is the tenant owner account created at registration.
	// Exactly one per tenant; it bypasses stored permissions entirely.
	RoleAdmin Role = "admin"

	// RoleUser is a seat-limited account whose effective rights equal its
	// stored permission set exactly.
	RoleUser Role = "user"
)

// User is a login identity scoped to exactly one tenant. JSON field names
// match the persisted account record, including the historical
// "entrepriseId" spelling of the tenant reference.
type User struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        Role           `json:"role"`
	Permissions capability.Set `json:"permissions"`
	IsActive    bool           `json:"isActive"`
	TenantID    uuid.UUID      `json:"entrepriseId"`
	CreatedBy   uuid.UUID      `json:"createdBy,omitzero"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsAdmin reports whether the account is the tenant's owner account.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
