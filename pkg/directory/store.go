package directory

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence port for user accounts. Implementations must make
// ListByTenant return accounts ordered by creation time descending and must
// enforce per-tenant email uniqueness on Create and Update.
//
// Record writes are last-write-wins: no version check is performed, so two
// concurrent edits to the same account race and the later commit silently
// wins.
type Store interface {
	// Create persists a new account. Returns ErrEmailTaken if the email is
	// already used within the account's tenant.
	Create(ctx context.Context, u *User) error

	// Update overwrites an existing account record.
	// Returns ErrUserNotFound if the account does not exist.
	Update(ctx context.Context, u *User) error

	// Delete removes an account. Returns ErrUserNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves a single account.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves the tenant's account with the given email,
	// or ErrUserNotFound.
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// FindByEmailAny retrieves an account by email across all tenants.
	// Login resolution uses this because the principal's tenant is not
	// known until the account is found.
	FindByEmailAny(ctx context.Context, email string) (*User, error)

	// ListByTenant returns the tenant's accounts ordered by creation time
	// descending.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error)

	// CountByRole counts the tenant's accounts holding the given role,
	// active or not. Seat enforcement counts RoleUser.
	CountByRole(ctx context.Context, tenantID uuid.UUID, role Role) (int, error)
}
