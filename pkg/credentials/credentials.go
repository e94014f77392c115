package credentials

import (
	"context"

	"github.com/google/uuid"
)

// Authenticator is the unprivileged surface of the identity backend.
type Authenticator interface {
	// Create registers a login credential and returns the principal ID the
	// backend assigned to it. Returns ErrEmailTaken if the email is already
	// registered.
	Create(ctx context.Context, email, password string) (uuid.UUID, error)

	// Verify checks an email/password pair and returns the principal ID.
	// Returns ErrInvalidCredentials on mismatch or unknown email; callers
	// must not distinguish the two.
	Verify(ctx context.Context, email, password string) (uuid.UUID, error)
}

// Manager is the privileged surface of the identity backend: changing or
// revoking a credential that belongs to another principal. Real backends
// require administrative authentication for these; implementations must
// return ErrElevatedAccessRequired when that requirement is not met.
type Manager interface {
	// Rotate replaces the password of an existing credential.
	Rotate(ctx context.Context, email, newPassword string) error

	// Revoke removes the credential entirely. Best-effort during account
	// deletion; a failure leaves a credential with no matching account.
	Revoke(ctx context.Context, email string) error
}
