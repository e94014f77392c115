package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/credentials"
	"github.com/facturehq/accesskit/pkg/directory"
	"github.com/facturehq/accesskit/pkg/logger"
	"github.com/facturehq/accesskit/pkg/sanitizer"
	"github.com/facturehq/accesskit/pkg/tenant"
)

// OperatorConfig holds the platform operator credential pair. Leaving either
// field empty disables the operator login path entirely.
type OperatorConfig struct {
	Email    string `env:"OPERATOR_EMAIL"`
	Password string `env:"OPERATOR_PASSWORD"`
}

// Enabled reports whether the operator path is configured.
func (c OperatorConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

// Resolver turns login credentials into identities.
type Resolver struct {
	auth    credentials.Authenticator
	tenants tenant.Provider
	dir     *directory.Service

	operator OperatorConfig
	log      *slog.Logger
}

// Option configures a Resolver during construction.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithOperator enables the operator login path with the given credential
// pair.
func WithOperator(cfg OperatorConfig) Option {
	return func(r *Resolver) {
		r.operator = cfg
	}
}

// NewResolver creates a session resolver over the given backends.
func NewResolver(auth credentials.Authenticator, tenants tenant.Provider, dir *directory.Service, opts ...Option) *Resolver {
	r := &Resolver{
		auth:    auth,
		tenants: tenants,
		dir:     dir,
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve authenticates the credential pair and maps it to an identity.
// The operator pair is checked before the credential backend is touched;
// after that, an owner email wins over a directory account with the same
// address. Inactive accounts fail with ErrAccountDisabled even though their
// credential verified.
func (r *Resolver) Resolve(ctx context.Context, email, password string) (Identity, error) {
	email = sanitizer.NormalizeEmail(email)

	if r.operator.Enabled() && constantTimeEqual(email, sanitizer.NormalizeEmail(r.operator.Email)) {
		if !constantTimeEqual(password, r.operator.Password) {
			return Identity{}, credentials.ErrInvalidCredentials
		}
		r.log.InfoContext(ctx, "operator session resolved")
		return Identity{
			Kind:        KindOperator,
			Email:       email,
			Name:        "Operator",
			Role:        directory.RoleAdmin,
			Permissions: capability.AdminDefaults(),
			Active:      true,
		}, nil
	}

	principalID, err := r.auth.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			return Identity{}, err
		}
		return Identity{}, errors.Join(ErrBackendUnavailable, err)
	}

	// Workspace owners have no directory record of their own; the tenant
	// record is their account.
	t, err := r.tenants.GetByOwnerEmail(ctx, email)
	if err == nil {
		r.log.InfoContext(ctx, "owner session resolved",
			slog.String("tenant_id", t.ID.String()))
		return Identity{
			Kind:        KindOwner,
			UserID:      principalID,
			TenantID:    t.ID,
			Name:        t.Name,
			Email:       email,
			Role:        directory.RoleAdmin,
			Permissions: capability.AdminDefaults(),
			Active:      true,
		}, nil
	}
	if !errors.Is(err, tenant.ErrTenantNotFound) {
		return Identity{}, errors.Join(ErrBackendUnavailable, err)
	}

	u, err := r.dir.FindByEmailAny(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return Identity{}, ErrAccountNotFound
		}
		return Identity{}, errors.Join(ErrBackendUnavailable, err)
	}
	if !u.IsActive {
		return Identity{}, ErrAccountDisabled
	}

	r.log.InfoContext(ctx, "member session resolved",
		slog.String("user_id", u.ID.String()),
		slog.String("tenant_id", u.TenantID.String()))
	return memberIdentity(u), nil
}

func memberIdentity(u *directory.User) Identity {
	return Identity{
		Kind:        KindMember,
		UserID:      u.ID,
		TenantID:    u.TenantID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
		Active:      u.IsActive,
	}
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Public login messages. Resolution failures that would reveal whether an
// email exists all collapse into the same text.
const (
	// MsgInvalidLogin covers bad passwords, unknown emails, and disabled
	// accounts alike.
	MsgInvalidLogin = "Invalid email or password."

	// MsgTryAgain covers backend failures where retrying can help.
	MsgTryAgain = "Sign-in is temporarily unavailable. Please try again."
)

// PublicMessage maps a Resolve error to the text safe to show at the login
// form. It never distinguishes an unknown email from a wrong password or a
// disabled account.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, credentials.ErrInvalidCredentials),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrAccountDisabled):
		return MsgInvalidLogin
	default:
		return MsgTryAgain
	}
}
