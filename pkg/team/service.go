package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/credentials"
	"github.com/facturehq/accesskit/pkg/directory"
	"github.com/facturehq/accesskit/pkg/logger"
	"github.com/facturehq/accesskit/pkg/sanitizer"
	"github.com/facturehq/accesskit/pkg/tenant"
	"github.com/facturehq/accesskit/pkg/validator"
)

// DefaultSeatLimit is the number of non-admin accounts a pro tenant may hold.
const DefaultSeatLimit = 3

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Service manages tenant user accounts.
type Service struct {
	dir     *directory.Service
	auth    credentials.Authenticator
	manager credentials.Manager
	tenants tenant.Provider

	log       *slog.Logger
	seatLimit int
	now       func() time.Time
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSeatLimit overrides the non-admin seat allowance.
func WithSeatLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.seatLimit = limit
		}
	}
}

// WithManager provides the elevated credential handle used for password
// resets and best-effort revocation on delete. Without it, both fall back to
// a guard that refuses, matching backends reached without admin access.
func WithManager(m credentials.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.manager = m
		}
	}
}

// WithClock overrides the time source. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an account lifecycle service.
func NewService(dir *directory.Service, auth credentials.Authenticator, tenants tenant.Provider, opts ...Option) *Service {
	s := &Service{
		dir:       dir,
		auth:      auth,
		manager:   credentials.Guarded(),
		tenants:   tenants,
		log:       logger.Noop(),
		seatLimit: DefaultSeatLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the fields for a new tenant user account.
type CreateInput struct {
	TenantID    uuid.UUID
	RequesterID uuid.UUID
	Name        string
	Email       string
	Password    string
	Permissions capability.Set
}

// Create provisions a new non-admin account: tier gate, seat gate, input
// validation, then credential creation followed by the directory write.
// The returned account has role user, is active, and carries the requester
// as creator.
func (s *Service) Create(ctx context.Context, in CreateInput) (*directory.User, error) {
	in.Name = sanitizer.TrimName(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)

	t, err := s.tenants.GetByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, errors.Join(ErrBackendUnavailable, err)
	}

	// Multi-user accounts are a pro-tier feature; an expired pro
	// subscription counts as free.
	if !t.IsProActive(s.now()) {
		return nil, ErrNotAuthorized
	}

	used, err := s.dir.CountByRole(ctx, in.TenantID, directory.RoleUser)
	if err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	if used >= s.seatLimit {
		return nil, ErrSeatLimitExceeded
	}

	if err := validator.Apply(
		validator.RequiredString("name", in.Name),
		validator.RequiredString("email", in.Email),
		validator.ValidEmail("email", in.Email),
		validator.RequiredString("password", in.Password),
		validator.MinLenString("password", in.Password, MinPasswordLength),
		validator.Custom("permissions", "at least one permission is required", in.Permissions.HasAny),
	); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	if _, err := s.dir.FindByEmail(ctx, in.TenantID, in.Email); err == nil {
		return nil, fmt.Errorf("%w: email already used in this workspace", ErrInvalidInput)
	} else if !errors.Is(err, directory.ErrUserNotFound) {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}

	// All gates passed: first the login credential, then the record.
	principalID, err := s.auth.Create(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		}
		return nil, errors.Join(ErrBackendUnavailable, err)
	}

	now := s.now().UTC()
	u := &directory.User{
		ID:          uuid.New(),
		Name:        in.Name,
		Email:       in.Email,
		Role:        directory.RoleUser,
		Permissions: in.Permissions,
		IsActive:    true,
		TenantID:    in.TenantID,
		CreatedBy:   in.RequesterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.dir.Create(ctx, u); err != nil {
		// The credential exists but the record does not. Revocation needs
		// elevated backend access, so the inconsistency is surfaced for
		// reconciliation instead of rolled back.
		s.log.ErrorContext(ctx, "directory write failed after credential creation",
			slog.String("email", in.Email),
			slog.String("principal_id", principalID.String()),
			slog.Any("error", err))
		return nil, errors.Join(ErrOrphanedCredential, err)
	}

	s.log.InfoContext(ctx, "team member created",
		slog.String("user_id", u.ID.String()),
		slog.String("tenant_id", in.TenantID.String()),
		slog.String("created_by", in.RequesterID.String()))
	return u, nil
}

// UpdateInput carries the editable fields of an account. Nil fields are left
// unchanged.
type UpdateInput struct {
	Name        *string
	Email       *string
	Permissions *capability.Set
}

// Update edits a non-admin account. Admin accounts are immutable through
// this path: their permissions are always the full set regardless of
// storage, so edits to them are refused outright.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*directory.User, error) {
	u, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	rules := make([]validator.Rule, 0, 4)
	if in.Name != nil {
		*in.Name = sanitizer.TrimName(*in.Name)
		rules = append(rules, validator.RequiredString("name", *in.Name))
	}
	if in.Email != nil {
		*in.Email = sanitizer.NormalizeEmail(*in.Email)
		rules = append(rules,
			validator.RequiredString("email", *in.Email),
			validator.ValidEmail("email", *in.Email))
	}
	if in.Permissions != nil {
		rules = append(rules, validator.Custom("permissions",
			"at least one permission is required", in.Permissions.HasAny))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Permissions != nil {
		u.Permissions = *in.Permissions
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.dir.Update(ctx, u); err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already used in this workspace", ErrInvalidInput)
		}
		return nil, errors.Join(ErrBackendUnavailable, err)
	}

	return u, nil
}

// Delete removes a non-admin account. The owner account cannot be deleted
// through this path. Credential revocation afterwards is best-effort: a
// failure is logged and the delete still succeeds.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return ErrNotAuthorized
	}

	if err := s.dir.Delete(ctx, id); err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}

	if err := s.manager.Revoke(ctx, u.Email); err != nil {
		s.log.WarnContext(ctx, "credential revocation failed after account deletion",
			slog.String("email", u.Email),
			slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "team member deleted",
		slog.String("user_id", id.String()),
		slog.String("tenant_id", u.TenantID.String()))
	return nil
}

// ToggleStatus flips the account's active flag. Permissions and every other
// field are untouched; an inactive account stays queryable for admin
// screens but fails session resolution.
func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (*directory.User, error) {
	u, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.IsActive = !u.IsActive
	u.UpdatedAt = s.now().UTC()

	if err := s.dir.Update(ctx, u); err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	return u, nil
}

// ResetPassword rotates the account's login credential. Rotation requires
// the elevated backend handle; without one the guard refuses and the
// failure surfaces as ErrBackendUnavailable.
func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if err := validator.Apply(
		validator.RequiredString("password", newPassword),
		validator.MinLenString("password", newPassword, MinPasswordLength),
	); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}

	u, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.manager.Rotate(ctx, u.Email, newPassword); err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}

	s.log.InfoContext(ctx, "password reset",
		slog.String("user_id", id.String()),
		slog.String("tenant_id", u.TenantID.String()))
	return nil
}

// CanCreateUser reports whether the tenant may add another non-admin
// account: pro tier, unexpired subscription, and a free seat. Recomputed
// from live data on every call.
func (s *Service) CanCreateUser(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if !t.IsProActive(s.now()) {
		return false, nil
	}

	used, err := s.dir.CountByRole(ctx, tenantID, directory.RoleUser)
	if err != nil {
		return false, errors.Join(ErrBackendUnavailable, err)
	}
	return used < s.seatLimit, nil
}

// SeatUsage returns the tenant's occupied and total non-admin seats, for the
// "N of 3 users" counter in admin screens.
func (s *Service) SeatUsage(ctx context.Context, tenantID uuid.UUID) (used, limit int, err error) {
	used, err = s.dir.CountByRole(ctx, tenantID, directory.RoleUser)
	if err != nil {
		return 0, 0, errors.Join(ErrBackendUnavailable, err)
	}
	return used, s.seatLimit, nil
}
