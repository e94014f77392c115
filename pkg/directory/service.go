package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/facturehq/accesskit/pkg/logger"
)

// Service combines a Store with the live snapshot feed. All account
// mutations must go through the Service so subscribers observe them;
// mutations are serialized internally, which makes snapshot delivery match
// commit order.
type Service struct {
	store Store
	feed  *feed
	log   *slog.Logger

	mu     sync.Mutex // serializes mutations so snapshots publish in commit order
	closed bool
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

// WithFeedBuffer sets the per-subscriber snapshot buffer size.
func WithFeedBuffer(size int) Option {
	return func(s *Service) {
		s.feed = newFeed(size)
	}
}

// NewService creates a directory service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		feed:  newFeed(8),
		log:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe returns a live subscription to one tenant's listing. The current
// snapshot is delivered first; re-subscribing always yields a fresh snapshot
// followed by further updates. The subscription ends when ctx is cancelled
// or its Close method is called.
func (s *Service) Subscribe(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}

	users, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("directory: initial snapshot: %w", err)
	}

	sub := s.feed.subscribe(ctx, tenantID)
	// Delivered under the mutation lock so no commit can slip in between
	// the initial snapshot and the first update.
	sub.send(Snapshot{TenantID: tenantID, Users: users})
	return sub, nil
}

// Create persists a new account and broadcasts the tenant's fresh listing.
func (s *Service) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	if err := s.store.Create(ctx, u); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "account created",
		slog.String("user_id", u.ID.String()),
		slog.String("tenant_id", u.TenantID.String()))
	s.publishLocked(ctx, u.TenantID)
	return nil
}

// Update overwrites an account record and broadcasts the fresh listing.
// Last-write-wins: there is no version check, so concurrent edits to the
// same record race and the later commit silently wins.
func (s *Service) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	if err := s.store.Update(ctx, u); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "account updated",
		slog.String("user_id", u.ID.String()),
		slog.String("tenant_id", u.TenantID.String()))
	s.publishLocked(ctx, u.TenantID)
	return nil
}

// Delete removes an account and broadcasts the fresh listing.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "account deleted",
		slog.String("user_id", id.String()),
		slog.String("tenant_id", u.TenantID.String()))
	s.publishLocked(ctx, u.TenantID)
	return nil
}

// GetByID retrieves a single account.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// FindByEmail retrieves the tenant's account with the given email.
func (s *Service) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error) {
	return s.store.FindByEmail(ctx, tenantID, email)
}

// FindByEmailAny retrieves an account by email across all tenants.
func (s *Service) FindByEmailAny(ctx context.Context, email string) (*User, error) {
	return s.store.FindByEmailAny(ctx, email)
}

// ListByTenant returns the tenant's accounts, newest first.
func (s *Service) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

// CountByRole counts the tenant's accounts with the given role.
func (s *Service) CountByRole(ctx context.Context, tenantID uuid.UUID, role Role) (int, error) {
	return s.store.CountByRole(ctx, tenantID, role)
}

// Close shuts the live feed down and closes every subscription. The
// underlying store is not touched. Close is idempotent.
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.feed.close()
	return nil
}

// publishLocked rebroadcasts the tenant's current listing. Callers must hold
// s.mu. A listing failure after a successful write is logged, not returned:
// the write committed and subscribers will converge on the next mutation.
func (s *Service) publishLocked(ctx context.Context, tenantID uuid.UUID) {
	users, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load snapshot for broadcast",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err))
		return
	}
	s.feed.publish(Snapshot{TenantID: tenantID, Users: users})
}
