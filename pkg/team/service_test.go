package team_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/credentials"
	"github.com/facturehq/accesskit/pkg/directory"
	"github.com/facturehq/accesskit/pkg/team"
	"github.com/facturehq/accesskit/pkg/tenant"
)

type fixture struct {
	svc     *team.Service
	dir     *directory.Service
	creds   *credentials.MemoryStore
	tenants *tenant.MemoryProvider
	tenant  tenant.Tenant
	ownerID uuid.UUID
}

type fixtureOption func(*tenant.Tenant)

func proTenant(t *tenant.Tenant) {
	t.Plan = tenant.PlanPro
	t.SubscriptionExpiresAt = time.Now().Add(30 * 24 * time.Hour)
}

func freeTenant(t *tenant.Tenant) {
	t.Plan = tenant.PlanFree
}

func expiredProTenant(t *tenant.Tenant) {
	t.Plan = tenant.PlanPro
	t.SubscriptionExpiresAt = time.Now().Add(-24 * time.Hour)
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()

	rec := tenant.Tenant{
		ID:         uuid.New(),
		Name:       "Acme SARL",
		OwnerEmail: "owner@acme.ma",
		CreatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(&rec)
	}

	tenants := tenant.NewMemoryProvider()
	require.NoError(t, tenants.Register(ctx, rec))

	dir := directory.NewService(directory.NewMemoryStore())
	t.Cleanup(func() { _ = dir.Close() })

	creds := credentials.NewMemoryStore(credentials.WithBcryptCost(bcrypt.MinCost))

	f := &fixture{
		dir:     dir,
		creds:   creds,
		tenants: tenants,
		tenant:  rec,
		ownerID: uuid.New(),
	}

	// The owner/admin account created at tenant registration.
	owner := &directory.User{
		ID:          f.ownerID,
		Name:        "Owner",
		Email:       rec.OwnerEmail,
		Role:        directory.RoleAdmin,
		Permissions: capability.AdminDefaults(),
		IsActive:    true,
		TenantID:    rec.ID,
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, dir.Create(ctx, owner))

	f.svc = team.NewService(dir, creds, tenants,
		team.WithManager(creds.Elevated()))
	return f
}

func validCreate(f *fixture) team.CreateInput {
	return team.CreateInput{
		TenantID:    f.tenant.ID,
		RequesterID: f.ownerID,
		Name:        "Alice",
		Email:       "a@x.com",
		Password:    "secret1",
		Permissions: capability.Set{Dashboard: true, Invoices: true},
	}
}

func TestService_Create_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	assert.Equal(t, directory.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, f.ownerID, u.CreatedBy)
	assert.Equal(t, "a@x.com", u.Email)
	assert.True(t, u.Permissions.Has(capability.Invoices))
	assert.False(t, u.Permissions.Has(capability.Settings))

	// Directory lists owner plus the new member.
	users, err := f.dir.ListByTenant(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// The login credential is usable.
	_, err = f.creds.Verify(ctx, "a@x.com", "secret1")
	assert.NoError(t, err)
}

func TestService_Create_NormalizesInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	in := validCreate(f)
	in.Name = "  Alice Martin "
	in.Email = "  Alice@X.com "

	u, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Alice Martin", u.Name)
	assert.Equal(t, "alice@x.com", u.Email)
}

func TestService_Create_FreeTierRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, freeTenant)

	_, err := f.svc.Create(ctx, validCreate(f))
	assert.ErrorIs(t, err, team.ErrNotAuthorized)
}

func TestService_Create_ExpiredProRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, expiredProTenant)

	_, err := f.svc.Create(ctx, validCreate(f))
	assert.ErrorIs(t, err, team.ErrNotAuthorized)
}

func TestService_Create_SeatLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	for i, email := range []string{"u1@x.com", "u2@x.com"} {
		in := validCreate(f)
		in.Name = "Member"
		in.Email = email
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err, "member %d must fit under the limit", i+1)
	}

	t.Run("third seat fills the allowance", func(t *testing.T) {
		in := validCreate(f)
		in.Email = "u3@x.com"
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)

		used, limit, err := f.svc.SeatUsage(ctx, f.tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, used)
		assert.Equal(t, team.DefaultSeatLimit, limit)
	})

	t.Run("fourth seat rejected", func(t *testing.T) {
		in := validCreate(f)
		in.Email = "u4@x.com"
		_, err := f.svc.Create(ctx, in)
		assert.ErrorIs(t, err, team.ErrSeatLimitExceeded)
		assert.NotErrorIs(t, err, team.ErrNotAuthorized)
	})

	t.Run("deactivated members still occupy seats", func(t *testing.T) {
		users, err := f.dir.ListByTenant(ctx, f.tenant.ID)
		require.NoError(t, err)
		var member *directory.User
		for i := range users {
			if users[i].Role == directory.RoleUser {
				member = &users[i]
				break
			}
		}
		require.NotNil(t, member)

		_, err = f.svc.ToggleStatus(ctx, member.ID)
		require.NoError(t, err)

		in := validCreate(f)
		in.Email = "u5@x.com"
		_, err = f.svc.Create(ctx, in)
		assert.ErrorIs(t, err, team.ErrSeatLimitExceeded)
	})
}

func TestService_Create_InvalidInput(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*team.CreateInput)
	}{
		{name: "missing name", mutate: func(in *team.CreateInput) { in.Name = " " }},
		{name: "missing email", mutate: func(in *team.CreateInput) { in.Email = "" }},
		{name: "malformed email", mutate: func(in *team.CreateInput) { in.Email = "not-an-email" }},
		{name: "missing password", mutate: func(in *team.CreateInput) { in.Password = "" }},
		{name: "short password", mutate: func(in *team.CreateInput) { in.Password = "abc12" }},
		{name: "empty permission set", mutate: func(in *team.CreateInput) { in.Permissions = capability.Set{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, proTenant)
			in := validCreate(f)
			tt.mutate(&in)

			_, err := f.svc.Create(ctx, in)
			require.ErrorIs(t, err, team.ErrInvalidInput)

			// Nothing was written: no credential, no directory entry.
			_, err = f.creds.Verify(ctx, in.Email, in.Password)
			assert.ErrorIs(t, err, credentials.ErrInvalidCredentials,
				"no orphaned credential may exist after a validation failure")

			users, listErr := f.dir.ListByTenant(ctx, f.tenant.ID)
			require.NoError(t, listErr)
			assert.Len(t, users, 1, "only the owner account may exist")
		})
	}
}

func TestService_Create_DuplicateEmailInTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	_, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	dup := validCreate(f)
	dup.Name = "Another"
	_, err = f.svc.Create(ctx, dup)
	assert.ErrorIs(t, err, team.ErrInvalidInput)
}

// failingStore rejects record creation to exercise the partial-failure
// window between credential creation and the directory write.
type failingStore struct {
	directory.Store
}

var errStoreDown = errors.New("store down")

func (f *failingStore) Create(ctx context.Context, u *directory.User) error {
	if u.Role == directory.RoleUser {
		return errStoreDown
	}
	return f.Store.Create(ctx, u)
}

func TestService_Create_OrphanedCredentialWindow(t *testing.T) {
	ctx := context.Background()

	rec := tenant.Tenant{ID: uuid.New(), Name: "Acme", OwnerEmail: "owner@acme.ma"}
	proTenant(&rec)
	tenants := tenant.NewMemoryProvider()
	require.NoError(t, tenants.Register(ctx, rec))

	dir := directory.NewService(&failingStore{Store: directory.NewMemoryStore()})
	defer dir.Close()

	creds := credentials.NewMemoryStore(credentials.WithBcryptCost(bcrypt.MinCost))
	svc := team.NewService(dir, creds, tenants)

	_, err := svc.Create(ctx, team.CreateInput{
		TenantID:    rec.ID,
		RequesterID: uuid.New(),
		Name:        "Alice",
		Email:       "a@x.com",
		Password:    "secret1",
		Permissions: capability.UserDefaults(),
	})

	// The directory write failed after the credential was created. The
	// credential is NOT rolled back; the error names the inconsistency.
	require.ErrorIs(t, err, team.ErrOrphanedCredential)
	require.ErrorIs(t, err, errStoreDown)

	_, verifyErr := creds.Verify(ctx, "a@x.com", "secret1")
	assert.NoError(t, verifyErr, "the orphaned credential remains in the backend")

	users, listErr := dir.ListByTenant(ctx, rec.ID)
	require.NoError(t, listErr)
	assert.Empty(t, users, "no directory record exists for the orphaned credential")
}

func TestService_Update_PermissionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	want := capability.Set{Quotes: true, Reports: true, Settings: true}
	updated, err := f.svc.Update(ctx, u.ID, team.UpdateInput{Permissions: &want})
	require.NoError(t, err)
	assert.True(t, updated.Permissions.Equal(want))

	// The stored record equals the submitted set exactly: no merging with
	// defaults, no partial overwrite.
	got, err := f.dir.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got.Permissions)
	assert.True(t, got.UpdatedAt.After(u.UpdatedAt) || got.UpdatedAt.Equal(u.UpdatedAt))
}

func TestService_Update_AdminImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	name := "New Name"
	_, err := f.svc.Update(ctx, f.ownerID, team.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, team.ErrNotAuthorized)
}

func TestService_Update_EmptyPermissionsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	empty := capability.Set{}
	_, err = f.svc.Update(ctx, u.ID, team.UpdateInput{Permissions: &empty})
	assert.ErrorIs(t, err, team.ErrInvalidInput)
}

func TestService_Update_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	name := "Ghost"
	_, err := f.svc.Update(ctx, uuid.New(), team.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, u.ID))

	_, err = f.dir.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, directory.ErrUserNotFound)

	// With the elevated handle wired, the credential is revoked too.
	_, err = f.creds.Verify(ctx, u.Email, "secret1")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)
}

func TestService_Delete_OwnerProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	err := f.svc.Delete(ctx, f.ownerID)
	assert.ErrorIs(t, err, team.ErrNotAuthorized)

	_, err = f.dir.GetByID(ctx, f.ownerID)
	assert.NoError(t, err, "owner account must survive")
}

func TestService_Delete_RevocationIsBestEffort(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	// Rebuild the service without the elevated handle: revocation refuses,
	// deletion still succeeds.
	svc := team.NewService(f.dir, f.creds, f.tenants)
	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err = f.dir.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, directory.ErrUserNotFound)

	_, err = f.creds.Verify(ctx, u.Email, "secret1")
	assert.NoError(t, err, "credential survives when revocation is refused")
}

func TestService_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)
	require.True(t, u.IsActive)

	toggled, err := f.svc.ToggleStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.Equal(t, u.Permissions, toggled.Permissions, "toggling must not alter permissions")

	// The record stays queryable for admin screens.
	got, err := f.dir.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	back, err := f.svc.ToggleStatus(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, back.IsActive)
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, proTenant)

	u, err := f.svc.Create(ctx, validCreate(f))
	require.NoError(t, err)

	t.Run("short password rejected before any backend call", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, u.ID, "abc12")
		assert.ErrorIs(t, err, team.ErrInvalidInput)
	})

	t.Run("rotation with elevated handle", func(t *testing.T) {
		require.NoError(t, f.svc.ResetPassword(ctx, u.ID, "rotated1"))

		_, err := f.creds.Verify(ctx, u.Email, "secret1")
		assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)

		_, err = f.creds.Verify(ctx, u.Email, "rotated1")
		assert.NoError(t, err)
	})

	t.Run("without elevated handle the backend refuses", func(t *testing.T) {
		svc := team.NewService(f.dir, f.creds, f.tenants)
		err := svc.ResetPassword(ctx, u.ID, "another1")
		require.ErrorIs(t, err, team.ErrBackendUnavailable)
		assert.ErrorIs(t, err, credentials.ErrElevatedAccessRequired)
	})
}

func TestService_CanCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("pro with free seats", func(t *testing.T) {
		f := newFixture(t, proTenant)
		ok, err := f.svc.CanCreateUser(ctx, f.tenant.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("free tier", func(t *testing.T) {
		f := newFixture(t, freeTenant)
		ok, err := f.svc.CanCreateUser(ctx, f.tenant.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired pro", func(t *testing.T) {
		f := newFixture(t, expiredProTenant)
		ok, err := f.svc.CanCreateUser(ctx, f.tenant.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("all seats taken", func(t *testing.T) {
		f := newFixture(t, proTenant)
		for _, email := range []string{"u1@x.com", "u2@x.com", "u3@x.com"} {
			in := validCreate(f)
			in.Email = email
			_, err := f.svc.Create(ctx, in)
			require.NoError(t, err)
		}

		ok, err := f.svc.CanCreateUser(ctx, f.tenant.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
