package tenant

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is an in-memory tenant store. Besides the read-only
// Provider interface it exposes Register and Update so tests and the
// external registration/billing flows can seed and mutate records.
type MemoryProvider struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Tenant
	byOwner map[string]uuid.UUID
}

// NewMemoryProvider creates an empty in-memory tenant provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		byID:    make(map[uuid.UUID]Tenant),
		byOwner: make(map[string]uuid.UUID),
	}
}

// Register stores a new tenant record. Owner emails are matched
// case-insensitively.
func (p *MemoryProvider) Register(ctx context.Context, t Tenant) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[t.ID]; exists {
		return ErrTenantAlreadyExists
	}

	owner := strings.ToLower(t.OwnerEmail)
	if _, exists := p.byOwner[owner]; exists {
		return ErrTenantAlreadyExists
	}

	p.byID[t.ID] = t
	p.byOwner[owner] = t.ID
	return nil
}

// Update overwrites an existing tenant record. Used by the external billing
// flow to change plan and expiry.
func (p *MemoryProvider) Update(ctx context.Context, t Tenant) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, exists := p.byID[t.ID]
	if !exists {
		return ErrTenantNotFound
	}

	delete(p.byOwner, strings.ToLower(old.OwnerEmail))
	p.byID[t.ID] = t
	p.byOwner[strings.ToLower(t.OwnerEmail)] = t.ID
	return nil
}

func (p *MemoryProvider) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	t, exists := p.byID[id]
	if !exists {
		return nil, ErrTenantNotFound
	}
	return &t, nil
}

func (p *MemoryProvider) GetByOwnerEmail(ctx context.Context, email string) (*Tenant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, exists := p.byOwner[strings.ToLower(email)]
	if !exists {
		return nil, ErrTenantNotFound
	}
	t := p.byID[id]
	return &t, nil
}
