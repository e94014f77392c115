package credentials

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is an in-memory Authenticator hashing passwords with bcrypt.
// Privileged operations are only reachable through the handle returned by
// Elevated, mirroring the admin-SDK requirement of hosted identity backends.
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]record // keyed by lowercased email
	bcryptCost int
}

type record struct {
	principalID uuid.UUID
	hash        []byte
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithBcryptCost sets the bcrypt cost for password hashing. Tests lower it
// to keep hashing fast.
func WithBcryptCost(cost int) MemoryOption {
	return func(s *MemoryStore) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records:    make(map[string]record),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(ctx context.Context, email, password string) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists {
		return uuid.Nil, ErrEmailTaken
	}

	id := uuid.New()
	s.records[key] = record{principalID: id, hash: hash}
	return id, nil
}

func (s *MemoryStore) Verify(ctx context.Context, email, password string) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	rec, exists := s.records[key]
	s.mu.RUnlock()

	if !exists {
		return uuid.Nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return rec.principalID, nil
}

// Elevated returns the privileged Manager handle for this store. Callers
// that hold only the Authenticator cannot rotate or revoke credentials.
func (s *MemoryStore) Elevated() Manager {
	return &elevated{store: s}
}

// Guarded returns a Manager that always refuses, standing in for an identity
// backend reached without administrative access.
func Guarded() Manager {
	return guarded{}
}

type elevated struct {
	store *MemoryStore
}

func (e *elevated) Rotate(ctx context.Context, email, newPassword string) error {
	key := strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), e.store.bcryptCost)
	if err != nil {
		return err
	}

	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	rec, exists := e.store.records[key]
	if !exists {
		return ErrCredentialNotFound
	}

	rec.hash = hash
	e.store.records[key] = rec
	return nil
}

func (e *elevated) Revoke(ctx context.Context, email string) error {
	key := strings.ToLower(strings.TrimSpace(email))

	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	if _, exists := e.store.records[key]; !exists {
		return ErrCredentialNotFound
	}
	delete(e.store.records, key)
	return nil
}

type guarded struct{}

func (guarded) Rotate(ctx context.Context, email, newPassword string) error {
	return ErrElevatedAccessRequired
}

func (guarded) Revoke(ctx context.Context, email string) error {
	return ErrElevatedAccessRequired
}
