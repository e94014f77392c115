package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantAlreadyExists is returned when registering a duplicate tenant
	// in the in-memory provider.
	ErrTenantAlreadyExists = errors.New("tenant already exists")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
