package session

import (
	"github.com/google/uuid"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/directory"
)

// Kind classifies how an identity was resolved.
type Kind string

const (
	// KindOperator is the platform operator configured via environment. It
	// belongs to no tenant and passes every capability check.
	KindOperator Kind = "operator"

	// KindOwner is a workspace owner resolved through the tenant record. It
	// behaves as an admin regardless of any directory state.
	KindOwner Kind = "owner"

	// KindMember is a regular directory account whose rights come from its
	// stored permission set.
	KindMember Kind = "member"
)

// Identity is a resolved principal. It is a plain value: copying it is safe
// and mutating a copy affects nothing.
type Identity struct {
	Kind        Kind
	UserID      uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Email       string
	Role        directory.Role
	Permissions capability.Set
	Active      bool
}

// IsAdmin reports whether the identity short-circuits capability checks.
// Operators and owners always do; members do when their role says so.
func (id Identity) IsAdmin() bool {
	return id.Kind == KindOperator || id.Kind == KindOwner || id.Role == directory.RoleAdmin
}

// HasCapability reports whether the identity may use the capability. Admins
// are granted everything regardless of the stored permission set; everyone
// else needs the flag. Inactive identities have no capabilities at all.
func (id Identity) HasCapability(k capability.Key) bool {
	if !id.Active {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return id.Permissions.Has(k)
}

// landingPriority is the order in which granted sections are considered when
// choosing where a fresh login lands.
var landingPriority = []capability.Key{
	capability.Dashboard,
	capability.Invoices,
	capability.Quotes,
	capability.Clients,
	capability.Products,
	capability.StockManagement,
	capability.HRManagement,
	capability.Reports,
}

// LandingRoute returns the first capability the identity is granted, in
// priority order. An identity with nothing granted still lands on the
// dashboard, which then renders empty rather than erroring.
func (id Identity) LandingRoute() capability.Key {
	for _, k := range landingPriority {
		if id.HasCapability(k) {
			return k
		}
	}
	return capability.Dashboard
}
