package guard

import (
	"context"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/directory"
	"github.com/facturehq/accesskit/pkg/session"
)

// State is the outcome of a capability check.
type State int

const (
	// Unchecked means no evaluation has happened. The zero Decision reports
	// it, so a handler that forgot to run the guard reads as unchecked, not
	// as granted.
	Unchecked State = iota

	// Granted means the identity may use the capability.
	Granted

	// Denied means it may not; the Decision carries the Denial diagnostics.
	Denied
)

// Decision is the result of evaluating one identity against one capability.
type Decision struct {
	State  State
	Denial *Denial
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.State == Granted
}

// Denial describes a refused check for logging and error responses.
type Denial struct {
	Capability capability.Key `json:"capability"`
	Label      string         `json:"label"`
	Name       string         `json:"name,omitempty"`
	Role       directory.Role `json:"role,omitempty"`
	Active     bool           `json:"active"`
}

// Evaluate checks one identity against one capability. Access is granted
// when the identity is present, active, and either an admin or holder of the
// stored flag. Admins pass regardless of what their stored permission set
// says. A nil identity is denied with empty diagnostics.
func Evaluate(id *session.Identity, k capability.Key) Decision {
	if id == nil {
		return Decision{State: Denied, Denial: &Denial{
			Capability: k,
			Label:      capability.Label(k),
		}}
	}
	if id.HasCapability(k) {
		return Decision{State: Granted}
	}
	return Decision{State: Denied, Denial: &Denial{
		Capability: k,
		Label:      capability.Label(k),
		Name:       id.Name,
		Role:       id.Role,
		Active:     id.Active,
	}}
}

// RequestAccess evaluates the capability against the identity carried by the
// context. For callers outside the HTTP middleware chain.
func RequestAccess(ctx context.Context, k capability.Key) Decision {
	id, ok := session.FromContext(ctx)
	if !ok {
		return Evaluate(nil, k)
	}
	return Evaluate(&id, k)
}

type decisionKey struct{}

// WithDecision returns a context carrying the decision.
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// DecisionFromContext returns the decision attached by the middleware. The
// zero Decision (Unchecked) comes back when no guard ran.
func DecisionFromContext(ctx context.Context) Decision {
	d, _ := ctx.Value(decisionKey{}).(Decision)
	return d
}
