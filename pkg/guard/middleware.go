package guard

import (
	"encoding/json"
	"net/http"

	"github.com/facturehq/accesskit/pkg/capability"
	"github.com/facturehq/accesskit/pkg/session"
)

// Require returns middleware that protects a route behind one capability.
// Requests without a resolved identity get 401; identities that fail the
// check get 403 with the Denial payload as JSON. The protected handler only
// runs on a granted decision, which it can read back via
// DecisionFromContext.
func Require(k capability.Key) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.FromContext(r.Context())
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "authentication required",
				})
				return
			}

			d := Evaluate(&id, k)
			if !d.Allowed() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(d.Denial)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithDecision(r.Context(), d)))
		})
	}
}
