package session

import (
	"context"
	"log/slog"

	"github.com/facturehq/accesskit/pkg/directory"
)

// Watch keeps a member identity current against the directory. It returns a
// channel of refreshed identities: one value per committed change to the
// member's account. Deactivation or deletion emits a final identity with
// Active false and then closes the channel; the session should be torn down
// at that point.
//
// The same terminal value is emitted when the feed ends for any other reason
// (the directory shut down, or the watcher fell too far behind and its
// subscription was dropped): the channel never closes with the last-seen
// identity still active. A caller whose credential is still valid may call
// Resolve again and start a fresh watch. Only cancelling ctx closes the
// channel silently.
//
// Operator and owner identities have no directory record to follow, so Watch
// refuses them with ErrNotWatchable.
func (r *Resolver) Watch(ctx context.Context, id Identity) (<-chan Identity, error) {
	if id.Kind != KindMember {
		return nil, ErrNotWatchable
	}

	sub, err := r.dir.Subscribe(ctx, id.TenantID)
	if err != nil {
		return nil, err
	}

	out := make(chan Identity, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		current := id
		for snap := range sub.Updates() {
			u := findUser(snap.Users, current)
			if u == nil || !u.IsActive {
				// Revoked: the account is gone or switched off. Emit the
				// terminal state and stop following.
				current.Active = false
				r.log.InfoContext(ctx, "watched session revoked",
					slog.String("user_id", current.UserID.String()),
					slog.String("tenant_id", current.TenantID.String()))
				select {
				case out <- current:
				case <-ctx.Done():
				}
				return
			}

			next := memberIdentity(u)
			if next == current {
				continue
			}
			current = next
			select {
			case out <- current:
			case <-ctx.Done():
				return
			}
		}

		if ctx.Err() != nil {
			return
		}

		// The feed ended without a revocation: the directory closed or this
		// watcher was dropped as a slow consumer. Fail closed so a session
		// cannot keep its capabilities after losing the feed behind them.
		current.Active = false
		r.log.InfoContext(ctx, "watched session lost its feed",
			slog.String("user_id", current.UserID.String()),
			slog.String("tenant_id", current.TenantID.String()))
		select {
		case out <- current:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func findUser(users []directory.User, id Identity) *directory.User {
	for i := range users {
		if users[i].ID == id.UserID {
			return &users[i]
		}
	}
	return nil
}
