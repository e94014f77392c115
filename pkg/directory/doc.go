// Package directory maintains the tenant-scoped collection of user accounts
// and its live observation feed.
//
// Persistence is pluggable through the Store interface (in-memory and
// PostgreSQL implementations ship with the package). The Service wraps a
// Store and rebroadcasts a fresh tenant listing to every active subscriber
// after each successful mutation, so open sessions observe permission edits,
// deactivations, and deletions without polling or manual refresh.
//
// Subscribing yields the current snapshot immediately and then one snapshot
// per committed mutation, in commit order. A mutation call returning success
// does not guarantee the caller's subscription has already delivered the
// matching snapshot; consumers must treat the feed, not the call's return
// value, as the source of truth for membership.
//
// Subscriptions are torn down when their context is cancelled or Close is
// called. Slow consumers have snapshots dropped rather than blocking the
// publishing mutation.
package directory
