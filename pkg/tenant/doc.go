// Package tenant models the subscribing organization that scopes every user
// account. A tenant carries its subscription plan and expiry; the billing
// flow that mutates those fields lives outside this core, which only reads
// them to gate the multi-user tier.
//
// The Provider interface abstracts the tenant record store. Two
// implementations ship with the package: an in-memory provider for tests and
// single-process setups, and a PostgreSQL provider backed by pgx.
package tenant
