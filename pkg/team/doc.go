// Package team manages the lifecycle of tenant user accounts: creation under
// the pro-tier seat limit, edits, activation toggling, deletion, and password
// resets.
//
// Creation provisions the login credential in the identity backend first and
// writes the directory record second. The two steps are not atomic: if the
// credential is created but the directory write fails, the backend is left
// with an orphaned credential that has no matching account. The service does
// not roll the credential back (revocation needs elevated backend access);
// it returns an error matching ErrOrphanedCredential so operators can
// reconcile. Runbook: list backend credentials without a directory account
// and revoke them through the elevated handle.
package team
