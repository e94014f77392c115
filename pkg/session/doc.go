// Package session resolves login credentials into an Identity and keeps that
// identity current while the session lives.
//
// Three kinds of principal resolve through the same entry point: the platform
// operator (configured via environment, no tenant), a workspace owner (the
// tenant record's owner email, treated as a full admin), and a regular team
// member (a directory account). Member identities can be watched: permission
// edits, deactivation, and deletion flow out of the directory feed and take
// effect without a new login.
//
// Resolution failures are deliberately coarse towards the outside. Use
// PublicMessage to turn any resolution error into the text shown to the
// person logging in; it never reveals whether an email exists.
package session
