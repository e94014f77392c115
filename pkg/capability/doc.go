// Package capability defines the closed set of permission flags used across
// the invoicing application and the two named presets assigned to accounts.
//
// The capability vocabulary is a fixed enumeration of nine keys. It is never
// extended or reduced at runtime: every consumer iterates the explicit list
// returned by All rather than discovering keys dynamically, so schema drift
// in stored records cannot silently widen or narrow an account's rights.
//
// Basic usage:
//
//	perms := capability.UserDefaults()
//	perms = perms.Grant(capability.Invoices)
//
//	if !perms.HasAny() {
//	    // reject: an account with no capabilities is unreachable
//	}
//
//	if perms.Has(capability.Settings) {
//	    // show settings section
//	}
package capability
