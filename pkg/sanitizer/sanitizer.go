// Package sanitizer normalizes user-supplied input before it is validated,
// stored, or used as a lookup key.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address so that lookups are
// case-insensitive, and consolidates consecutive dots in the local part which
// cause delivery issues with some providers. Strings that are not in a
// local@domain shape are returned trimmed and lowercased unchanged otherwise;
// validation rejects them later.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// TrimName collapses surrounding whitespace on a display name.
func TrimName(name string) string {
	return strings.TrimSpace(name)
}
