package validator

import (
	"fmt"
	"net/mail"
	"strings"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
		},
	}
}

// MinLenString validates that a string has at least min bytes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", min),
		},
	}
}

// ValidEmail validates that a string is a parseable RFC 5322 address with a
// dotted domain, which is what web forms expect.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			parts := strings.Split(addr.Address, "@")
			return len(parts) == 2 && strings.Contains(parts[1], ".")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// Custom wraps an arbitrary predicate as a rule.
func Custom(field, message string, check func() bool) Rule {
	return Rule{
		Check: check,
		Error: ValidationError{
			Field:   field,
			Message: message,
		},
	}
}
