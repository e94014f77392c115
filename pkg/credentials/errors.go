package credentials

import "errors"

var (
	// ErrInvalidCredentials is returned when email/password verification fails.
	ErrInvalidCredentials = errors.New("credentials: invalid credentials")

	// ErrEmailTaken is returned when a credential already exists for the email.
	ErrEmailTaken = errors.New("credentials: email already registered")

	// ErrCredentialNotFound is returned by privileged operations targeting an
	// email with no credential.
	ErrCredentialNotFound = errors.New("credentials: credential not found")

	// ErrElevatedAccessRequired is returned when a privileged operation is
	// attempted without administrative access to the identity backend.
	ErrElevatedAccessRequired = errors.New("credentials: elevated access required")
)
