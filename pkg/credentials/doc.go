// Package credentials defines the port to the external identity backend
// that stores login credentials, plus a bcrypt-backed in-memory
// implementation for tests and single-process deployments.
//
// The Authenticator interface covers the operations any caller may perform:
// creating a credential during account provisioning and verifying one at
// login. The Manager interface covers privileged operations (rotating or
// revoking another principal's credential), which real identity backends
// only allow with administrative access; the in-memory store hands out that
// access through an explicit Elevated handle so the privilege boundary is
// visible in code and enforceable in tests.
package credentials
