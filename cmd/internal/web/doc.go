// Package web owns the browser-facing authentication flow: register, login,
// session-gated dashboard, logout.
//
// Handlers are transport glue. All security-relevant decisions live in the
// collaborators they are handed: cmd/security/password (verifiers),
// cmd/identity (user records), cmd/internal/auth/session (the identity
// claim). The session cookie carries only the opaque token; the raw email is
// never used as an identity claim, and authentication failures are
// indistinguishable to the client regardless of cause.
package web
