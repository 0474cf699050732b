// Package session implements the server-side session lifecycle.
//
// A session is the assertion "this request was made by the holder of email E,
// authenticated at time T". The client holds only an opaque random token;
// the server maps the token's digest to the session record, so a bare
// client-supplied identity string is never trusted. Identity propagation via
// a raw email cookie or URL parameter is forgeable by construction and is
// deliberately not supported.
//
// Lifecycle per session: absent -> active (Establish) -> revoked | expired
// (terminal). No transition leads back to active; a fresh login always mints
// a fresh token.
//
// Tokens carry 256 bits of entropy and are stored only as digests
// (HMAC-SHA256 when PORTER_TOKEN_HMAC_KEY is set, SHA-256 otherwise; see
// cmd/security/token). Sessions carry an absolute lifetime and an optional
// idle timeout; a janitor deletes dead rows in the background.
package session
