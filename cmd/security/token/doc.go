// Package token provides session-token generation and hashing primitives.
//
// It is the single source of truth for how opaque session tokens are minted
// and how their server-side digests are computed.
//
// Design goals:
//   - Tokens carry at least 128 bits of entropy; the default is 256 bits.
//   - The server stores only a digest, never the plain token.
//   - Default dev mode: SHA-256(token) when no HMAC key is configured.
//   - Production mode: HMAC-SHA256(token, key) when PORTER_TOKEN_HMAC_KEY is
//     set, so a leaked database cannot be used to mint valid digests.
//   - Stable 64-char hex output for storage and constant-time comparison.
package token
