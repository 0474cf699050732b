package identity

import "strings"

// NormalizeEmail canonicalizes an email for uniqueness and lookup.
// The stored email keeps its original casing; only the normalized form is
// indexed, so "A@x.com" and "a@x.com" cannot coexist as separate accounts.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
