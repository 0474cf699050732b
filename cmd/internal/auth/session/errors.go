package session

import "errors"

var (
	// ErrNotActive is the single collapsed outcome for an absent, unknown,
	// expired, idle-expired, or revoked token. Callers must not be able to
	// distinguish which case occurred; all of them force re-authentication.
	ErrNotActive = errors.New("session not active")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid session config")
)
