// Package watch streams authentication events (register, login, logout) over
// WebSocket so an operator can observe the credential flow live. Events carry
// no secrets: only the event kind, the acting email, and a timestamp.
package watch

import "time"

// Event kinds published by the web handlers.
const (
	KindRegister    = "auth.register"
	KindLoginOK     = "auth.login.ok"
	KindLoginFailed = "auth.login.failed"
	KindLogout      = "auth.logout"
)

// Event is a single auth event. For failed logins Email is the submitted
// identifier, which may not correspond to any account.
type Event struct {
	Kind  string    `json:"kind"`
	Email string    `json:"email"`
	At    time.Time `json:"at"`
}
