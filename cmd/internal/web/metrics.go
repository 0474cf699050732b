package web

import "github.com/prometheus/client_golang/prometheus"

// Login outcome labels.
const (
	outcomeOK             = "ok"
	outcomeBadCredentials = "bad_credentials"
	outcomeConflict       = "conflict"
	outcomeThrottled      = "throttled"
	outcomeError          = "error"
)

// LoginAttempts counts login attempts by outcome.
// Use RegisterMetrics to register with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "porter_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"outcome"},
)

// Registrations counts registration attempts by outcome (ok/conflict/error).
var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "porter_registrations_total",
		Help: "Total number of registration attempts",
	},
	[]string{"outcome"},
)

// SessionsEstablished counts sessions created by successful logins.
var SessionsEstablished = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "porter_sessions_established_total",
		Help: "Total number of sessions established",
	},
)

// SessionsRevoked counts sessions revoked by logout.
var SessionsRevoked = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "porter_sessions_revoked_total",
		Help: "Total number of sessions revoked",
	},
)

// RegisterMetrics registers web package metrics with the given registry.
// Call once at startup; panics on duplicate registration per prometheus
// convention.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(Registrations)
	reg.MustRegister(SessionsEstablished)
	reg.MustRegister(SessionsRevoked)
}
