package web

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls web handler behavior and cookie policy.
type Config struct {
	// CookieName is fixed per deployment; the value is always the opaque
	// session token, never an identity string.
	CookieName string

	// CookieSecure must be true behind TLS. The HttpOnly and SameSite=Lax
	// flags are not configurable; weakening them is not a deployment choice.
	CookieSecure bool

	MaxBodyBytes int64

	// TrustProxy enables X-Forwarded-For / X-Real-IP for throttling keys.
	TrustProxy bool

	// Per-IP sliding window for login attempts.
	LoginIPMax    int
	LoginIPWindow time.Duration
}

// LoadConfigFromEnv loads web config from environment variables with defaults.
//
// Env surface:
//   - PORTER_COOKIE_NAME
//   - PORTER_COOKIE_SECURE
//   - PORTER_WEB_MAX_BODY_BYTES
//   - PORTER_WEB_TRUST_PROXY
//   - PORTER_WEB_LOGIN_IP_MAX
//   - PORTER_WEB_LOGIN_IP_WINDOW
func LoadConfigFromEnv() Config {
	return Config{
		CookieName:    envString("PORTER_COOKIE_NAME", "porter_session"),
		CookieSecure:  envBool("PORTER_COOKIE_SECURE", false),
		MaxBodyBytes:  envInt64("PORTER_WEB_MAX_BODY_BYTES", 1<<20),
		TrustProxy:    envBool("PORTER_WEB_TRUST_PROXY", false),
		LoginIPMax:    envInt("PORTER_WEB_LOGIN_IP_MAX", 20),
		LoginIPWindow: envDuration("PORTER_WEB_LOGIN_IP_WINDOW", 5*time.Minute),
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
