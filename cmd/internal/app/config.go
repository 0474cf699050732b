package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string // "json" (default) or "pretty" for local development

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// MigrateOnStart applies embedded schema migrations before serving.
	MigrateOnStart bool

	// If true, /readyz returns 503 unless the database is configured and
	// reachable.
	ReadinessRequireDB bool

	// If true, PORTER_TOKEN_HMAC_KEY must be set (>= 32 bytes) so session
	// token digests are keyed.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("PORTER_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("PORTER_LOG_LEVEL", "info"),
		LogFormat: EnvString("PORTER_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("PORTER_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PORTER_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PORTER_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PORTER_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PORTER_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("PORTER_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("PORTER_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("PORTER_DB_MIN_CONNS", 0),

		MigrateOnStart: EnvBool("PORTER_MIGRATE_ON_START", true),

		ReadinessRequireDB: EnvBool("PORTER_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("PORTER_REQUIRE_TOKEN_HMAC", false),
	}
}
