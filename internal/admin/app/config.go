package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultJWTSecret     = "change_this_secret"
	DefaultMaxUploadSize = 10 << 30
)

type Config struct {
	Env            string // staging, production, development (default: staging)
	APIHost        string // bind host (default: 127.0.0.1)
	APIPort        int    // bind port (default: 8090)
	FrontendOrigin string // Optional: single CORS origin

	QdrantHost       string        // default: localhost
	QdrantPort       int           // REST port, 443 means TLS (default: 6333)
	QdrantGRPCPort   int           // default: 6334
	QdrantAPIKey     string        // Optional
	QdrantAPIKeyFile string        // Optional: overrides QdrantAPIKey when the file exists
	QdrantTimeout    time.Duration // default: 10s

	JWTSecret          string
	TokenExpireMinutes int // default: 60
	AdminUsername      string
	AdminPasswordHash  string // argon2id encoded hash
	AdminTOTPSecret    string // Optional: enables the second factor

	RequireAPIKey bool
	APIKey        string

	RateLimitPerMinute     int           // default: 60
	RateLimitStaleAfter    time.Duration // default: 5m
	RateLimitSweepInterval time.Duration // default: 5m
	LoginRatePerMinute     int           // default: 10
	LoginBurst             int           // default: 5

	MaxBodySizeBytes   int64 // default: 1 MiB
	MaxUploadSizeBytes int64 // restore route only (default: 10 GiB)

	AuditLogPath string // "-" writes to stdout, empty disables
	LogJSON      bool
	LogLevel     string

	OpsMaxEntries        int
	OpsTTL               time.Duration
	OpsReapInterval      time.Duration
	OpsArchiveFile       string        // Optional: SQLite file for reaped operations
	OpsArchiveRetention  time.Duration // 0 keeps archived operations forever (default: 720h)
	RestoreUploadTimeout time.Duration // 0 means no timeout
	RestoreTempDir       string        // Optional: default os.TempDir()

	EnableOpsApply      bool
	OpsApplyComposeFile string
	OpsApplyService     string

	ShutdownGracePeriod time.Duration
}

func LoadConfig() Config {
	return Config{
		Env:            getEnvOrDefault("ENV", "staging"),
		APIHost:        getEnvOrDefault("API_HOST", "127.0.0.1"),
		APIPort:        getEnvIntOrDefault("API_PORT", 8090),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),

		QdrantHost:       getEnvOrDefault("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvIntOrDefault("QDRANT_PORT", 6333),
		QdrantGRPCPort:   getEnvIntOrDefault("QDRANT_GRPC_PORT", 6334),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantAPIKeyFile: os.Getenv("QDRANT_API_KEY_FILE"),
		QdrantTimeout:    getEnvDurationOrDefault("QDRANT_TIMEOUT", 10*time.Second),

		JWTSecret:          getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),
		TokenExpireMinutes: getEnvIntOrDefault("TOKEN_EXPIRE_MINUTES", 60),
		AdminUsername:      getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:    os.Getenv("ADMIN_TOTP_SECRET"),

		RequireAPIKey: getEnvBoolOrDefault("REQUIRE_API_KEY", false),
		APIKey:        os.Getenv("API_KEY"),

		RateLimitPerMinute:     getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitStaleAfter:    getEnvDurationOrDefault("RATE_LIMIT_STALE_AFTER", 300*time.Second),
		RateLimitSweepInterval: getEnvDurationOrDefault("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		LoginRatePerMinute:     getEnvIntOrDefault("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:             getEnvIntOrDefault("LOGIN_BURST", 5),

		MaxBodySizeBytes:   getEnvInt64OrDefault("MAX_BODY_SIZE_BYTES", 1<<20),
		MaxUploadSizeBytes: getEnvInt64OrDefault("MAX_UPLOAD_SIZE_BYTES", DefaultMaxUploadSize),

		AuditLogPath: getEnvOrDefault("AUDIT_LOG_PATH", "/var/log/quietvector/audit.log"),
		LogJSON:      getEnvBoolOrDefault("LOG_JSON", true),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),

		OpsMaxEntries:        getEnvIntOrDefault("OPS_MAX_ENTRIES", 1000),
		OpsTTL:               getEnvDurationOrDefault("OPS_TTL", time.Hour),
		OpsReapInterval:      getEnvDurationOrDefault("OPS_REAP_INTERVAL", time.Minute),
		OpsArchiveFile:       os.Getenv("OPS_ARCHIVE_FILE"),
		OpsArchiveRetention:  getEnvDurationOrDefault("OPS_ARCHIVE_RETENTION", 30*24*time.Hour),
		RestoreUploadTimeout: getEnvDurationOrDefault("RESTORE_UPLOAD_TIMEOUT", 0),
		RestoreTempDir:       os.Getenv("RESTORE_TEMP_DIR"),

		EnableOpsApply:      getEnvBoolOrDefault("ENABLE_OPS_APPLY", false),
		OpsApplyComposeFile: os.Getenv("OPS_APPLY_COMPOSE_FILE"),
		OpsApplyService:     getEnvOrDefault("OPS_APPLY_SERVICE", "qdrant"),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch c.Env {
	case "staging", "production", "development":
	default:
		errs = append(errs, fmt.Errorf("ENV must be staging, production or development, got %q", c.Env))
	}
	check(c.APIPort >= 1024 && c.APIPort <= 65535, "API_PORT must be between 1024 and 65535, got %d", c.APIPort)
	check(c.QdrantPort > 0 && c.QdrantPort <= 65535, "QDRANT_PORT out of range: %d", c.QdrantPort)
	check(c.QdrantGRPCPort > 0 && c.QdrantGRPCPort <= 65535, "QDRANT_GRPC_PORT out of range: %d", c.QdrantGRPCPort)
	check(c.QdrantTimeout >= 100*time.Millisecond, "QDRANT_TIMEOUT must be at least 100ms, got %s", c.QdrantTimeout)
	check(c.JWTSecret != "", "JWT_SECRET must not be empty")
	check(c.TokenExpireMinutes >= 5 && c.TokenExpireMinutes <= 1440,
		"TOKEN_EXPIRE_MINUTES must be between 5 and 1440, got %d", c.TokenExpireMinutes)
	check(len(c.AdminUsername) >= 3, "ADMIN_USERNAME must be at least 3 characters")
	check(!c.RequireAPIKey || c.APIKey != "", "API_KEY is required when REQUIRE_API_KEY is set")
	check(c.RateLimitPerMinute >= 1 && c.RateLimitPerMinute <= 10000,
		"RATE_LIMIT_PER_MINUTE must be between 1 and 10000, got %d", c.RateLimitPerMinute)
	check(c.LoginRatePerMinute >= 1, "LOGIN_RATE_PER_MINUTE must be positive")
	check(c.LoginBurst >= 1, "LOGIN_BURST must be positive")
	check(c.MaxBodySizeBytes >= 1024 && c.MaxBodySizeBytes <= 10<<20,
		"MAX_BODY_SIZE_BYTES must be between 1024 and 10485760, got %d", c.MaxBodySizeBytes)
	check(c.MaxUploadSizeBytes >= c.MaxBodySizeBytes,
		"MAX_UPLOAD_SIZE_BYTES must not be below MAX_BODY_SIZE_BYTES")
	check(c.OpsMaxEntries >= 1, "OPS_MAX_ENTRIES must be positive")
	check(c.OpsTTL > 0, "OPS_TTL must be positive")
	check(c.OpsArchiveRetention >= 0, "OPS_ARCHIVE_RETENTION must not be negative")
	check(c.RestoreUploadTimeout >= 0, "RESTORE_UPLOAD_TIMEOUT must not be negative")

	return errors.Join(errs...)
}

// TokenTTL is the session lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func (c Config) LogFormat() string {
	if c.LogJSON {
		return "json"
	}
	return "text"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
