package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SessionPolicy decides what happens to earlier tokens when a subject logs in again.
type SessionPolicy string

const (
	// SessionPolicyMulti keeps every previously issued token valid until it expires.
	SessionPolicyMulti SessionPolicy = "multi"
	// SessionPolicySingle revokes the subject's earlier tokens on each login.
	SessionPolicySingle SessionPolicy = "single"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	TokenHeader            string
	TokenTTLMinutes        int
	CacheTimeoutMillis     int
	BcryptCost             int
	SessionPolicy          SessionPolicy
	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminEmail    string
}

// RateLimitConfig throttles login attempts per client address.
type RateLimitConfig struct {
	LoginRPS   float64
	LoginBurst int
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	policy := SessionPolicy(strings.ToLower(getEnv("AUTH_SESSION_POLICY", string(SessionPolicyMulti))))
	if policy != SessionPolicyMulti && policy != SessionPolicySingle {
		return nil, fmt.Errorf("invalid AUTH_SESSION_POLICY %q: want multi or single", policy)
	}

	loginRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_LOGIN_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN_RPS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sms-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "sms"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TokenHeader:            getEnv("AUTH_TOKEN_HEADER", "X-Auth-Token"),
			TokenTTLMinutes:        getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
			CacheTimeoutMillis:     getEnvAsInt("AUTH_CACHE_TIMEOUT_MILLIS", 500),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SessionPolicy:          policy,
			BootstrapAdminUsername: os.Getenv("AUTH_BOOTSTRAP_ADMIN_USERNAME"),
			BootstrapAdminPassword: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
			BootstrapAdminEmail:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
		},
		RateLimit: RateLimitConfig{
			LoginRPS:   loginRPS,
			LoginBurst: getEnvAsInt("RATE_LIMIT_LOGIN_BURST", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns how long an issued token stays resolvable.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// CacheTimeout bounds a single token cache round-trip.
func (a AuthConfig) CacheTimeout() time.Duration {
	if a.CacheTimeoutMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(a.CacheTimeoutMillis) * time.Millisecond
}

// HasBootstrapAdmin reports whether a startup admin account is configured.
func (a AuthConfig) HasBootstrapAdmin() bool {
	return a.BootstrapAdminUsername != "" && a.BootstrapAdminPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
