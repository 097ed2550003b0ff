package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported HMAC algorithms for token signing.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmHS384 = "HS384"
	AlgorithmHS512 = "HS512"
)

// Hash cost bounds accepted for bcrypt.
const (
	MinHashCost     = 10
	MaxHashCost     = 15
	DefaultHashCost = 12
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Events    EventsConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
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
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EventsConfig configures auth event fan-out.
type EventsConfig struct {
	Channel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// BootstrapConfig names a superuser created at startup when absent.
type BootstrapConfig struct {
	SuperuserEmail    string
	SuperuserPassword string
}

// AuthConfig defines token and credential parameters.
type AuthConfig struct {
	AccessSigningKey      string
	RefreshSigningKey     string
	SigningAlgorithm      string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	HashCostFactor        int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	hashCost, err := strconv.Atoi(getEnv("HASH_COST_FACTOR", strconv.Itoa(DefaultHashCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid HASH_COST_FACTOR: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "auth-service"),
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
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Events: EventsConfig{
			Channel: getEnv("EVENTS_CHANNEL", "auth.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AccessSigningKey:      os.Getenv("ACCESS_SIGNING_KEY"),
			RefreshSigningKey:     os.Getenv("REFRESH_SIGNING_KEY"),
			SigningAlgorithm:      strings.ToUpper(getEnv("SIGNING_ALGORITHM", AlgorithmHS256)),
			AccessTokenTTLMinutes: getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 30),
			RefreshTokenTTLDays:   getEnvAsInt("REFRESH_TOKEN_TTL_DAYS", 7),
			HashCostFactor:        hashCost,
		},
		Bootstrap: BootstrapConfig{
			SuperuserEmail:    os.Getenv("FIRST_SUPERUSER_EMAIL"),
			SuperuserPassword: os.Getenv("FIRST_SUPERUSER_PASSWORD"),
		},
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that would weaken token or credential handling.
func (a AuthConfig) Validate() error {
	if a.AccessSigningKey == "" {
		return errors.New("ACCESS_SIGNING_KEY is required")
	}
	if a.RefreshSigningKey == "" {
		return errors.New("REFRESH_SIGNING_KEY is required")
	}
	if a.AccessSigningKey == a.RefreshSigningKey {
		return errors.New("access and refresh signing keys must differ")
	}
	if !IsSupportedAlgorithm(a.SigningAlgorithm) {
		return fmt.Errorf("unsupported SIGNING_ALGORITHM %q", a.SigningAlgorithm)
	}
	if a.AccessTokenTTLMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if a.RefreshTokenTTLDays <= 0 {
		return errors.New("REFRESH_TOKEN_TTL_DAYS must be positive")
	}
	if a.HashCostFactor < MinHashCost || a.HashCostFactor > MaxHashCost {
		return fmt.Errorf("HASH_COST_FACTOR must be between %d and %d", MinHashCost, MaxHashCost)
	}
	return nil
}

// IsSupportedAlgorithm reports whether alg is on the signing allow-list.
func IsSupportedAlgorithm(alg string) bool {
	switch alg {
	case AlgorithmHS256, AlgorithmHS384, AlgorithmHS512:
		return true
	}
	return false
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLDays) * 24 * time.Hour
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
