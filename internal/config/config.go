package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Search   SearchConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ConnectTimeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	PoolSize int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
	// Issuer is checked against the iss claim when set
	Issuer string
	Leeway time.Duration
}

// SearchConfig bounds the search endpoints
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration
}

// WorkerConfig configures the asynq worker and scheduler
type WorkerConfig struct {
	Concurrency   int
	ReconcileCron string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BookHeaven API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Database:          getEnv("DB_NAME", "bookheaven"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          getEnvInt("DB_MAX_CONNS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:        getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			Issuer:            getEnv("JWT_ISSUER", ""),
			Leeway:            getEnvDuration("JWT_LEEWAY", 30*time.Second),
		},
		Search: SearchConfig{
			DefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvInt("SEARCH_MAX_LIMIT", 100),
			CacheTTL:     getEnvDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvInt("WORKER_CONCURRENCY", 10),
			ReconcileCron: getEnv("WORKER_RECONCILE_CRON", "0 3 * * *"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if c.Search.DefaultLimit < 1 || c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("SEARCH_DEFAULT_LIMIT must be between 1 and SEARCH_MAX_LIMIT")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}

	// Production must not run with development secrets
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// DSN is the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
