package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	Environment string
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string

	StorageBackend    string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	NonceBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ServerSeed is the initial secret server seed. Its hash is published
	// before any outcome is drawn with it.
	ServerSeed        string
	CatalogPath       string
	CatalogSchemaPath string
	CatalogCacheSize  int
	CatalogCacheTTL   time.Duration

	BackfillMinWait time.Duration
	BackfillMaxWait time.Duration
	BackfillCeiling time.Duration
	MaxRounds       int

	SettleWindow   time.Duration
	SettleInterval time.Duration

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	WorkerCount      int
	WorkerQueueSize  int
	DeadLetterPath   string
	TrustedProxies   []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		ServiceName: getEnv("SERVICE_NAME", "casebattle"),
		Version:     getEnv("VERSION", "dev"),

		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendMemory)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "casebattle"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		NonceBackend:  strings.ToLower(getEnv("NONCE_BACKEND", NonceBackendStore)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ServerSeed:        getEnv("SERVER_SEED", ""),
		CatalogPath:       getEnv("CATALOG_PATH", ""),
		CatalogSchemaPath: getEnv("CATALOG_SCHEMA_PATH", ""),
		CatalogCacheSize:  getEnvAsInt("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize),
		CatalogCacheTTL:   getEnvAsDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL),

		BackfillMinWait: getEnvAsDuration("BACKFILL_MIN_WAIT", DefaultBackfillMinWait),
		BackfillMaxWait: getEnvAsDuration("BACKFILL_MAX_WAIT", DefaultBackfillMaxWait),
		BackfillCeiling: getEnvAsDuration("BACKFILL_CEILING", DefaultBackfillCeiling),
		MaxRounds:       getEnvAsInt("MAX_ROUNDS", DefaultMaxRounds),

		SettleWindow:   getEnvAsDuration("SETTLE_WINDOW", DefaultSettleWindow),
		SettleInterval: getEnvAsDuration("SETTLE_INTERVAL", DefaultSettleInterval),

		RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", DefaultRetryMaxAttempts),
		RetryBaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", DefaultRetryBaseDelay),
		WorkerCount:      getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize:  getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),
		DeadLetterPath:   getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
		TrustedProxies:   getEnvAsSlice("TRUSTED_PROXIES"),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY environment variable must be set for security"))
	}
	if c.ServerSeed == "" {
		errs = append(errs, errors.New("SERVER_SEED environment variable must be set"))
	}
	if c.StorageBackend != StorageBackendMemory && c.StorageBackend != StorageBackendPostgres {
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendMemory, StorageBackendPostgres, c.StorageBackend))
	}
	if c.NonceBackend != NonceBackendStore && c.NonceBackend != NonceBackendRedis {
		errs = append(errs, fmt.Errorf("NONCE_BACKEND must be %q or %q, got %q",
			NonceBackendStore, NonceBackendRedis, c.NonceBackend))
	}
	if c.BackfillMinWait > c.BackfillMaxWait {
		errs = append(errs, fmt.Errorf("BACKFILL_MIN_WAIT (%s) exceeds BACKFILL_MAX_WAIT (%s)",
			c.BackfillMinWait, c.BackfillMaxWait))
	}
	if c.BackfillMaxWait > c.BackfillCeiling {
		errs = append(errs, fmt.Errorf("BACKFILL_MAX_WAIT (%s) exceeds BACKFILL_CEILING (%s)",
			c.BackfillMaxWait, c.BackfillCeiling))
	}
	if c.MaxRounds < 1 {
		errs = append(errs, fmt.Errorf("MAX_ROUNDS must be positive, got %d", c.MaxRounds))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "prod" || env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma separated variable, dropping blanks
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL URL with credentials escaped
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
