package config

import "time"

// Storage and nonce backends
const (
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"

	NonceBackendStore = "store"
	NonceBackendRedis = "redis"
)

// Defaults applied when a variable is unset or unparsable
const (
	DefaultPort              = "8080"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultCatalogCacheSize  = 128
	DefaultCatalogCacheTTL   = 5 * time.Minute
	DefaultBackfillMinWait   = 3 * time.Second
	DefaultBackfillMaxWait   = 8 * time.Second
	DefaultBackfillCeiling   = 20 * time.Second
	DefaultMaxRounds         = 50
	DefaultSettleWindow      = 10 * time.Minute
	DefaultSettleInterval    = time.Minute
	DefaultRetryMaxAttempts  = 3
	DefaultRetryBaseDelay    = 20 * time.Millisecond
	DefaultWorkerCount       = 4
	DefaultWorkerQueueSize   = 100
	DefaultDeadLetterPath    = "logs/deadletter.jsonl"
	DefaultLogDir            = "logs"
)

// MinServerSeedLength is the shortest server seed accepted without a warning
const MinServerSeedLength = 32
