package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/CaseBattle_Go/internal/config"
	"github.com/osse101/CaseBattle_Go/internal/database"
	"github.com/osse101/CaseBattle_Go/internal/database/memory"
	"github.com/osse101/CaseBattle_Go/internal/database/postgres"
	"github.com/osse101/CaseBattle_Go/internal/database/redisstore"
	"github.com/osse101/CaseBattle_Go/internal/handler"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Ledger    repository.Ledger
	Inventory repository.Inventory
	Openings  repository.OpeningStore
	Seeds     repository.SeedStore
	Battles   repository.BattleStore

	// Readiness lists the external stores probed by /readyz
	Readiness map[string]handler.Pinger

	dbPool      *pgxpool.Pool
	redisClient *redis.Client
}

// pingFunc adapts a function to handler.Pinger
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// InitializeRepositories creates the repositories for the configured backends.
// The postgres backend connects, applies migrations and serves every store.
// The redis nonce backend replaces only the seed store.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	repos := &Repositories{Readiness: make(map[string]handler.Pinger)}

	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied)

		repos.dbPool = pool
		repos.Ledger = postgres.NewLedgerRepository(pool)
		repos.Inventory = postgres.NewInventoryRepository(pool)
		repos.Openings = postgres.NewOpeningRepository(pool)
		repos.Seeds = postgres.NewSeedRepository(pool)
		repos.Battles = postgres.NewBattleRepository(pool)
		repos.Readiness[ReadinessPostgres] = pool
	default:
		repos.Ledger = memory.NewLedger()
		repos.Inventory = memory.NewInventory()
		repos.Openings = memory.NewOpeningStore()
		repos.Seeds = memory.NewSeedStore()
		repos.Battles = memory.NewBattleStore()
	}

	if cfg.NonceBackend == config.NonceBackendRedis {
		client, err := redisstore.NewClient(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			repos.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
		}
		repos.redisClient = client
		repos.Seeds = redisstore.NewSeedStore(client)
		repos.Readiness[ReadinessRedis] = pingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	slog.Info(LogMsgStorageInitialized, "storage", cfg.StorageBackend, "nonces", cfg.NonceBackend)
	return repos, nil
}

// Close releases database and redis connections
func (r *Repositories) Close() error {
	var err error
	if r.redisClient != nil {
		err = r.redisClient.Close()
	}
	if r.dbPool != nil {
		r.dbPool.Close()
	}
	return err
}
