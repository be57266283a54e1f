package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/battle"
	"github.com/osse101/CaseBattle_Go/internal/bootstrap"
	"github.com/osse101/CaseBattle_Go/internal/concurrency"
	"github.com/osse101/CaseBattle_Go/internal/config"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
	"github.com/osse101/CaseBattle_Go/internal/opening"
	"github.com/osse101/CaseBattle_Go/internal/scheduler"
	"github.com/osse101/CaseBattle_Go/internal/server"
	"github.com/osse101/CaseBattle_Go/internal/worker"
)

const (
	shutdownTimeout    = 30 * time.Second
	settlementJobName  = "pending-settlement"
	settleBatchPerTick = 500
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Warn("Environment file check failed", "error", err)
	}
	for _, warning := range warnings {
		slog.Warn(warning)
	}

	if err := run(cfg); err != nil {
		slog.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	catalog, err := bootstrap.LoadCatalog(ctx, cfg)
	if err != nil {
		repos.Close()
		return err
	}

	serverSeeds, err := fairness.NewServerSeeds(cfg.ServerSeed)
	if err != nil {
		repos.Close()
		return err
	}
	slog.Info("Server seed committed", "server_seed_hash", serverSeeds.ActiveHash())

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		repos.Close()
		return err
	}

	retry := concurrency.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    concurrency.DefaultRetryPolicy.MaxDelay,
	}
	locks := concurrency.NewLockManager()

	openingSvc := opening.NewService(repos.Ledger, repos.Seeds, repos.Openings, repos.Inventory, catalog,
		serverSeeds, locks, publisher, opening.Config{
			Retry:        retry,
			SettleWindow: cfg.SettleWindow,
			SettleBatch:  settleBatchPerTick,
			Holders:      repos.Battles,
		})
	battleSvc := battle.NewService(repos.Battles, repos.Ledger, repos.Inventory, catalog, openingSvc, serverSeeds,
		locks, publisher, battle.Config{MaxRounds: cfg.MaxRounds, Retry: retry})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()

	battleWorker := worker.NewBattleWorker(battleSvc, pool, worker.BattleWorkerConfig{
		MinWait:    cfg.BackfillMinWait,
		MaxWait:    cfg.BackfillMaxWait,
		Ceiling:    cfg.BackfillCeiling,
		RunTimeout: worker.DefaultRunTimeout,
	})
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:     publisher,
		BattleWorker: battleWorker,
	}); err != nil {
		pool.Stop()
		repos.Close()
		return err
	}
	battleWorker.Start(ctx)

	sched := scheduler.New(pool)
	sched.Schedule(settlementJobName, cfg.SettleInterval, worker.NewPendingSettlementJob(openingSvc))

	srv := server.NewServer(server.Deps{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Openings:       openingSvc,
		Battles:        battleSvc,
		Catalog:        catalog,
		Ledger:         repos.Ledger,
		Inventory:      repos.Inventory,
		Readiness:      repos.Readiness,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		BattleWorker:       battleWorker,
		Pool:               pool,
		ResilientPublisher: publisher,
		Repositories:       repos,
	})
	return err
}
