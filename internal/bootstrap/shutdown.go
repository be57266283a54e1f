package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/scheduler"
	"github.com/osse101/CaseBattle_Go/internal/server"
	"github.com/osse101/CaseBattle_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	BattleWorker       *worker.BattleWorker
	Pool               *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Repositories       *Repositories
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and battle worker (no new jobs, pending timers cancelled)
// 3. Worker pool (in-flight battle runs finish)
// 4. Event publisher (flush pending events)
// 5. Storage connections
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
// Battles interrupted here are recovered by the battle worker on next start.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.BattleWorker != nil {
		if err := components.BattleWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgBattleWorkerFailed, "error", err)
		}
	}

	if components.Pool != nil {
		components.Pool.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Repositories != nil {
		if err := components.Repositories.Close(); err != nil {
			slog.Error(LogMsgStorageCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
