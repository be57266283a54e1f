package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/metrics"
	"github.com/osse101/CaseBattle_Go/internal/worker"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus     event.Bus
	BattleWorker *worker.BattleWorker
}

// RegisterEventHandlers sets up all event subscribers:
// the metrics collector and the battle worker's backfill and run triggers.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.BattleWorker != nil {
		deps.BattleWorker.Subscribe(deps.EventBus)
		slog.Info(LogMsgBattleWorkerSubscribed)
	}

	return nil
}
