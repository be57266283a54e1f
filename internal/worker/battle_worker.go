package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/utils"
)

const recoveryLimit = 1000

// BattleRunner is the part of the battle service the worker drives
type BattleRunner interface {
	Backfill(ctx context.Context, battleID uuid.UUID) (bool, error)
	Run(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	ListBattles(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error)
}

// BattleWorkerConfig holds the backfill timing
type BattleWorkerConfig struct {
	// MinWait and MaxWait bound the randomized primary backfill delay
	MinWait time.Duration
	MaxWait time.Duration
	// Ceiling is the latest point after creation at which the fallback
	// timer backfills whatever is still waiting
	Ceiling    time.Duration
	RunTimeout time.Duration
}

// BattleWorker backfills waiting battles with bots and runs battles once they
// activate. Each waiting battle gets a primary timer at a random delay and a
// fallback timer at the ceiling; both call Backfill, which is idempotent.
type BattleWorker struct {
	BaseWorker
	service BattleRunner
	pool    *Pool
	cfg     BattleWorkerConfig
}

// NewBattleWorker creates a new BattleWorker
func NewBattleWorker(service BattleRunner, pool *Pool, cfg BattleWorkerConfig) *BattleWorker {
	if cfg.MinWait <= 0 {
		cfg.MinWait = DefaultBackfillMinWait
	}
	if cfg.MaxWait < cfg.MinWait {
		cfg.MaxWait = cfg.MinWait
	}
	if cfg.Ceiling < cfg.MaxWait {
		cfg.Ceiling = cfg.MaxWait
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	w := &BattleWorker{service: service, pool: pool, cfg: cfg}
	w.init()
	return w
}

// Subscribe subscribes the worker to relevant events
func (w *BattleWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.BattleCreated, w.handleBattleCreated)
	bus.Subscribe(event.BattleActivated, w.handleBattleActivated)
}

// Start re-arms backfill for battles still waiting and runs battles that were
// active when the process stopped
func (w *BattleWorker) Start(ctx context.Context) {
	log := logger.FromContext(ctx)

	waiting, err := w.service.ListBattles(ctx, domain.BattleStatusWaiting, recoveryLimit)
	if err != nil {
		log.Error(LogMsgFailedToRecoverBattles, "status", domain.BattleStatusWaiting, "error", err)
	}
	active, err := w.service.ListBattles(ctx, domain.BattleStatusActive, recoveryLimit)
	if err != nil {
		log.Error(LogMsgFailedToRecoverBattles, "status", domain.BattleStatusActive, "error", err)
	}
	log.Info(LogMsgRecoveringBattles, "waiting", len(waiting), "active", len(active))

	for _, b := range waiting {
		w.scheduleBackfill(b.ID, b.CreatedAt)
	}
	// Recovery may exceed the queue size; block on the pool rather than
	// spilling every battle into its own goroutine.
	for _, b := range active {
		if w.pool == nil {
			w.submitRun(b.ID)
			continue
		}
		w.pool.Enqueue(w.runJob(b.ID))
	}
}

func (w *BattleWorker) handleBattleCreated(ctx context.Context, e event.Event) error {
	payload, err := event.DecodePayload[domain.BattleCreatedPayload](e.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidBattleEvent, "type", e.Type, "error", err)
		return nil
	}
	id, err := uuid.Parse(payload.BattleID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidBattleEvent, "type", e.Type, "error", err)
		return nil
	}
	w.scheduleBackfill(id, time.Now())
	return nil
}

func (w *BattleWorker) handleBattleActivated(ctx context.Context, e event.Event) error {
	payload, err := event.DecodePayload[domain.BattleActivatedPayload](e.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidBattleEvent, "type", e.Type, "error", err)
		return nil
	}
	id, err := uuid.Parse(payload.BattleID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidBattleEvent, "type", e.Type, "error", err)
		return nil
	}
	w.stopTimers(id)
	w.submitRun(id)
	return nil
}

// scheduleBackfill arms the primary and fallback timers, measured from createdAt
func (w *BattleWorker) scheduleBackfill(battleID uuid.UUID, createdAt time.Time) {
	if w.isShuttingDown() {
		return
	}
	elapsed := time.Since(createdAt)
	primary := utils.RandomDuration(w.cfg.MinWait, w.cfg.MaxWait) - elapsed
	fallback := w.cfg.Ceiling - elapsed

	logger.FromContext(context.Background()).Info(LogMsgSchedulingBackfill,
		"battleID", battleID, "primary", primary, "fallback", fallback)

	w.stopTimers(battleID)
	w.registerTimer(battleID, time.AfterFunc(max(primary, 0), func() {
		w.backfill(battleID, false)
	}))
	w.registerTimer(battleID, time.AfterFunc(max(fallback, 0), func() {
		w.backfill(battleID, true)
	}))
}

func (w *BattleWorker) backfill(battleID uuid.UUID, fallback bool) {
	if w.isShuttingDown() {
		return
	}
	w.goTracked(func() {
		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgBackfillTimerFired, "battleID", battleID, "fallback", fallback)

		filled, err := w.service.Backfill(ctx, battleID)
		if err != nil {
			log.Error(LogMsgFailedToBackfill, "battleID", battleID, "fallback", fallback, "error", err)
			return
		}
		// Either way the battle has left WAITING and the other timer is moot.
		w.stopTimers(battleID)
		if filled && fallback {
			log.Warn(LogMsgFallbackBackfilled, "battleID", battleID)
		}
	})
}

// submitRun hands the battle to the pool, or runs it directly when the queue is full
func (w *BattleWorker) submitRun(battleID uuid.UUID) {
	if w.isShuttingDown() {
		return
	}
	if w.pool != nil && w.pool.TryEnqueue(w.runJob(battleID)) {
		return
	}
	logger.FromContext(context.Background()).Warn(LogMsgQueueFull, "battleID", battleID)
	w.goTracked(func() {
		_ = w.run(context.Background(), battleID)
	})
}

func (w *BattleWorker) runJob(battleID uuid.UUID) Job {
	return JobFunc(func(ctx context.Context) error {
		return w.run(ctx, battleID)
	})
}

func (w *BattleWorker) run(ctx context.Context, battleID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.RunTimeout)
	defer cancel()

	log := logger.FromContext(ctx)
	log.Info(LogMsgRunningBattle, "battleID", battleID)

	b, err := w.service.Run(ctx, battleID)
	if err != nil {
		log.Error(LogMsgFailedToRunBattle, "battleID", battleID, "error", err)
		return err
	}
	log.Info(LogMsgBattleRunComplete, "battleID", battleID, "status", b.Status)
	return nil
}

// Shutdown cancels pending backfill timers and waits for in-flight work
func (w *BattleWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, "battle worker")
}
