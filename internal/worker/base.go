package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// BaseWorker provides common functionality for background workers that manage timers
type BaseWorker struct {
	mu       sync.Mutex
	timers   map[uuid.UUID][]*time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[uuid.UUID][]*time.Timer)
	}
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

func (w *BaseWorker) isShuttingDown() bool {
	select {
	case <-w.shutdown:
		return true
	default:
		return false
	}
}

// stopTimers cancels every timer registered for id
func (w *BaseWorker) stopTimers(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, timer := range w.timers[id] {
		timer.Stop()
	}
	delete(w.timers, id)
}

func (w *BaseWorker) registerTimer(id uuid.UUID, timer *time.Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timers[id] = append(w.timers[id], timer)
}

func (w *BaseWorker) pendingTimers(id uuid.UUID) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers[id])
}

// goTracked runs fn in a goroutine that shutdown waits for
func (w *BaseWorker) goTracked(fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		fn()
	}()
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	close(w.shutdown)

	w.mu.Lock()
	for id, timers := range w.timers {
		for _, timer := range timers {
			timer.Stop()
		}
		log.Info(LogMsgCancelledBackfill, "worker", workerName, "id", id)
	}
	w.timers = make(map[uuid.UUID][]*time.Timer)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(workerName + " shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn(workerName + " shutdown timeout")
		return ctx.Err()
	}
}
