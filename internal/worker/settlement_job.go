package worker

import (
	"context"

	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// Settler keeps openings left pending past the settle window
type Settler interface {
	SettleExpired(ctx context.Context) (int, error)
}

// PendingSettlementJob is the scheduled sweep over pending openings
type PendingSettlementJob struct {
	settler Settler
}

// NewPendingSettlementJob creates a new PendingSettlementJob
func NewPendingSettlementJob(settler Settler) *PendingSettlementJob {
	return &PendingSettlementJob{settler: settler}
}

// Process runs one sweep
func (j *PendingSettlementJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	settled, err := j.settler.SettleExpired(ctx)
	if err != nil {
		log.Error(LogMsgSettlementSweepFailed, "settled", settled, "error", err)
		return err
	}
	log.Info(LogMsgSettlementSweepDone, "settled", settled)
	return nil
}
