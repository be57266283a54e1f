package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// OpeningStore is the durable audit record of box openings
type OpeningStore interface {
	CreateOpening(ctx context.Context, opening *domain.Opening) error
	GetOpening(ctx context.Context, id uuid.UUID) (*domain.Opening, error)
	// SettleOpeningIfPending moves an opening out of pending. It returns the
	// number of rows changed, which is 0 when the opening was already settled.
	SettleOpeningIfPending(ctx context.Context, id uuid.UUID, state domain.SettlementState, at time.Time) (int64, error)
	// RevertSettlement puts a settled opening back to pending after a failed credit
	RevertSettlement(ctx context.Context, id uuid.UUID, from domain.SettlementState) error
	ListPendingOpenings(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Opening, error)
}
