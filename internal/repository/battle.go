package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// BattleStore persists battles for lifecycle recovery across restarts
type BattleStore interface {
	CreateBattle(ctx context.Context, battle *domain.Battle) error
	GetBattle(ctx context.Context, id uuid.UUID) (*domain.Battle, error)
	// CompareAndSwapBattle stores battle only if the stored version equals
	// expectedVersion. On success the stored version becomes battle.Version.
	CompareAndSwapBattle(ctx context.Context, battle *domain.Battle, expectedVersion int64) (bool, error)
	ListBattlesByStatus(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error)
	// CountOpenBattlesBySeed counts WAITING and ACTIVE battles committed to serverSeedHash
	CountOpenBattlesBySeed(ctx context.Context, serverSeedHash string) (int, error)
}
