package worker

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// MockBattleRunner
type MockBattleRunner struct {
	mock.Mock
	backfills atomic.Int32
}

func (m *MockBattleRunner) Backfill(ctx context.Context, battleID uuid.UUID) (bool, error) {
	defer m.backfills.Add(1)
	args := m.Called(ctx, battleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBattleRunner) Run(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}

func (m *MockBattleRunner) ListBattles(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Battle), args.Error(1)
}

// MockSettler
type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) SettleExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
