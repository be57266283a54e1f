package battle

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseBattle_Go/internal/database/memory"
	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// MockDrawer
type MockDrawer struct {
	mock.Mock
}

func (m *MockDrawer) DrawForUser(ctx context.Context, userID, serverSeedHash string, table domain.PrizeTable) (domain.OutcomeResult, error) {
	args := m.Called(ctx, userID, serverSeedHash, table)
	return args.Get(0).(domain.OutcomeResult), args.Error(1)
}

func (m *MockDrawer) DrawWithSeed(serverSeedHash, clientSeed string, nonce uint64, table domain.PrizeTable) (domain.OutcomeResult, error) {
	args := m.Called(serverSeedHash, clientSeed, nonce, table)
	return args.Get(0).(domain.OutcomeResult), args.Error(1)
}

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockLedger) Credit(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockLedger) Balance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// staticSeeds reports a fixed commitment
type staticSeeds string

func (s staticSeeds) ActiveHash() string { return string(s) }

// failingSwapStore rejects every compare-and-swap with a hard error
type failingSwapStore struct {
	*memory.BattleStore
	err error
}

func (s *failingSwapStore) CompareAndSwapBattle(ctx context.Context, b *domain.Battle, expectedVersion int64) (bool, error) {
	return false, s.err
}
