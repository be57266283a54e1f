package opening

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

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

// MockSeedStore
type MockSeedStore struct {
	mock.Mock
}

func (m *MockSeedStore) ClientSeed(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSeedStore) SetClientSeed(ctx context.Context, userID, clientSeed string) error {
	args := m.Called(ctx, userID, clientSeed)
	return args.Error(0)
}

func (m *MockSeedStore) NextNonce(ctx context.Context, userID string) (uint64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockSeedStore) CurrentNonce(ctx context.Context, userID string) (uint64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uint64), args.Error(1)
}

// MockOpeningStore
type MockOpeningStore struct {
	mock.Mock
}

func (m *MockOpeningStore) CreateOpening(ctx context.Context, opening *domain.Opening) error {
	args := m.Called(ctx, opening)
	return args.Error(0)
}

func (m *MockOpeningStore) GetOpening(ctx context.Context, id uuid.UUID) (*domain.Opening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opening), args.Error(1)
}

func (m *MockOpeningStore) SettleOpeningIfPending(ctx context.Context, id uuid.UUID, state domain.SettlementState, at time.Time) (int64, error) {
	args := m.Called(ctx, id, state, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOpeningStore) RevertSettlement(ctx context.Context, id uuid.UUID, from domain.SettlementState) error {
	args := m.Called(ctx, id, from)
	return args.Error(0)
}

func (m *MockOpeningStore) ListPendingOpenings(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Opening, error) {
	args := m.Called(ctx, createdBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Opening), args.Error(1)
}

// MockInventory
type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}

func (m *MockInventory) AddItems(ctx context.Context, userID string, items map[string]int) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockInventory) GetItems(ctx context.Context, userID string) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
