package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// BattleStore keeps battles in memory with versioned compare-and-swap
type BattleStore struct {
	mu      sync.RWMutex
	battles map[uuid.UUID]*domain.Battle
}

// NewBattleStore creates an empty battle store
func NewBattleStore() *BattleStore {
	return &BattleStore{battles: make(map[uuid.UUID]*domain.Battle)}
}

// CreateBattle stores a new battle
func (s *BattleStore) CreateBattle(_ context.Context, b *domain.Battle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.battles[b.ID]; exists {
		return fmt.Errorf("%w: battle %s already exists", domain.ErrInvariantViolation, b.ID)
	}
	s.battles[b.ID] = b.Clone()
	return nil
}

// GetBattle returns a copy of the battle
func (s *BattleStore) GetBattle(_ context.Context, id uuid.UUID) (*domain.Battle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.battles[id]
	if !ok {
		return nil, domain.ErrBattleNotFound
	}
	return b.Clone(), nil
}

// CompareAndSwapBattle replaces the battle only if its version is unchanged
func (s *BattleStore) CompareAndSwapBattle(_ context.Context, b *domain.Battle, expectedVersion int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.battles[b.ID]
	if !ok {
		return false, domain.ErrBattleNotFound
	}
	if current.Version != expectedVersion {
		return false, nil
	}
	s.battles[b.ID] = b.Clone()
	return true, nil
}

// ListBattlesByStatus returns the oldest battles in the given status
func (s *BattleStore) ListBattlesByStatus(_ context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Battle
	for _, b := range s.battles {
		if b.Status == status {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountOpenBattlesBySeed counts unfinished battles committed to serverSeedHash
func (s *BattleStore) CountOpenBattlesBySeed(_ context.Context, serverSeedHash string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, b := range s.battles {
		if b.Status != domain.BattleStatusFinished && b.ServerSeedHash == serverSeedHash {
			n++
		}
	}
	return n, nil
}
