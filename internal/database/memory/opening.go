package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// OpeningStore keeps openings in memory
type OpeningStore struct {
	mu       sync.RWMutex
	openings map[uuid.UUID]*domain.Opening
}

// NewOpeningStore creates an empty opening store
func NewOpeningStore() *OpeningStore {
	return &OpeningStore{openings: make(map[uuid.UUID]*domain.Opening)}
}

func copyOpening(o *domain.Opening) *domain.Opening {
	c := *o
	c.Reel = append([]domain.ReelSlot(nil), o.Reel...)
	if o.SettledAt != nil {
		t := *o.SettledAt
		c.SettledAt = &t
	}
	return &c
}

// CreateOpening stores a new opening
func (s *OpeningStore) CreateOpening(_ context.Context, o *domain.Opening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.openings[o.ID]; exists {
		return fmt.Errorf("%w: opening %s already exists", domain.ErrInvariantViolation, o.ID)
	}
	s.openings[o.ID] = copyOpening(o)
	return nil
}

// GetOpening returns a copy of the opening
func (s *OpeningStore) GetOpening(_ context.Context, id uuid.UUID) (*domain.Opening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.openings[id]
	if !ok {
		return nil, domain.ErrOpeningNotFound
	}
	return copyOpening(o), nil
}

// SettleOpeningIfPending settles a pending opening and reports rows changed
func (s *OpeningStore) SettleOpeningIfPending(_ context.Context, id uuid.UUID, state domain.SettlementState, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.openings[id]
	if !ok || o.Settlement != domain.SettlementPending {
		return 0, nil
	}
	o.Settlement = state
	o.SettledAt = &at
	return 1, nil
}

// RevertSettlement returns an opening to pending
func (s *OpeningStore) RevertSettlement(_ context.Context, id uuid.UUID, from domain.SettlementState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.openings[id]; ok && o.Settlement == from {
		o.Settlement = domain.SettlementPending
		o.SettledAt = nil
	}
	return nil
}

// ListPendingOpenings returns the oldest pending, non-demo openings before the cutoff
func (s *OpeningStore) ListPendingOpenings(_ context.Context, createdBefore time.Time, limit int) ([]*domain.Opening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Opening
	for _, o := range s.openings {
		if o.Settlement == domain.SettlementPending && !o.Demo && o.CreatedAt.Before(createdBefore) {
			out = append(out, copyOpening(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
