package memory

import (
	"context"
	"sync"
)

type seedState struct {
	clientSeed string
	nonce      uint64
}

// SeedStore keeps client seeds and nonce counters in memory
type SeedStore struct {
	mu    sync.Mutex
	users map[string]*seedState
}

// NewSeedStore creates an empty seed store
func NewSeedStore() *SeedStore {
	return &SeedStore{users: make(map[string]*seedState)}
}

func (s *SeedStore) stateLocked(userID string) *seedState {
	st, ok := s.users[userID]
	if !ok {
		st = &seedState{}
		s.users[userID] = st
	}
	return st
}

// ClientSeed returns the user's client seed, or "" when none is set
func (s *SeedStore) ClientSeed(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.users[userID]; ok {
		return st.clientSeed, nil
	}
	return "", nil
}

// SetClientSeed replaces the client seed. The nonce counter carries on so a
// seed set again never replays a nonce it was already drawn with.
func (s *SeedStore) SetClientSeed(_ context.Context, userID, clientSeed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateLocked(userID).clientSeed = clientSeed
	return nil
}

// NextNonce returns the current nonce and advances the counter
func (s *SeedStore) NextNonce(_ context.Context, userID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateLocked(userID)
	n := st.nonce
	st.nonce++
	return n, nil
}

// CurrentNonce returns the nonce the next draw will use
func (s *SeedStore) CurrentNonce(_ context.Context, userID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.users[userID]; ok {
		return st.nonce, nil
	}
	return 0, nil
}
