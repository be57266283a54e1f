package fairness

import (
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Seed is a server seed with its published commitment
type Seed struct {
	Value     string
	Hash      string
	CreatedAt time.Time
	RetiredAt *time.Time
}

// Commitment is the public view of a seed
type Commitment struct {
	Hash      string     `json:"server_seed_hash"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	RetiredAt *time.Time `json:"retired_at,omitempty"`
	Seed      string     `json:"server_seed,omitempty"`
}

// ServerSeeds holds the injected active server seed and every retired seed.
// The active seed is never revealed; retired seeds are revealed by hash.
type ServerSeeds struct {
	mu      sync.RWMutex
	active  Seed
	retired map[string]Seed
	now     func() time.Time
}

// NewServerSeeds creates a seed holder around the configured initial seed
func NewServerSeeds(initial string) (*ServerSeeds, error) {
	if initial == "" {
		return nil, domain.ErrMissingServerSeed
	}
	s := &ServerSeeds{
		retired: make(map[string]Seed),
		now:     time.Now,
	}
	s.active = Seed{Value: initial, Hash: HashServerSeed(initial), CreatedAt: s.now()}
	return s, nil
}

// Active returns the seed currently used for new outcomes
func (s *ServerSeeds) Active() Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ActiveHash returns the published commitment of the active seed
func (s *ServerSeeds) ActiveHash() string {
	return s.Active().Hash
}

// Lookup returns the seed (active or retired) behind a commitment hash.
// It is used internally to replay outcomes and must not be exposed.
func (s *ServerSeeds) Lookup(hash string) (Seed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active.Hash == hash {
		return s.active, true
	}
	seed, ok := s.retired[hash]
	return seed, ok
}

// Rotate retires the active seed and installs next. An empty next generates one.
// It returns the retired seed so callers can publish the reveal.
func (s *ServerSeeds) Rotate(next string) (Seed, error) {
	if next == "" {
		generated, err := GenerateSeed()
		if err != nil {
			return Seed{}, err
		}
		next = generated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	old := s.active
	old.RetiredAt = &now
	s.retired[old.Hash] = old
	s.active = Seed{Value: next, Hash: HashServerSeed(next), CreatedAt: now}
	return old, nil
}

// Reveal returns the commitment for hash, including the raw seed once retired
func (s *ServerSeeds) Reveal(hash string) (Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active.Hash == hash {
		return Commitment{Hash: hash, Active: true, CreatedAt: s.active.CreatedAt}, domain.ErrSeedNotRevealed
	}
	seed, ok := s.retired[hash]
	if !ok {
		return Commitment{}, fmt.Errorf("%s: %w", ErrContextUnknownHash, domain.ErrInvalidInput)
	}
	return Commitment{
		Hash:      seed.Hash,
		CreatedAt: seed.CreatedAt,
		RetiredAt: seed.RetiredAt,
		Seed:      seed.Value,
	}, nil
}
