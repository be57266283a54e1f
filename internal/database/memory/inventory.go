package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Inventory counts kept items per user
type Inventory struct {
	mu    sync.Mutex
	items map[string]map[string]int
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]map[string]int)}
}

// AddItem increments the quantity of itemID held by userID
func (i *Inventory) AddItem(_ context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.items[userID] == nil {
		i.items[userID] = make(map[string]int)
	}
	i.items[userID][itemID] += quantity
	return nil
}

// AddItems adds every item under one lock so a bad quantity adds nothing
func (i *Inventory) AddItems(_ context.Context, userID string, items map[string]int) error {
	for itemID, qty := range items {
		if qty <= 0 {
			return fmt.Errorf("%w: quantity of %s must be positive", domain.ErrInvalidInput, itemID)
		}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.items[userID] == nil {
		i.items[userID] = make(map[string]int)
	}
	for itemID, qty := range items {
		i.items[userID][itemID] += qty
	}
	return nil
}

// GetItems returns a copy of the user's items
func (i *Inventory) GetItems(_ context.Context, userID string) (map[string]int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make(map[string]int, len(i.items[userID]))
	for k, v := range i.items[userID] {
		out[k] = v
	}
	return out, nil
}
