// Package memory provides in-process implementations of the repository
// interfaces, used in development mode and by service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Ledger is a mutex-guarded balance map
type Ledger struct {
	mu       sync.Mutex
	balances map[string]int64
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]int64)}
}

// Debit subtracts amount if the balance covers it
func (l *Ledger) Debit(_ context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative debit", domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if balance < amount {
		return domain.ErrInsufficientFunds
	}
	l.balances[userID] = balance - amount
	return nil
}

// Credit adds amount, creating the account on first use
func (l *Ledger) Credit(_ context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative credit", domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount
	return nil
}

// Balance returns the current balance
func (l *Ledger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return balance, nil
}
