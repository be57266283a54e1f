package repository

import "context"

// Ledger is the external balance store. Debit and Credit are atomic primitives.
// Debit fails with domain.ErrInsufficientFunds and leaves the balance untouched
// when the balance is below amount.
type Ledger interface {
	Debit(ctx context.Context, userID string, amount int64) error
	Credit(ctx context.Context, userID string, amount int64) error
	Balance(ctx context.Context, userID string) (int64, error)
}

// Inventory receives items that players keep
type Inventory interface {
	AddItem(ctx context.Context, userID, itemID string, quantity int) error
	// AddItems credits several items at once; either all are added or none
	AddItems(ctx context.Context, userID string, items map[string]int) error
	GetItems(ctx context.Context, userID string) (map[string]int, error)
}
