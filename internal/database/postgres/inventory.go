package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// InventoryRepository stores kept items in inventory_items
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const upsertItemSQL = `
	INSERT INTO inventory_items (user_id, item_id, quantity) VALUES ($1, $2, $3)
	ON CONFLICT (user_id, item_id) DO UPDATE
	SET quantity = inventory_items.quantity + EXCLUDED.quantity`

// AddItem increments the quantity of itemID held by userID
func (r *InventoryRepository) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	_, err := r.db.Exec(ctx, upsertItemSQL, userID, itemID, quantity)
	return wrapErr(ErrMsgFailedToAddItem, err)
}

// AddItems adds every item in one transaction
func (r *InventoryRepository) AddItems(ctx context.Context, userID string, items map[string]int) error {
	for itemID, qty := range items {
		if qty <= 0 {
			return fmt.Errorf("%w: quantity of %s must be positive", domain.ErrInvalidInput, itemID)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapErr(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	batch := &pgx.Batch{}
	for itemID, qty := range items {
		batch.Queue(upsertItemSQL, userID, itemID, qty)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapErr(ErrMsgFailedToAddItem, err)
	}
	return wrapErr(ErrMsgFailedToCommitTransaction, tx.Commit(ctx))
}

// GetItems returns item id to quantity for userID
func (r *InventoryRepository) GetItems(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_id, quantity FROM inventory_items WHERE user_id = $1 AND quantity > 0`, userID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToGetItems, err)
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var itemID string
		var qty int
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, wrapErr(ErrMsgFailedToGetItems, err)
		}
		items[itemID] = qty
	}
	return items, wrapErr(ErrMsgFailedToGetItems, rows.Err())
}
