package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// LedgerRepository keeps balances in the wallets table
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Debit subtracts amount only when the balance covers it, in one statement
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative debit", domain.ErrInvalidInput)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2`, userID, amount)
	if err != nil {
		return wrapErr(ErrMsgFailedToDebit, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.Balance(ctx, userID); err != nil {
		return err
	}
	return domain.ErrInsufficientFunds
}

// Credit adds amount, creating the wallet on first use
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative credit", domain.ErrInvalidInput)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()`, userID, amount)
	return wrapErr(ErrMsgFailedToCredit, err)
}

// Balance returns the current balance or domain.ErrUserNotFound
func (r *LedgerRepository) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToGetBalance, err)
	}
	return balance, nil
}
