package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

const openingColumns = `id, user_id, box_id, price, won_item_id, display_value, rarity, random_value,
	server_seed_hash, client_seed, nonce, settlement, demo, created_at, settled_at`

// OpeningRepository persists openings for audit and settlement
type OpeningRepository struct {
	db *pgxpool.Pool
}

// NewOpeningRepository creates a new OpeningRepository
func NewOpeningRepository(db *pgxpool.Pool) *OpeningRepository {
	return &OpeningRepository{db: db}
}

// CreateOpening inserts a new opening record
func (r *OpeningRepository) CreateOpening(ctx context.Context, o *domain.Opening) error {
	res := o.Result
	_, err := r.db.Exec(ctx, `
		INSERT INTO openings (`+openingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.UserID, o.BoxID, o.Price, res.WonItemID, res.DisplayValue, int16(res.Rarity), res.RandomValue,
		res.ServerSeedHash, res.ClientSeed, int64(res.Nonce), string(o.Settlement), o.Demo, o.CreatedAt, o.SettledAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: nonce %d already consumed", ErrMsgFailedToCreateOpening, domain.ErrInvariantViolation, res.Nonce)
	}
	return wrapErr(ErrMsgFailedToCreateOpening, err)
}

// GetOpening retrieves an opening by ID
func (r *OpeningRepository) GetOpening(ctx context.Context, id uuid.UUID) (*domain.Opening, error) {
	row := r.db.QueryRow(ctx, `SELECT `+openingColumns+` FROM openings WHERE id = $1`, id)
	o, err := scanOpening(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOpeningNotFound
	}
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToGetOpening, err)
	}
	return o, nil
}

// SettleOpeningIfPending settles a pending opening and reports rows changed
func (r *OpeningRepository) SettleOpeningIfPending(ctx context.Context, id uuid.UUID, state domain.SettlementState, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE openings SET settlement = $2, settled_at = $3
		WHERE id = $1 AND settlement = 'pending'`, id, string(state), at)
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToSettleOpening, err)
	}
	return tag.RowsAffected(), nil
}

// RevertSettlement returns an opening to pending after a failed payout
func (r *OpeningRepository) RevertSettlement(ctx context.Context, id uuid.UUID, from domain.SettlementState) error {
	_, err := r.db.Exec(ctx, `
		UPDATE openings SET settlement = 'pending', settled_at = NULL
		WHERE id = $1 AND settlement = $2`, id, string(from))
	return wrapErr(ErrMsgFailedToSettleOpening, err)
}

// ListPendingOpenings returns the oldest pending, non-demo openings created before the cutoff
func (r *OpeningRepository) ListPendingOpenings(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Opening, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+openingColumns+` FROM openings
		WHERE settlement = 'pending' AND NOT demo AND created_at < $1
		ORDER BY created_at
		LIMIT $2`, createdBefore, limit)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListOpenings, err)
	}
	defer rows.Close()

	var out []*domain.Opening
	for rows.Next() {
		o, err := scanOpening(rows)
		if err != nil {
			return nil, wrapErr(ErrMsgFailedToListOpenings, err)
		}
		out = append(out, o)
	}
	return out, wrapErr(ErrMsgFailedToListOpenings, rows.Err())
}

func scanOpening(row pgx.Row) (*domain.Opening, error) {
	var (
		o          domain.Opening
		rarity     int16
		nonce      int64
		settlement string
		settledAt  pgtype.Timestamptz
	)
	err := row.Scan(&o.ID, &o.UserID, &o.BoxID, &o.Price, &o.Result.WonItemID, &o.Result.DisplayValue,
		&rarity, &o.Result.RandomValue, &o.Result.ServerSeedHash, &o.Result.ClientSeed, &nonce,
		&settlement, &o.Demo, &o.CreatedAt, &settledAt)
	if err != nil {
		return nil, err
	}
	o.Result.Rarity = domain.RarityTier(rarity)
	o.Result.Nonce = uint64(nonce)
	o.Result.Timestamp = o.CreatedAt
	o.Settlement = domain.SettlementState(settlement)
	if settledAt.Valid {
		t := settledAt.Time
		o.SettledAt = &t
	}
	return &o, nil
}
