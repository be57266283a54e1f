package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// BattleRepository stores each battle as a versioned JSONB document.
// The version column backs compare-and-swap updates.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a new BattleRepository
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// CreateBattle inserts a new battle record
func (r *BattleRepository) CreateBattle(ctx context.Context, b *domain.Battle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeBattle, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO battles (id, box_id, status, version, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.BoxID, string(b.Status), b.Version, data, b.CreatedAt)
	return wrapErr(ErrMsgFailedToCreateBattle, err)
}

// GetBattle retrieves a battle by ID
func (r *BattleRepository) GetBattle(ctx context.Context, id uuid.UUID) (*domain.Battle, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM battles WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBattleNotFound
	}
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToGetBattle, err)
	}
	return decodeBattle(data)
}

// CompareAndSwapBattle writes b only if the stored version still equals expectedVersion
func (r *BattleRepository) CompareAndSwapBattle(ctx context.Context, b *domain.Battle, expectedVersion int64) (bool, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToEncodeBattle, err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE battles SET status = $2, version = $3, data = $4, updated_at = NOW()
		WHERE id = $1 AND version = $5`,
		b.ID, string(b.Status), b.Version, data, expectedVersion)
	if err != nil {
		return false, wrapErr(ErrMsgFailedToSwapBattle, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListBattlesByStatus returns the oldest battles in the given status
func (r *BattleRepository) ListBattlesByStatus(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT data FROM battles WHERE status = $1 ORDER BY created_at LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListBattles, err)
	}
	defer rows.Close()

	var out []*domain.Battle
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, wrapErr(ErrMsgFailedToListBattles, err)
		}
		b, err := decodeBattle(data)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, wrapErr(ErrMsgFailedToListBattles, rows.Err())
}

func decodeBattle(data []byte) (*domain.Battle, error) {
	var b domain.Battle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeBattle, err)
	}
	if b.PerRoundResults == nil {
		b.PerRoundResults = make(map[int][]domain.OutcomeResult)
	}
	return &b, nil
}

// CountOpenBattlesBySeed counts unfinished battles committed to serverSeedHash
func (r *BattleRepository) CountOpenBattlesBySeed(ctx context.Context, serverSeedHash string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM battles
		WHERE status IN ('WAITING', 'ACTIVE') AND data->>'server_seed_hash' = $1`, serverSeedHash).Scan(&n)
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToCountBattles, err)
	}
	return n, nil
}
