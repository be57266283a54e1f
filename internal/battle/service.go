package battle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/concurrency"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/metrics"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// Service defines the interface for battle lifecycle operations
type Service interface {
	CreateBattle(ctx context.Context, creatorID, boxID string, slotCount, roundCount int) (*domain.Battle, error)
	JoinBattle(ctx context.Context, battleID uuid.UUID, userID string) (*domain.Battle, int, error)
	Backfill(ctx context.Context, battleID uuid.UUID) (bool, error)
	ResolveRound(ctx context.Context, battleID uuid.UUID, roundIndex int) (*domain.Battle, error)
	Finish(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	Run(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	Claim(ctx context.Context, battleID uuid.UUID, userID string, choice domain.ClaimChoice) (*domain.Battle, error)
	GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	ListBattles(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error)
}

// Drawer produces verifiable outcomes for battle slots against the server
// seed commitment the battle took at creation
type Drawer interface {
	DrawForUser(ctx context.Context, userID, serverSeedHash string, table domain.PrizeTable) (domain.OutcomeResult, error)
	DrawWithSeed(serverSeedHash, clientSeed string, nonce uint64, table domain.PrizeTable) (domain.OutcomeResult, error)
}

// SeedCommitter exposes the active server seed commitment
type SeedCommitter interface {
	ActiveHash() string
}

// Config holds tunables of the battle service
type Config struct {
	MaxRounds int
	Retry     concurrency.RetryPolicy
}

// errNoChange aborts an update that found nothing to do
var errNoChange = errors.New("no change")

type service struct {
	store     repository.BattleStore
	ledger    repository.Ledger
	inventory repository.Inventory
	catalog   repository.Catalog
	drawer    Drawer
	seeds     SeedCommitter
	locks     *concurrency.LockManager
	eventBus  event.Bus
	cfg       Config
	now       func() time.Time
}

// NewService creates a new battle service
func NewService(
	store repository.BattleStore,
	ledger repository.Ledger,
	inventory repository.Inventory,
	catalog repository.Catalog,
	drawer Drawer,
	seeds SeedCommitter,
	locks *concurrency.LockManager,
	eventBus event.Bus,
	cfg Config,
) Service {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = concurrency.DefaultRetryPolicy
	}
	return &service{
		store:     store,
		ledger:    ledger,
		inventory: inventory,
		catalog:   catalog,
		drawer:    drawer,
		seeds:     seeds,
		locks:     locks,
		eventBus:  eventBus,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateBattle opens a WAITING battle with the creator in slot 0 and charges
// the creator the entry price.
func (s *service) CreateBattle(ctx context.Context, creatorID, boxID string, slotCount, roundCount int) (*domain.Battle, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateBattleCalled, "creatorID", creatorID, "boxID", boxID, "slots", slotCount, "rounds", roundCount)

	if creatorID == "" || boxID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !slices.Contains(AllowedSlotCounts, slotCount) {
		return nil, domain.ErrInvalidSlotCount
	}
	if roundCount < 1 || roundCount > s.cfg.MaxRounds {
		return nil, fmt.Errorf("%w: must be between 1 and %d", domain.ErrInvalidRoundCount, s.cfg.MaxRounds)
	}

	box, err := s.catalog.GetBox(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBox, err)
	}

	now := s.now().UTC()
	b := &domain.Battle{
		ID:              uuid.New(),
		BoxID:           box.ID,
		EntryPrice:      box.EffectivePrice() * int64(roundCount),
		SlotCount:       slotCount,
		RoundCount:      roundCount,
		Slots:           make([]domain.BattleSlot, slotCount),
		Status:          domain.BattleStatusWaiting,
		ServerSeedHash:  s.seeds.ActiveHash(),
		PerRoundResults: make(map[int][]domain.OutcomeResult),
		Version:         1,
		CreatedAt:       now,
	}
	for i := range b.Slots {
		b.Slots[i] = domain.BattleSlot{Kind: domain.SlotEmpty}
	}
	b.Slots[0] = domain.BattleSlot{Kind: domain.SlotHuman, UserID: creatorID}

	if err := s.ledger.Debit(ctx, creatorID, b.EntryPrice); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
	}

	err = concurrency.Retry(ctx, s.cfg.Retry, OpCreateBattle, func(ctx context.Context) error {
		return s.store.CreateBattle(ctx, b)
	})
	if err != nil {
		s.refund(ctx, creatorID, b.EntryPrice, err)
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreate, err)
	}

	log.Info(LogMsgBattleCreated, "battleID", b.ID, "entryPrice", b.EntryPrice)
	s.publish(ctx, event.NewBattleCreatedEvent(b, creatorID))
	return b, nil
}

// checkJoinable returns the reason userID cannot take a seat in b
func checkJoinable(b *domain.Battle, userID string) error {
	if b.IsFull() {
		return domain.ErrSlotTaken
	}
	if b.Status != domain.BattleStatusWaiting {
		return domain.ErrBattleNotWaiting
	}
	if b.IsSeated(userID) {
		return domain.ErrAlreadySeated
	}
	return nil
}

// JoinBattle seats userID in the lowest empty slot and charges the entry price.
// Filling the last slot activates the battle.
func (s *service) JoinBattle(ctx context.Context, battleID uuid.UUID, userID string) (*domain.Battle, int, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgJoinBattleCalled, "battleID", battleID, "userID", userID)

	if userID == "" {
		return nil, -1, domain.ErrInvalidInput
	}

	var (
		joined *domain.Battle
		slot   = -1
	)
	err := s.locks.WithLock(concurrency.BattleKey(battleID.String()), func() error {
		current, err := s.getBattle(ctx, battleID)
		if err != nil {
			return err
		}
		if err := checkJoinable(current, userID); err != nil {
			return err
		}

		if err := s.ledger.Debit(ctx, userID, current.EntryPrice); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}

		updated, err := s.update(ctx, battleID, func(b *domain.Battle) error {
			if err := checkJoinable(b, userID); err != nil {
				return err
			}
			slot = b.FirstEmptySlot()
			b.Slots[slot] = domain.BattleSlot{Kind: domain.SlotHuman, UserID: userID}
			if b.IsFull() {
				s.activate(b, domain.ActivationJoin)
			}
			return nil
		})
		if err != nil {
			s.refund(ctx, userID, current.EntryPrice, err)
			return err
		}
		joined = updated
		return nil
	})
	if err != nil {
		return nil, -1, err
	}

	log.Info(LogMsgPlayerJoined, "battleID", battleID, "userID", userID, "slot", slot)
	if joined.Status == domain.BattleStatusActive {
		log.Info(LogMsgBattleActivated, "battleID", battleID, "reason", joined.ActivatedBy)
		s.publish(ctx, event.NewBattleActivatedEvent(joined))
	}
	return joined, slot, nil
}

// Backfill fills every empty slot with a bot and activates the battle. It
// reports false without error when the battle already left WAITING, so the
// primary and fallback timers may both fire safely.
func (s *service) Backfill(ctx context.Context, battleID uuid.UUID) (bool, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgBackfillCalled, "battleID", battleID)

	var filled *domain.Battle
	err := s.locks.WithLock(concurrency.BattleKey(battleID.String()), func() error {
		updated, err := s.update(ctx, battleID, func(b *domain.Battle) error {
			if b.Status != domain.BattleStatusWaiting {
				return errNoChange
			}
			for i, slot := range b.Slots {
				if slot.IsEmpty() {
					b.Slots[i] = domain.BattleSlot{Kind: domain.SlotBot, Bot: NewBot(b.ID.String(), i)}
				}
			}
			s.activate(b, domain.ActivationBackfill)
			return nil
		})
		filled = updated
		return err
	})
	if errors.Is(err, errNoChange) {
		log.Info(LogMsgBackfillNoop, "battleID", battleID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log.Info(LogMsgBattleActivated, "battleID", battleID, "reason", filled.ActivatedBy)
	s.publish(ctx, event.NewBattleActivatedEvent(filled))
	return true, nil
}

func (s *service) activate(b *domain.Battle, reason domain.ActivationReason) {
	now := s.now().UTC()
	b.Status = domain.BattleStatusActive
	b.ActivatedBy = reason
	b.ActivatedAt = &now
}

// ResolveRound draws one outcome for every slot. Rounds resolve strictly in
// order; asking again for an already resolved round returns the battle as is.
func (s *service) ResolveRound(ctx context.Context, battleID uuid.UUID, roundIndex int) (*domain.Battle, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgResolveRoundCalled, "battleID", battleID, "round", roundIndex)

	var resolved *domain.Battle
	err := s.locks.WithLock(concurrency.BattleKey(battleID.String()), func() error {
		current, err := s.getBattle(ctx, battleID)
		if err != nil {
			return err
		}
		if roundIndex >= 0 && roundIndex < current.RoundsResolved {
			resolved = current
			return nil
		}
		if current.Status != domain.BattleStatusActive {
			return domain.ErrBattleNotActive
		}
		if roundIndex != current.RoundsResolved || roundIndex >= current.RoundCount {
			return fmt.Errorf("%w: expected round %d, got %d", domain.ErrRoundOutOfOrder, current.RoundsResolved, roundIndex)
		}

		box, err := s.catalog.GetBox(ctx, current.BoxID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetBox, err)
		}

		results := make([]domain.OutcomeResult, len(current.Slots))
		for i, slot := range current.Slots {
			result, err := s.drawForSlot(ctx, current.ServerSeedHash, slot, roundIndex, box.Prizes)
			if err != nil {
				return fmt.Errorf("%s (slot %d): %w", ErrContextFailedToDraw, i, err)
			}
			results[i] = result
		}

		resolved, err = s.update(ctx, battleID, func(b *domain.Battle) error {
			if b.RoundsResolved != roundIndex {
				return fmt.Errorf("%w: round %d resolved concurrently", domain.ErrRoundOutOfOrder, roundIndex)
			}
			b.PerRoundResults[roundIndex] = results
			b.RoundsResolved++
			return nil
		})
		return err
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInvariant {
			log.Error(LogMsgInvariantViolation, "battleID", battleID, "round", roundIndex, "error", err)
		}
		return nil, err
	}

	log.Info(LogMsgRoundResolved, "battleID", battleID, "round", roundIndex)
	return resolved, nil
}

// drawForSlot uses the player's own nonce sequence for humans and the round
// index as nonce for bots, whose client seed is unique to the battle slot.
func (s *service) drawForSlot(ctx context.Context, seedHash string, slot domain.BattleSlot, round int, table domain.PrizeTable) (domain.OutcomeResult, error) {
	switch slot.Kind {
	case domain.SlotHuman:
		return s.drawer.DrawForUser(ctx, slot.UserID, seedHash, table)
	case domain.SlotBot:
		if slot.Bot == nil {
			return domain.OutcomeResult{}, fmt.Errorf("%w: bot slot without identity", domain.ErrInvariantViolation)
		}
		return s.drawer.DrawWithSeed(seedHash, slot.Bot.ClientSeed, uint64(round), table)
	default:
		return domain.OutcomeResult{}, fmt.Errorf("%w: empty slot in active battle", domain.ErrInvariantViolation)
	}
}

// Finish totals every slot and picks the winner. The strictly highest total
// wins; ties go to the lowest slot index.
func (s *service) Finish(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgFinishCalled, "battleID", battleID)

	var finished *domain.Battle
	err := s.locks.WithLock(concurrency.BattleKey(battleID.String()), func() error {
		updated, err := s.update(ctx, battleID, func(b *domain.Battle) error {
			if b.Status == domain.BattleStatusFinished {
				return errNoChange
			}
			if b.Status != domain.BattleStatusActive {
				return domain.ErrBattleNotActive
			}
			if b.RoundsResolved < b.RoundCount {
				return domain.ErrRoundsIncomplete
			}
			totals, winner := ComputeWinner(b)
			now := s.now().UTC()
			b.Totals = totals
			b.WinnerSlot = &winner
			b.Status = domain.BattleStatusFinished
			b.FinishedAt = &now
			return nil
		})
		finished = updated
		return err
	})
	if errors.Is(err, errNoChange) {
		return s.getBattle(ctx, battleID)
	}
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgBattleFinished, "battleID", battleID, "winnerSlot", *finished.WinnerSlot, "totals", finished.Totals)
	s.publish(ctx, event.NewBattleFinishedEvent(finished))
	return finished, nil
}

// ComputeWinner sums each slot's display values across resolved rounds and
// returns the totals with the winning slot index.
func ComputeWinner(b *domain.Battle) ([]int64, int) {
	totals := make([]int64, len(b.Slots))
	for i := range b.Slots {
		for _, r := range b.SlotResults(i) {
			totals[i] += r.DisplayValue
		}
	}
	winner := 0
	for i := 1; i < len(totals); i++ {
		if totals[i] > totals[winner] {
			winner = i
		}
	}
	return totals, winner
}

// Run resolves every remaining round and finishes the battle
func (s *service) Run(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	b, err := s.getBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BattleStatusFinished {
		return b, nil
	}
	if b.Status != domain.BattleStatusActive {
		return nil, domain.ErrBattleNotActive
	}

	for round := b.RoundsResolved; round < b.RoundCount; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.ResolveRound(ctx, battleID, round); err != nil {
			return nil, fmt.Errorf("%s %d: %w", ErrContextFailedToResolve, round, err)
		}
	}
	return s.Finish(ctx, battleID)
}

// Claim pays the prize pool to the winning player, at most once per battle.
// A failed payout clears the claim so it can be retried.
func (s *service) Claim(ctx context.Context, battleID uuid.UUID, userID string, choice domain.ClaimChoice) (*domain.Battle, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimCalled, "battleID", battleID, "userID", userID, "choice", choice)

	if !choice.Valid() {
		return nil, domain.ErrInvalidClaimChoice
	}

	var (
		claimed *domain.Battle
		amount  int64
	)
	err := s.locks.WithLock(concurrency.BattleKey(battleID.String()), func() error {
		updated, err := s.update(ctx, battleID, func(b *domain.Battle) error {
			if err := checkClaimable(b, userID); err != nil {
				return err
			}
			now := s.now().UTC()
			b.Claimed = true
			b.ClaimChoice = choice
			b.ClaimedAt = &now
			return nil
		})
		if err != nil {
			return err
		}

		amount, err = s.payout(ctx, updated, userID, choice)
		if err != nil {
			s.revertClaim(ctx, battleID, err)
			return err
		}
		claimed = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Claimed battles are terminal; stale holders are still guarded by the version CAS.
	s.locks.Forget(concurrency.BattleKey(battleID.String()))

	log.Info(LogMsgBattleClaimed, "battleID", battleID, "userID", userID, "choice", choice, "amount", amount)
	s.publish(ctx, event.NewBattleClaimedEvent(claimed, userID, amount))
	return claimed, nil
}

func checkClaimable(b *domain.Battle, userID string) error {
	if b.Status != domain.BattleStatusFinished || b.WinnerSlot == nil {
		return domain.ErrBattleNotFinished
	}
	if b.Claimed {
		return domain.ErrAlreadyClaimed
	}
	winner := b.Slots[*b.WinnerSlot]
	if winner.Kind != domain.SlotHuman || winner.UserID != userID {
		return domain.ErrNotWinner
	}
	return nil
}

// payout credits the pool as cash, or every item won in the battle
func (s *service) payout(ctx context.Context, b *domain.Battle, userID string, choice domain.ClaimChoice) (int64, error) {
	switch choice {
	case domain.ClaimCash:
		pool := b.PrizePool()
		if err := s.ledger.Credit(ctx, userID, pool); err != nil {
			return 0, fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
		return pool, nil
	case domain.ClaimItems:
		items := make(map[string]int)
		var value int64
		for i := range b.Slots {
			for _, r := range b.SlotResults(i) {
				items[r.WonItemID]++
				value += r.DisplayValue
			}
		}
		if len(items) == 0 {
			return 0, nil
		}
		if err := s.inventory.AddItems(ctx, userID, items); err != nil {
			return 0, fmt.Errorf("%s: %w", ErrContextFailedToAddItems, err)
		}
		return value, nil
	default:
		return 0, domain.ErrInvalidClaimChoice
	}
}

func (s *service) revertClaim(ctx context.Context, battleID uuid.UUID, cause error) {
	log := logger.FromContext(ctx)
	_, err := s.update(ctx, battleID, func(b *domain.Battle) error {
		b.Claimed = false
		b.ClaimChoice = ""
		b.ClaimedAt = nil
		return nil
	})
	metrics.Compensations.WithLabelValues(OpRevertClaim).Inc()
	if err != nil {
		log.Error(LogMsgClaimRevertFailed, "battleID", battleID, "cause", cause, "error", err)
		return
	}
	log.Warn(LogMsgClaimReverted, "battleID", battleID, "cause", cause)
}

// GetBattle returns a stored battle
func (s *service) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	return s.getBattle(ctx, battleID)
}

// ListBattles returns battles in the given status
func (s *service) ListBattles(ctx context.Context, status domain.BattleStatus, limit int) ([]*domain.Battle, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	battles, err := s.store.ListBattlesByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToList, err)
	}
	return battles, nil
}

func (s *service) getBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	b, err := s.store.GetBattle(ctx, battleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBattle, err)
	}
	return b, nil
}

// update loads the battle, applies fn to a copy and stores it with a
// version check. Lost races reload and reapply fn, so fn must re-check its
// preconditions. Callers hold the battle lock.
func (s *service) update(ctx context.Context, battleID uuid.UUID, fn func(b *domain.Battle) error) (*domain.Battle, error) {
	var out *domain.Battle
	err := concurrency.Retry(ctx, s.cfg.Retry, OpUpdateBattle, func(ctx context.Context) error {
		current, err := s.store.GetBattle(ctx, battleID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetBattle, err)
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.Version = current.Version + 1

		ok, err := s.store.CompareAndSwapBattle(ctx, next, current.Version)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToUpdate, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", ErrContextFailedToUpdate, domain.ErrWriteConflict)
		}
		out = next
		return nil
	})
	return out, err
}

func (s *service) refund(ctx context.Context, userID string, amount int64, cause error) {
	log := logger.FromContext(ctx)
	err := concurrency.Retry(ctx, s.cfg.Retry, OpRefundEntry, func(ctx context.Context) error {
		return s.ledger.Credit(ctx, userID, amount)
	})
	metrics.Compensations.WithLabelValues(OpRefundEntry).Inc()
	if err != nil {
		log.Error(LogMsgRefundFailed, "userID", userID, "amount", amount, "cause", cause, "error", err)
		return
	}
	log.Warn(LogMsgEntryRefunded, "userID", userID, "amount", amount, "cause", cause)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
