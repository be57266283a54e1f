package opening

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseBattle_Go/internal/concurrency"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/lootbox"
	"github.com/osse101/CaseBattle_Go/internal/metrics"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// Service defines the interface for box opening operations
type Service interface {
	OpenBox(ctx context.Context, userID, boxID string) (*domain.Opening, error)
	SellBack(ctx context.Context, userID string, openingID uuid.UUID) (*domain.Opening, error)
	KeepItem(ctx context.Context, userID string, openingID uuid.UUID) (*domain.Opening, error)
	DemoOpen(ctx context.Context, boxID string) (*DemoOpening, error)
	GetOpening(ctx context.Context, openingID uuid.UUID) (*domain.Opening, error)
	VerifyOpening(ctx context.Context, openingID uuid.UUID) (*domain.Verification, error)
	GetFairnessState(ctx context.Context, userID string) (*FairnessState, error)
	SetClientSeed(ctx context.Context, userID, clientSeed string) (*FairnessState, error)
	RotateSeed(ctx context.Context) (*fairness.Commitment, error)
	RevealSeed(ctx context.Context, hash string) (*fairness.Commitment, error)
	SettleExpired(ctx context.Context) (int, error)
	DrawForUser(ctx context.Context, userID, serverSeedHash string, table domain.PrizeTable) (domain.OutcomeResult, error)
	DrawWithSeed(serverSeedHash, clientSeed string, nonce uint64, table domain.PrizeTable) (domain.OutcomeResult, error)
}

// DemoOpening is an unpaid opening. Its throwaway server seed is revealed at once.
type DemoOpening struct {
	Opening    *domain.Opening `json:"opening"`
	ServerSeed string          `json:"server_seed"`
}

// FairnessState is what a player needs to verify future outcomes
type FairnessState struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

// CommitmentHolders counts battles still drawing against a server seed.
// Retired seeds stay hidden until no WAITING or ACTIVE battle holds them.
type CommitmentHolders interface {
	CountOpenBattlesBySeed(ctx context.Context, serverSeedHash string) (int, error)
}

// Config holds tunables of the opening service
type Config struct {
	Retry        concurrency.RetryPolicy
	SettleWindow time.Duration
	SettleBatch  int
	Holders      CommitmentHolders
}

type service struct {
	ledger      repository.Ledger
	seeds       repository.SeedStore
	openings    repository.OpeningStore
	inventory   repository.Inventory
	catalog     repository.Catalog
	serverSeeds *fairness.ServerSeeds
	locks       *concurrency.LockManager
	eventBus    event.Bus
	reel        *lootbox.ReelBuilder
	cfg         Config
	now         func() time.Time
}

// NewService creates a new box opening service
func NewService(
	ledger repository.Ledger,
	seeds repository.SeedStore,
	openings repository.OpeningStore,
	inventory repository.Inventory,
	catalog repository.Catalog,
	serverSeeds *fairness.ServerSeeds,
	locks *concurrency.LockManager,
	eventBus event.Bus,
	cfg Config,
) Service {
	if cfg.SettleWindow <= 0 {
		cfg.SettleWindow = DefaultSettleWindow
	}
	if cfg.SettleBatch <= 0 {
		cfg.SettleBatch = DefaultSettleBatchSize
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = concurrency.DefaultRetryPolicy
	}
	return &service{
		ledger:      ledger,
		seeds:       seeds,
		openings:    openings,
		inventory:   inventory,
		catalog:     catalog,
		serverSeeds: serverSeeds,
		locks:       locks,
		eventBus:    eventBus,
		reel:        lootbox.NewReelBuilder(),
		cfg:         cfg,
		now:         time.Now,
	}
}

// OpenBox charges the user the box price and draws one outcome.
// A failure after the debit credits the price back before returning.
func (s *service) OpenBox(ctx context.Context, userID, boxID string) (*domain.Opening, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOpenBoxCalled, "userID", userID, "boxID", boxID)

	if userID == "" || boxID == "" {
		return nil, domain.ErrInvalidInput
	}

	box, err := s.catalog.GetBox(ctx, boxID)
	if err != nil {
		s.recordOpenFailure(err)
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBox, err)
	}
	price := box.EffectivePrice()

	var opening *domain.Opening
	err = s.locks.WithLock(concurrency.UserKey(userID), func() error {
		if err := s.ledger.Debit(ctx, userID, price); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}

		o, err := s.drawAndPersist(ctx, userID, box, price)
		if err != nil {
			s.compensateDebit(ctx, userID, price, err)
			return err
		}
		opening = o
		return nil
	})
	if err != nil {
		s.recordOpenFailure(err)
		return nil, err
	}

	if winner, ok := box.Entry(opening.Result.WonItemID); ok {
		reel, err := s.reel.Build(box.Prizes, winner)
		if err != nil {
			log.Warn(ErrContextFailedToBuildReel, "openingID", opening.ID, "error", err)
		}
		opening.Reel = reel
	}

	log.Info(LogMsgBoxOpened,
		"openingID", opening.ID,
		"item", opening.Result.WonItemID,
		"rarity", opening.Result.Rarity.String(),
		"nonce", opening.Result.Nonce)
	s.publish(ctx, event.NewBoxOpenedEvent(opening))

	return opening, nil
}

// drawAndPersist runs nonce advance, derive, select and persist. Callers hold the user lock.
func (s *service) drawAndPersist(ctx context.Context, userID string, box *domain.Box, price int64) (*domain.Opening, error) {
	result, err := s.drawLocked(ctx, userID, s.serverSeeds.Active(), box.Prizes)
	if err != nil {
		return nil, err
	}

	opening := &domain.Opening{
		ID:         uuid.New(),
		UserID:     userID,
		BoxID:      box.ID,
		Price:      price,
		Result:     result,
		Settlement: domain.SettlementPending,
		CreatedAt:  result.Timestamp,
	}

	err = concurrency.Retry(ctx, s.cfg.Retry, OpCreateOpening, func(ctx context.Context) error {
		return s.openings.CreateOpening(ctx, opening)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToPersist, err)
	}
	return opening, nil
}

// drawLocked consumes the user's next nonce and rolls against serverSeed
func (s *service) drawLocked(ctx context.Context, userID string, serverSeed fairness.Seed, table domain.PrizeTable) (domain.OutcomeResult, error) {
	clientSeed, err := s.clientSeedFor(ctx, userID)
	if err != nil {
		return domain.OutcomeResult{}, err
	}

	nonce, err := s.seeds.NextNonce(ctx, userID)
	if err != nil {
		return domain.OutcomeResult{}, fmt.Errorf("%s: %w", ErrContextFailedToNextNonce, err)
	}

	result, err := lootbox.Roll(domain.OutcomeRequest{
		ServerSeed: serverSeed.Value,
		ClientSeed: clientSeed,
		Nonce:      nonce,
		Table:      table,
	}, s.now())
	if err != nil {
		return domain.OutcomeResult{}, fmt.Errorf("%s: %w", ErrContextFailedToRoll, err)
	}
	return result, nil
}

// committedSeed resolves a commitment taken earlier, active or retired
func (s *service) committedSeed(hash string) (fairness.Seed, error) {
	seed, ok := s.serverSeeds.Lookup(hash)
	if !ok {
		return fairness.Seed{}, fmt.Errorf("%w: unknown server seed commitment %q", domain.ErrInvariantViolation, hash)
	}
	return seed, nil
}

// reveal opens a retired seed unless an open battle still draws against it
func (s *service) reveal(ctx context.Context, hash string) (fairness.Commitment, error) {
	commitment, err := s.serverSeeds.Reveal(hash)
	if err != nil || s.cfg.Holders == nil {
		return commitment, err
	}
	held, err := s.cfg.Holders.CountOpenBattlesBySeed(ctx, hash)
	if err != nil {
		return fairness.Commitment{}, fmt.Errorf("%s: %w", ErrContextFailedToCountHolders, err)
	}
	if held > 0 {
		commitment.Seed = ""
		return commitment, fmt.Errorf("%w: held by %d open battles", domain.ErrSeedNotRevealed, held)
	}
	return commitment, nil
}

// clientSeedFor returns the user's client seed, generating one on first use
func (s *service) clientSeedFor(ctx context.Context, userID string) (string, error) {
	seed, err := s.seeds.ClientSeed(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrContextFailedToGetClientSeed, err)
	}
	if seed != "" {
		return seed, nil
	}

	seed, err = fairness.GenerateSeed()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrContextFailedToGenerateSeed, err)
	}
	if err := s.seeds.SetClientSeed(ctx, userID, seed); err != nil {
		return "", fmt.Errorf("%s: %w", ErrContextFailedToSetClientSeed, err)
	}
	logger.FromContext(ctx).Info(LogMsgClientSeedGenerated, "userID", userID)
	return seed, nil
}

func (s *service) compensateDebit(ctx context.Context, userID string, amount int64, cause error) {
	log := logger.FromContext(ctx)
	if domain.KindOf(cause) == domain.KindInvariant {
		log.Error(LogMsgInvariantViolation, "userID", userID, "error", cause)
	}

	err := concurrency.Retry(ctx, s.cfg.Retry, OpCompensateDebit, func(ctx context.Context) error {
		return s.ledger.Credit(ctx, userID, amount)
	})
	metrics.Compensations.WithLabelValues(OpCompensateDebit).Inc()
	if err != nil {
		log.Error(LogMsgCompensationFailed, "userID", userID, "amount", amount, "cause", cause, "error", err)
		return
	}
	log.Warn(LogMsgDebitCompensated, "userID", userID, "amount", amount, "cause", cause)
}

func (s *service) recordOpenFailure(err error) {
	reason := domain.ReasonCode(err)
	if reason == "" {
		reason = domain.KindOf(err).String()
	}
	metrics.OpenFailures.WithLabelValues(reason).Inc()
}

// SellBack settles a pending opening for its display value. Repeating a
// completed sell-back returns the opening without crediting again.
func (s *service) SellBack(ctx context.Context, userID string, openingID uuid.UUID) (*domain.Opening, error) {
	logger.FromContext(ctx).Info(LogMsgSellBackCalled, "userID", userID, "openingID", openingID)

	return s.settleByUser(ctx, userID, openingID, domain.SettlementSoldBack)
}

// KeepItem settles a pending opening by moving the item to the inventory
func (s *service) KeepItem(ctx context.Context, userID string, openingID uuid.UUID) (*domain.Opening, error) {
	logger.FromContext(ctx).Info(LogMsgKeepItemCalled, "userID", userID, "openingID", openingID)

	return s.settleByUser(ctx, userID, openingID, domain.SettlementKept)
}

func (s *service) settleByUser(ctx context.Context, userID string, openingID uuid.UUID, state domain.SettlementState) (*domain.Opening, error) {
	var result *domain.Opening
	err := s.locks.WithLock(concurrency.UserKey(userID), func() error {
		o, err := s.openings.GetOpening(ctx, openingID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetOpening, err)
		}
		if o.UserID != userID {
			return domain.ErrOpeningNotFound
		}

		switch o.Settlement {
		case state:
			result = o
			return nil
		case domain.SettlementPending:
		default:
			return domain.ErrOpeningAlreadySettled
		}

		if err := s.settleLocked(ctx, o, state, false); err != nil {
			return err
		}
		result = o
		return nil
	})
	return result, err
}

// settleLocked moves o out of pending and pays out. A failed payout reverts
// the settlement so the opening can be settled again.
func (s *service) settleLocked(ctx context.Context, o *domain.Opening, state domain.SettlementState, automatic bool) error {
	log := logger.FromContext(ctx)
	at := s.now()

	var changed int64
	err := concurrency.Retry(ctx, s.cfg.Retry, OpSettleOpening, func(ctx context.Context) error {
		var err error
		changed, err = s.openings.SettleOpeningIfPending(ctx, o.ID, state, at)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToSettle, err)
	}
	if changed == 0 {
		return domain.ErrOpeningAlreadySettled
	}

	var amount int64
	switch state {
	case domain.SettlementSoldBack:
		amount = o.Result.DisplayValue
		err = s.ledger.Credit(ctx, o.UserID, amount)
		if err != nil {
			err = fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
		}
	case domain.SettlementKept:
		err = s.inventory.AddItem(ctx, o.UserID, o.Result.WonItemID, 1)
		if err != nil {
			err = fmt.Errorf("%s: %w", ErrContextFailedToAddItem, err)
		}
	default:
		err = fmt.Errorf("%w: unknown settlement %q", domain.ErrInvariantViolation, state)
	}

	if err != nil {
		s.revertSettlement(ctx, o, state, err)
		return err
	}

	o.Settlement = state
	o.SettledAt = &at
	log.Info(LogMsgOpeningSettled, "openingID", o.ID, "settlement", state, "userID", o.UserID, "amount", amount, "automatic", automatic)
	s.publish(ctx, event.NewOpeningSettledEvent(o, amount, automatic))
	return nil
}

func (s *service) revertSettlement(ctx context.Context, o *domain.Opening, from domain.SettlementState, cause error) {
	log := logger.FromContext(ctx)
	err := concurrency.Retry(ctx, s.cfg.Retry, OpRevertSettlement, func(ctx context.Context) error {
		return s.openings.RevertSettlement(ctx, o.ID, from)
	})
	metrics.Compensations.WithLabelValues(OpRevertSettlement).Inc()
	if err != nil {
		log.Error(LogMsgRevertFailed, "openingID", o.ID, "cause", cause, "error", err)
		return
	}
	log.Warn(LogMsgSettlementReverted, "openingID", o.ID, "cause", cause)
}

// SettleExpired keeps every opening that stayed pending past the settle window
func (s *service) SettleExpired(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	cutoff := s.now().Add(-s.cfg.SettleWindow)

	pending, err := s.openings.ListPendingOpenings(ctx, cutoff, s.cfg.SettleBatch)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToListPending, err)
	}

	settled := 0
	for _, o := range pending {
		if err := ctx.Err(); err != nil {
			return settled, err
		}
		err := s.locks.WithLock(concurrency.UserKey(o.UserID), func() error {
			return s.settleLocked(ctx, o, domain.SettlementKept, true)
		})
		switch {
		case err == nil:
			settled++
		case errors.Is(err, domain.ErrOpeningAlreadySettled):
		default:
			log.Warn(LogMsgExpiredSettleFailed, "openingID", o.ID, "error", err)
		}
	}

	if settled > 0 {
		log.Info(LogMsgExpiredSettled, "count", settled, "cutoff", cutoff)
	}
	return settled, nil
}

// DemoOpen draws against a throwaway server seed. Nothing is debited,
// persisted or counted against any nonce.
func (s *service) DemoOpen(ctx context.Context, boxID string) (*DemoOpening, error) {
	logger.FromContext(ctx).Info(LogMsgDemoOpenCalled, "boxID", boxID)

	box, err := s.catalog.GetBox(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBox, err)
	}

	serverSeed, err := fairness.GenerateSeed()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGenerateSeed, err)
	}
	clientSeed, err := fairness.GenerateSeed()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGenerateSeed, err)
	}

	result, err := lootbox.Roll(domain.OutcomeRequest{
		ServerSeed: serverSeed,
		ClientSeed: clientSeed,
		Table:      box.Prizes,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRoll, err)
	}

	opening := &domain.Opening{
		ID:        uuid.New(),
		UserID:    DemoUserID,
		BoxID:     box.ID,
		Result:    result,
		Demo:      true,
		CreatedAt: result.Timestamp,
	}
	if winner, ok := box.Entry(result.WonItemID); ok {
		if opening.Reel, err = s.reel.Build(box.Prizes, winner); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToBuildReel, err)
		}
	}

	return &DemoOpening{Opening: opening, ServerSeed: serverSeed}, nil
}

// GetOpening returns a stored opening
func (s *service) GetOpening(ctx context.Context, openingID uuid.UUID) (*domain.Opening, error) {
	o, err := s.openings.GetOpening(ctx, openingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetOpening, err)
	}
	return o, nil
}

// VerifyOpening replays a stored opening once its server seed is revealed
func (s *service) VerifyOpening(ctx context.Context, openingID uuid.UUID) (*domain.Verification, error) {
	o, err := s.openings.GetOpening(ctx, openingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetOpening, err)
	}

	commitment, err := s.reveal(ctx, o.Result.ServerSeedHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRevealSeed, err)
	}

	box, err := s.catalog.GetBox(ctx, o.BoxID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBox, err)
	}

	v, err := lootbox.Verify(commitment.Seed, o.Result, box.Prizes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToVerify, err)
	}
	return &v, nil
}

// GetFairnessState returns the active commitment with the user's seed and nonce
func (s *service) GetFairnessState(ctx context.Context, userID string) (*FairnessState, error) {
	var state *FairnessState
	err := s.locks.WithLock(concurrency.UserKey(userID), func() error {
		clientSeed, err := s.clientSeedFor(ctx, userID)
		if err != nil {
			return err
		}
		nonce, err := s.seeds.CurrentNonce(ctx, userID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetNonce, err)
		}
		state = &FairnessState{
			ServerSeedHash: s.serverSeeds.ActiveHash(),
			ClientSeed:     clientSeed,
			Nonce:          nonce,
		}
		return nil
	})
	return state, err
}

// SetClientSeed replaces the user's client seed. The nonce keeps counting up,
// so no (server seed, client seed, nonce) triple is ever drawn twice.
func (s *service) SetClientSeed(ctx context.Context, userID, clientSeed string) (*FairnessState, error) {
	if userID == "" || clientSeed == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgMissingClientSeed)
	}
	if len(clientSeed) > MaxClientSeedLength {
		return nil, fmt.Errorf("%w: client seed longer than %d", domain.ErrInvalidInput, MaxClientSeedLength)
	}

	var nonce uint64
	err := s.locks.WithLock(concurrency.UserKey(userID), func() error {
		if err := s.seeds.SetClientSeed(ctx, userID, clientSeed); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToSetClientSeed, err)
		}
		var err error
		if nonce, err = s.seeds.CurrentNonce(ctx, userID); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetNonce, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgClientSeedChanged, "userID", userID, "nonce", nonce)
	return &FairnessState{
		ServerSeedHash: s.serverSeeds.ActiveHash(),
		ClientSeed:     clientSeed,
		Nonce:          nonce,
	}, nil
}

// RotateSeed retires the active server seed and returns its reveal. The raw
// seed is left out while battles created under it are still open.
func (s *service) RotateSeed(ctx context.Context) (*fairness.Commitment, error) {
	retired, err := s.serverSeeds.Rotate("")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRotateSeed, err)
	}

	log := logger.FromContext(ctx)
	commitment, err := s.reveal(ctx, retired.Hash)
	if errors.Is(err, domain.ErrSeedNotRevealed) {
		log.Info(LogMsgRevealWithheld, "retiredHash", retired.Hash, "reason", err)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToRevealSeed, err)
	}

	activeHash := s.serverSeeds.ActiveHash()
	log.Info(LogMsgSeedRotated, "retiredHash", retired.Hash, "activeHash", activeHash)
	s.publish(ctx, event.NewSeedRotatedEvent(retired.Hash, activeHash))
	return &commitment, nil
}

// RevealSeed returns the commitment behind hash. The active seed, and a retired
// one still held by open battles, yield domain.ErrSeedNotRevealed alongside
// the public commitment.
func (s *service) RevealSeed(ctx context.Context, hash string) (*fairness.Commitment, error) {
	commitment, err := s.reveal(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrSeedNotRevealed) {
			return &commitment, err
		}
		return nil, err
	}
	return &commitment, nil
}

// DrawForUser draws one battle outcome on the user's own client seed and nonce
// sequence, against the server seed the battle committed to
func (s *service) DrawForUser(ctx context.Context, userID, serverSeedHash string, table domain.PrizeTable) (domain.OutcomeResult, error) {
	seed, err := s.committedSeed(serverSeedHash)
	if err != nil {
		return domain.OutcomeResult{}, err
	}
	var result domain.OutcomeResult
	err = s.locks.WithLock(concurrency.UserKey(userID), func() error {
		var err error
		result, err = s.drawLocked(ctx, userID, seed, table)
		return err
	})
	return result, err
}

// DrawWithSeed draws against a committed server seed with an explicit client seed and nonce
func (s *service) DrawWithSeed(serverSeedHash, clientSeed string, nonce uint64, table domain.PrizeTable) (domain.OutcomeResult, error) {
	seed, err := s.committedSeed(serverSeedHash)
	if err != nil {
		return domain.OutcomeResult{}, err
	}
	result, err := lootbox.Roll(domain.OutcomeRequest{
		ServerSeed: seed.Value,
		ClientSeed: clientSeed,
		Nonce:      nonce,
		Table:      table,
	}, s.now())
	if err != nil {
		return domain.OutcomeResult{}, fmt.Errorf("%s: %w", ErrContextFailedToRoll, err)
	}
	return result, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
