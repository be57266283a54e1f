package opening

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/internal/concurrency"
	"github.com/osse101/CaseBattle_Go/internal/database/memory"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
	"github.com/osse101/CaseBattle_Go/internal/lootbox"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

const (
	testServerSeed = "test-server-seed"
	testUser       = "alice"
	testBoxID      = "test_box"
	testBoxPrice   = int64(100)
)

var fastRetry = concurrency.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func testBox() *domain.Box {
	return &domain.Box{
		ID:    testBoxID,
		Name:  "Test Box",
		Price: testBoxPrice,
		Prizes: domain.PrizeTable{
			{ItemID: "knife", DisplayValue: 1000, Rarity: domain.RarityLegendary, Weight: 1},
			{ItemID: "gloves", DisplayValue: 300, Rarity: domain.RarityEpic, Weight: 9},
			{ItemID: "pistol", DisplayValue: 50, Rarity: domain.RarityCommon, Weight: 90},
		},
	}
}

type testDeps struct {
	ledger    repository.Ledger
	seeds     repository.SeedStore
	openings  repository.OpeningStore
	inventory repository.Inventory
	bus       *event.MemoryBus
	server    *fairness.ServerSeeds
}

func memoryDeps(t testing.TB) testDeps {
	t.Helper()
	server, err := fairness.NewServerSeeds(testServerSeed)
	require.NoError(t, err)
	return testDeps{
		ledger:    memory.NewLedger(),
		seeds:     memory.NewSeedStore(),
		openings:  memory.NewOpeningStore(),
		inventory: memory.NewInventory(),
		bus:       event.NewMemoryBus(),
		server:    server,
	}
}

func newTestService(t testing.TB, d testDeps) *service {
	t.Helper()
	return newTestServiceWithHolders(t, d, nil)
}

func newTestServiceWithHolders(t testing.TB, d testDeps, holders CommitmentHolders) *service {
	t.Helper()
	catalog, err := lootbox.NewStaticCatalog([]*domain.Box{testBox()})
	require.NoError(t, err)
	svc := NewService(d.ledger, d.seeds, d.openings, d.inventory, catalog, d.server,
		concurrency.NewLockManager(), d.bus, Config{Retry: fastRetry, SettleWindow: time.Minute, Holders: holders})
	return svc.(*service)
}

// heldSeeds reports a fixed number of open battles per commitment
type heldSeeds map[string]int

func (h heldSeeds) CountOpenBattlesBySeed(_ context.Context, hash string) (int, error) {
	return h[hash], nil
}

func fund(t testing.TB, l repository.Ledger, userID string, amount int64) {
	t.Helper()
	require.NoError(t, l.Credit(context.Background(), userID, amount))
}

func TestOpenBox_Success(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, 250)

	var published []event.Event
	d.bus.Subscribe(event.BoxOpened, func(_ context.Context, e event.Event) error {
		published = append(published, e)
		return nil
	})

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	balance, err := d.ledger.Balance(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	assert.Equal(t, domain.SettlementPending, o.Settlement)
	assert.Equal(t, testBoxPrice, o.Price)
	assert.Equal(t, uint64(0), o.Result.Nonce)
	assert.Equal(t, fairness.HashServerSeed(testServerSeed), o.Result.ServerSeedHash)
	assert.NotEmpty(t, o.Result.ClientSeed)

	require.Len(t, o.Reel, domain.ReelLength)
	assert.Equal(t, o.Result.WonItemID, o.Reel[domain.ReelWinnerIndex].ItemID)

	stored, err := d.openings.GetOpening(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Result, stored.Result)

	next, err := d.seeds.CurrentNonce(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
	assert.Len(t, published, 1)
}

func TestOpenBox_OutcomeIsReproducible(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, 1000)
	_, err := svc.SetClientSeed(ctx, testUser, "my-client-seed")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		o, err := svc.OpenBox(ctx, testUser, testBoxID)
		require.NoError(t, err)

		rv, err := fairness.Derive(testServerSeed, "my-client-seed", uint64(i))
		require.NoError(t, err)
		entry, err := lootbox.Select(rv, testBox().Prizes)
		require.NoError(t, err)

		assert.Equal(t, uint64(i), o.Result.Nonce)
		assert.Equal(t, rv, o.Result.RandomValue)
		assert.Equal(t, entry.ItemID, o.Result.WonItemID)
	}
}

func TestOpenBox_InsufficientFundsNoMutation(t *testing.T) {
	ledger := new(MockLedger)
	seeds := new(MockSeedStore)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.seeds, d.openings = ledger, seeds, openings
	svc := newTestService(t, d)

	ledger.On("Debit", mock.Anything, testUser, testBoxPrice).Return(domain.ErrInsufficientFunds)

	_, err := svc.OpenBox(context.Background(), testUser, testBoxID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, "insufficient_funds", domain.ReasonCode(err))

	seeds.AssertNotCalled(t, "NextNonce", mock.Anything, mock.Anything)
	openings.AssertNotCalled(t, "CreateOpening", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenBox_UnknownBox(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)

	_, err := svc.OpenBox(context.Background(), testUser, "missing")
	assert.ErrorIs(t, err, domain.ErrBoxNotFound)
}

func TestOpenBox_PersistFailureRollsBackDebit(t *testing.T) {
	ledger := new(MockLedger)
	seeds := new(MockSeedStore)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.seeds, d.openings = ledger, seeds, openings
	svc := newTestService(t, d)

	ledger.On("Debit", mock.Anything, testUser, testBoxPrice).Return(nil)
	seeds.On("ClientSeed", mock.Anything, testUser).Return("seed", nil)
	seeds.On("NextNonce", mock.Anything, testUser).Return(uint64(7), nil)
	openings.On("CreateOpening", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	ledger.On("Credit", mock.Anything, testUser, testBoxPrice).Return(nil)

	_, err := svc.OpenBox(context.Background(), testUser, testBoxID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrContextFailedToPersist)

	openings.AssertNumberOfCalls(t, "CreateOpening", 1)
	ledger.AssertCalled(t, "Credit", mock.Anything, testUser, testBoxPrice)
	ledger.AssertExpectations(t)
}

func TestOpenBox_NonceFailureRollsBackDebit(t *testing.T) {
	ledger := new(MockLedger)
	seeds := new(MockSeedStore)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.seeds, d.openings = ledger, seeds, openings
	svc := newTestService(t, d)

	ledger.On("Debit", mock.Anything, testUser, testBoxPrice).Return(nil)
	seeds.On("ClientSeed", mock.Anything, testUser).Return("seed", nil)
	seeds.On("NextNonce", mock.Anything, testUser).Return(uint64(0), domain.ErrStorageTimeout)
	ledger.On("Credit", mock.Anything, testUser, testBoxPrice).Return(nil)

	_, err := svc.OpenBox(context.Background(), testUser, testBoxID)
	assert.ErrorIs(t, err, domain.ErrStorageTimeout)

	ledger.AssertCalled(t, "Credit", mock.Anything, testUser, testBoxPrice)
	openings.AssertNotCalled(t, "CreateOpening", mock.Anything, mock.Anything)
}

func TestOpenBox_TransientPersistIsRetried(t *testing.T) {
	ledger := new(MockLedger)
	seeds := new(MockSeedStore)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.seeds, d.openings = ledger, seeds, openings
	svc := newTestService(t, d)

	ledger.On("Debit", mock.Anything, testUser, testBoxPrice).Return(nil)
	seeds.On("ClientSeed", mock.Anything, testUser).Return("seed", nil)
	seeds.On("NextNonce", mock.Anything, testUser).Return(uint64(3), nil)
	openings.On("CreateOpening", mock.Anything, mock.Anything).Return(domain.ErrWriteConflict).Once()
	openings.On("CreateOpening", mock.Anything, mock.Anything).Return(nil).Once()

	o, err := svc.OpenBox(context.Background(), testUser, testBoxID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), o.Result.Nonce)

	openings.AssertNumberOfCalls(t, "CreateOpening", 2)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenBox_ConcurrentOpensGetDistinctNonces(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()

	const opens = 50
	fund(t, d.ledger, testUser, testBoxPrice*opens)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		nonces = make(map[uint64]int)
	)
	for i := 0; i < opens; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := svc.OpenBox(ctx, testUser, testBoxID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			nonces[o.Result.Nonce]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, nonces, opens)
	for n, count := range nonces {
		assert.Equal(t, 1, count, "nonce %d reused", n)
		assert.Less(t, n, uint64(opens))
	}

	balance, err := d.ledger.Balance(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestSellBack_CreditsOnceUnderConcurrency(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SellBack(ctx, testUser, o.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := d.ledger.Balance(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, o.Result.DisplayValue, balance)

	stored, err := d.openings.GetOpening(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementSoldBack, stored.Settlement)
}

func TestSellBack_AfterKeepIsRejected(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	kept, err := svc.KeepItem(ctx, testUser, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementKept, kept.Settlement)

	_, err = svc.SellBack(ctx, testUser, o.ID)
	assert.ErrorIs(t, err, domain.ErrOpeningAlreadySettled)

	items, err := d.inventory.GetItems(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, items[o.Result.WonItemID])

	balance, err := d.ledger.Balance(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestKeepItem_PublishesSettledEventOnce(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	var settled []event.Event
	d.bus.Subscribe(event.OpeningSettled, func(_ context.Context, e event.Event) error {
		settled = append(settled, e)
		return nil
	})

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)
	_, err = svc.KeepItem(ctx, testUser, o.ID)
	require.NoError(t, err)
	_, err = svc.KeepItem(ctx, testUser, o.ID)
	require.NoError(t, err)

	require.Len(t, settled, 1)
	assert.Equal(t, event.OpeningSettled, settled[0].Type)
}

func TestSellBack_OtherUsersOpeningNotFound(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	_, err = svc.SellBack(ctx, "mallory", o.ID)
	assert.ErrorIs(t, err, domain.ErrOpeningNotFound)
}

func TestSellBack_CreditFailureRevertsSettlement(t *testing.T) {
	ledger := new(MockLedger)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.openings = ledger, openings
	svc := newTestService(t, d)

	id := uuid.New()
	pending := &domain.Opening{
		ID:         id,
		UserID:     testUser,
		BoxID:      testBoxID,
		Result:     domain.OutcomeResult{WonItemID: "gloves", DisplayValue: 300},
		Settlement: domain.SettlementPending,
	}
	openings.On("GetOpening", mock.Anything, id).Return(pending, nil)
	openings.On("SettleOpeningIfPending", mock.Anything, id, domain.SettlementSoldBack, mock.Anything).Return(int64(1), nil)
	ledger.On("Credit", mock.Anything, testUser, int64(300)).Return(errors.New("ledger down"))
	openings.On("RevertSettlement", mock.Anything, id, domain.SettlementSoldBack).Return(nil)

	_, err := svc.SellBack(context.Background(), testUser, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrContextFailedToCredit)

	openings.AssertExpectations(t)
}

func TestSellBack_LostRaceReportsSettled(t *testing.T) {
	openings := new(MockOpeningStore)
	ledger := new(MockLedger)
	d := memoryDeps(t)
	d.openings, d.ledger = openings, ledger
	svc := newTestService(t, d)

	id := uuid.New()
	openings.On("GetOpening", mock.Anything, id).Return(&domain.Opening{ID: id, UserID: testUser, Settlement: domain.SettlementPending}, nil)
	openings.On("SettleOpeningIfPending", mock.Anything, id, domain.SettlementSoldBack, mock.Anything).Return(int64(0), nil)

	_, err := svc.SellBack(context.Background(), testUser, id)
	assert.ErrorIs(t, err, domain.ErrOpeningAlreadySettled)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleExpired_KeepsOldPendingOpenings(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice*2)

	first, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)
	second, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)
	_, err = svc.SellBack(ctx, testUser, second.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	n, err := svc.SettleExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := d.openings.GetOpening(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementKept, stored.Settlement)

	items, err := d.inventory.GetItems(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, items[first.Result.WonItemID])
}

func TestSettleExpired_IgnoresRecentOpenings(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	_, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	n, err := svc.SettleExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVerifyOpening_RequiresRevealedSeed(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice)

	o, err := svc.OpenBox(ctx, testUser, testBoxID)
	require.NoError(t, err)

	_, err = svc.VerifyOpening(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrSeedNotRevealed)

	retired, err := svc.RotateSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, testServerSeed, retired.Seed)
	assert.NotEqual(t, retired.Hash, d.server.ActiveHash())

	v, err := svc.VerifyOpening(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, v.CommitmentValid)
	assert.True(t, v.Match)
	assert.Equal(t, o.Result.WonItemID, v.ExpectedItemID)
}

func TestRevealSeed_ActiveSeedStaysHidden(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)

	c, err := svc.RevealSeed(context.Background(), d.server.ActiveHash())
	assert.ErrorIs(t, err, domain.ErrSeedNotRevealed)
	require.NotNil(t, c)
	assert.True(t, c.Active)
	assert.Empty(t, c.Seed)
}

func TestSetClientSeed_ReusedSeedNeverRepeatsNonce(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	fund(t, d.ledger, testUser, testBoxPrice*6)

	openThree := func() []domain.OutcomeResult {
		var results []domain.OutcomeResult
		for i := 0; i < 3; i++ {
			o, err := svc.OpenBox(ctx, testUser, testBoxID)
			require.NoError(t, err)
			results = append(results, o.Result)
		}
		return results
	}

	_, err := svc.SetClientSeed(ctx, testUser, "lucky")
	require.NoError(t, err)
	first := openThree()

	_, err = svc.SetClientSeed(ctx, testUser, "other")
	require.NoError(t, err)
	state, err := svc.SetClientSeed(ctx, testUser, "lucky")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), state.Nonce)
	second := openThree()

	seen := make(map[uint64]bool)
	for _, r := range append(first, second...) {
		assert.Equal(t, "lucky", r.ClientSeed)
		assert.False(t, seen[r.Nonce], "nonce %d drawn twice", r.Nonce)
		seen[r.Nonce] = true
	}
	for i := range first {
		assert.NotEqual(t, first[i].RandomValue, second[i].RandomValue)
	}

	got, err := svc.GetFairnessState(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "lucky", got.ClientSeed)
	assert.Equal(t, uint64(6), got.Nonce)
	assert.Equal(t, fairness.HashServerSeed(testServerSeed), got.ServerSeedHash)
}

func TestSetClientSeed_Validation(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)

	_, err := svc.SetClientSeed(context.Background(), testUser, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	long := make([]byte, MaxClientSeedLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.SetClientSeed(context.Background(), testUser, string(long))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDemoOpen_NoSideEffects(t *testing.T) {
	ledger := new(MockLedger)
	seeds := new(MockSeedStore)
	openings := new(MockOpeningStore)
	d := memoryDeps(t)
	d.ledger, d.seeds, d.openings = ledger, seeds, openings
	svc := newTestService(t, d)

	demo, err := svc.DemoOpen(context.Background(), testBoxID)
	require.NoError(t, err)
	assert.True(t, demo.Opening.Demo)
	require.Len(t, demo.Opening.Reel, domain.ReelLength)

	v, err := lootbox.Verify(demo.ServerSeed, demo.Opening.Result, testBox().Prizes)
	require.NoError(t, err)
	assert.True(t, v.Match)

	ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	seeds.AssertNotCalled(t, "NextNonce", mock.Anything, mock.Anything)
	openings.AssertNotCalled(t, "CreateOpening", mock.Anything, mock.Anything)
}

func TestDrawWithSeed_Deterministic(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)

	hash := d.server.ActiveHash()
	a, err := svc.DrawWithSeed(hash, "bot-seed", 2, testBox().Prizes)
	require.NoError(t, err)
	b, err := svc.DrawWithSeed(hash, "bot-seed", 2, testBox().Prizes)
	require.NoError(t, err)

	assert.Equal(t, a.WonItemID, b.WonItemID)
	assert.Equal(t, a.RandomValue, b.RandomValue)
}

func TestDrawForUser_ConsumesNonce(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()

	hash := d.server.ActiveHash()
	first, err := svc.DrawForUser(ctx, testUser, hash, testBox().Prizes)
	require.NoError(t, err)
	second, err := svc.DrawForUser(ctx, testUser, hash, testBox().Prizes)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), first.Nonce)
	assert.Equal(t, uint64(1), second.Nonce)
	assert.Equal(t, first.ClientSeed, second.ClientSeed)
}

func TestDraw_UsesCommittedSeedAfterRotation(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)
	ctx := context.Background()
	committed := d.server.ActiveHash()

	_, err := svc.RotateSeed(ctx)
	require.NoError(t, err)
	require.NotEqual(t, committed, d.server.ActiveHash())

	bot, err := svc.DrawWithSeed(committed, "bot-seed", 0, testBox().Prizes)
	require.NoError(t, err)
	assert.Equal(t, committed, bot.ServerSeedHash)
	want, err := fairness.Derive(testServerSeed, "bot-seed", 0)
	require.NoError(t, err)
	assert.Equal(t, want, bot.RandomValue)

	human, err := svc.DrawForUser(ctx, testUser, committed, testBox().Prizes)
	require.NoError(t, err)
	assert.Equal(t, committed, human.ServerSeedHash)
}

func TestDraw_UnknownCommitment(t *testing.T) {
	d := memoryDeps(t)
	svc := newTestService(t, d)

	_, err := svc.DrawWithSeed("no-such-hash", "bot-seed", 0, testBox().Prizes)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	_, err = svc.DrawForUser(context.Background(), testUser, "no-such-hash", testBox().Prizes)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	next, err := d.seeds.CurrentNonce(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)
}

func TestRevealSeed_WithheldWhileBattlesHoldSeed(t *testing.T) {
	d := memoryDeps(t)
	committed := d.server.ActiveHash()
	holders := heldSeeds{committed: 1}
	svc := newTestServiceWithHolders(t, d, holders)
	ctx := context.Background()

	retired, err := svc.RotateSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, committed, retired.Hash)
	assert.Empty(t, retired.Seed)
	assert.NotNil(t, retired.RetiredAt)

	c, err := svc.RevealSeed(ctx, committed)
	assert.ErrorIs(t, err, domain.ErrSeedNotRevealed)
	require.NotNil(t, c)
	assert.Empty(t, c.Seed)

	delete(holders, committed)
	c, err = svc.RevealSeed(ctx, committed)
	require.NoError(t, err)
	assert.Equal(t, testServerSeed, c.Seed)
}
