package lootbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBattle_Go/configs"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/validation"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetBox(ctx context.Context, boxID string) (*domain.Box, error) {
	args := m.Called(ctx, boxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Box), args.Error(1)
}

func (m *MockCatalog) ListBoxes(ctx context.Context) ([]*domain.Box, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Box), args.Error(1)
}

func TestNewFileCatalog_DefaultCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.json")
	require.NoError(t, os.WriteFile(path, configs.DefaultBoxes, 0o644))

	schemas := validation.NewSchemaValidator()
	require.NoError(t, schemas.RegisterSchema(BoxesSchemaPath, configs.BoxesSchema))

	cat, err := NewFileCatalog(context.Background(), path, BoxesSchemaPath, schemas)
	require.NoError(t, err)

	box, err := cat.GetBox(context.Background(), "elite")
	require.NoError(t, err)
	assert.Equal(t, int64(850), box.EffectivePrice())
	assert.Len(t, box.Prizes, 5)

	boxes, err := cat.ListBoxes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "starter", boxes[0].ID)

	_, err = cat.GetBox(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBoxNotFound)
}

func TestNewFileCatalog_SchemaRejects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.json")
	bad := `{"version":"1.0","boxes":[{"id":"x","name":"X","price":10,"prizes":[{"item_id":"a","display_value":1,"rarity":"mythic","weight":100}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	schemas := validation.NewSchemaValidator()
	require.NoError(t, schemas.RegisterSchema(BoxesSchemaPath, configs.BoxesSchema))

	_, err := NewFileCatalog(context.Background(), path, BoxesSchemaPath, schemas)
	assert.ErrorIs(t, err, domain.ErrInvalidPrizeTable)
}

func TestParseCatalog_WeightsMustSumTo100(t *testing.T) {
	bad := `{"version":"1.0","boxes":[{"id":"x","name":"X","price":10,"prizes":[{"item_id":"a","display_value":1,"rarity":"common","weight":60}]}]}`

	_, err := ParseCatalog([]byte(bad))
	assert.ErrorIs(t, err, domain.ErrInvalidPrizeTable)
}

func TestFileCatalog_ReturnsCopies(t *testing.T) {
	cat, err := NewStaticCatalog([]*domain.Box{{ID: "b", Name: "B", Price: 10, Prizes: abcTable()}})
	require.NoError(t, err)

	box, err := cat.GetBox(context.Background(), "b")
	require.NoError(t, err)
	box.Prizes[0].Weight = 0

	again, err := cat.GetBox(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 50.0, again.Prizes[0].Weight)
}

func TestCachedCatalog_CachesValidatedBoxes(t *testing.T) {
	ctx := context.Background()
	next := new(MockCatalog)
	box := &domain.Box{ID: "b", Name: "B", Price: 10, Prizes: abcTable()}
	next.On("GetBox", ctx, "b").Return(box, nil).Once()

	cached := NewCachedCatalog(next, 10, time.Minute)

	first, err := cached.GetBox(ctx, "b")
	require.NoError(t, err)
	second, err := cached.GetBox(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	next.AssertExpectations(t)
}

func TestCachedCatalog_ReloadsAfterTTL(t *testing.T) {
	ctx := context.Background()
	next := new(MockCatalog)
	box := &domain.Box{ID: "b", Name: "B", Price: 10, Prizes: abcTable()}
	next.On("GetBox", ctx, "b").Return(box, nil).Twice()

	cached := NewCachedCatalog(next, 10, 20*time.Millisecond)

	_, err := cached.GetBox(ctx, "b")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = cached.GetBox(ctx, "b")
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestCachedCatalog_RejectsInvalidTable(t *testing.T) {
	ctx := context.Background()
	next := new(MockCatalog)
	next.On("GetBox", ctx, "bad").Return(&domain.Box{
		ID: "bad", Name: "Bad", Price: 10,
		Prizes: domain.PrizeTable{{ItemID: "a", Weight: 10}},
	}, nil)

	cached := NewCachedCatalog(next, 10, time.Minute)
	_, err := cached.GetBox(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidPrizeTable)
}

func TestCachedCatalog_ListSortedByPrice(t *testing.T) {
	ctx := context.Background()
	next := new(MockCatalog)
	sale := int64(5)
	next.On("ListBoxes", ctx).Return([]*domain.Box{
		{ID: "pricey", Price: 500},
		{ID: "onsale", Price: 100, SalePrice: &sale},
		{ID: "mid", Price: 50},
	}, nil)

	boxes, err := NewCachedCatalog(next, 10, time.Minute).ListBoxes(ctx)
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, "onsale", boxes[0].ID)
	assert.Equal(t, "mid", boxes[1].ID)
	assert.Equal(t, "pricey", boxes[2].ID)
}
