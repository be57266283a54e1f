package lootbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/repository"
	"github.com/osse101/CaseBattle_Go/internal/validation"
)

// catalogFile is the on-disk layout of configs/boxes.json
type catalogFile struct {
	Version string        `json:"version"`
	Boxes   []*domain.Box `json:"boxes"`
}

// FileCatalog serves boxes loaded from a JSON file validated against a schema
type FileCatalog struct {
	boxes map[string]*domain.Box
	order []string
}

// NewFileCatalog reads, schema-validates and table-validates the catalog at path.
// Any failure is a configuration error.
func NewFileCatalog(ctx context.Context, path, schemaPath string, schemas validation.SchemaValidator) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToReadCatalog, err)
	}

	if schemas != nil {
		if err := schemas.ValidateBytes(data, schemaPath); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", ErrContextSchemaValidation, domain.ErrInvalidPrizeTable, err)
		}
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToLoadCatalog, err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogLoaded, "path", path, LogFieldCount, len(cat.boxes))
	return cat, nil
}

// ParseCatalog builds a catalog from raw JSON and validates every box
func ParseCatalog(data []byte) (*FileCatalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", ErrContextFailedToParseCatalog, domain.ErrInvalidPrizeTable, err)
	}
	if file.Version != "" && file.Version != CatalogVersion {
		return nil, fmt.Errorf("%w: unsupported catalog version %q", domain.ErrInvalidPrizeTable, file.Version)
	}
	return NewStaticCatalog(file.Boxes)
}

// NewStaticCatalog builds a catalog from boxes already in memory
func NewStaticCatalog(boxes []*domain.Box) (*FileCatalog, error) {
	cat := &FileCatalog{boxes: make(map[string]*domain.Box, len(boxes))}
	for _, box := range boxes {
		if err := ValidateBox(box); err != nil {
			return nil, err
		}
		if _, dup := cat.boxes[box.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate box %q", domain.ErrInvalidPrizeTable, box.ID)
		}
		cat.boxes[box.ID] = box
		cat.order = append(cat.order, box.ID)
	}
	return cat, nil
}

// GetBox returns a copy of the box so callers cannot mutate the catalog
func (c *FileCatalog) GetBox(_ context.Context, boxID string) (*domain.Box, error) {
	box, ok := c.boxes[boxID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBoxNotFound, boxID)
	}
	return copyBox(box), nil
}

// ListBoxes returns every box in file order
func (c *FileCatalog) ListBoxes(_ context.Context) ([]*domain.Box, error) {
	out := make([]*domain.Box, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyBox(c.boxes[id]))
	}
	return out, nil
}

func copyBox(b *domain.Box) *domain.Box {
	c := *b
	c.Prizes = append(domain.PrizeTable(nil), b.Prizes...)
	if b.SalePrice != nil {
		p := *b.SalePrice
		c.SalePrice = &p
	}
	return &c
}

// CachedCatalog fronts another catalog with an expiring LRU. Boxes are
// validated once on a miss and served from memory until they expire.
type CachedCatalog struct {
	next repository.Catalog
	lru  *expirable.LRU[string, *domain.Box]
}

// NewCachedCatalog wraps next with a cache of size entries living for ttl
func NewCachedCatalog(next repository.Catalog, size int, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		next: next,
		lru:  expirable.NewLRU[string, *domain.Box](size, nil, ttl),
	}
}

// GetBox returns a validated box, loading it from the wrapped catalog on a miss
func (c *CachedCatalog) GetBox(ctx context.Context, boxID string) (*domain.Box, error) {
	if box, ok := c.lru.Get(boxID); ok {
		return copyBox(box), nil
	}

	logger.FromContext(ctx).Debug(LogMsgCatalogCacheMiss, LogFieldBox, boxID)
	box, err := c.next.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	if err := ValidateBox(box); err != nil {
		return nil, err
	}
	c.lru.Add(boxID, copyBox(box))
	return box, nil
}

// ListBoxes delegates to the wrapped catalog and sorts by price
func (c *CachedCatalog) ListBoxes(ctx context.Context) ([]*domain.Box, error) {
	boxes, err := c.next.ListBoxes(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].EffectivePrice() < boxes[j].EffectivePrice()
	})
	return boxes, nil
}
