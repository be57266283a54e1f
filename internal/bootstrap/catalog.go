package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CaseBattle_Go/configs"
	"github.com/osse101/CaseBattle_Go/internal/config"
	"github.com/osse101/CaseBattle_Go/internal/lootbox"
	"github.com/osse101/CaseBattle_Go/internal/repository"
	"github.com/osse101/CaseBattle_Go/internal/validation"
)

// LoadCatalog loads and validates the box catalog, then wraps it in a TTL cache.
// CATALOG_PATH selects a file on disk; without it the embedded catalog is used.
// CATALOG_SCHEMA_PATH overrides the embedded schema.
// Any validation failure is a configuration error and stops startup.
func LoadCatalog(ctx context.Context, cfg *config.Config) (repository.Catalog, error) {
	schemas := validation.NewSchemaValidator()
	if err := schemas.RegisterSchema(CatalogSchemaName, configs.BoxesSchema); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterSchema, err)
	}

	schemaRef := CatalogSchemaName
	if cfg.CatalogSchemaPath != "" {
		schemaRef = cfg.CatalogSchemaPath
	}

	var (
		catalog *lootbox.FileCatalog
		source  = cfg.CatalogPath
		err     error
	)
	if cfg.CatalogPath != "" {
		catalog, err = lootbox.NewFileCatalog(ctx, cfg.CatalogPath, schemaRef, schemas)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
		}
	} else {
		source = "embedded"
		if err := schemas.ValidateBytes(configs.DefaultBoxes, schemaRef); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedValidateBoxes, err)
		}
		catalog, err = lootbox.ParseCatalog(configs.DefaultBoxes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
		}
	}

	boxes, err := catalog.ListBoxes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	slog.Info(LogMsgCatalogReady, "source", source, "boxes", len(boxes),
		"cache_size", cfg.CatalogCacheSize, "cache_ttl", cfg.CatalogCacheTTL)

	return lootbox.NewCachedCatalog(catalog, cfg.CatalogCacheSize, cfg.CatalogCacheTTL), nil
}
