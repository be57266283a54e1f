package lootbox

import "github.com/osse101/CaseBattle_Go/internal/domain"

// ============================================================================
// Prize Table Rules
// ============================================================================

// TotalWeight is the sum every prize table must reach.
const TotalWeight = 100.0

// WeightEpsilon is the tolerated drift when summing authored weights.
const WeightEpsilon = 1e-4

// ============================================================================
// Reel Layout
// ============================================================================

// TeaserOffsets are the reel positions, relative to the winner, that get the
// high-rarity teaser treatment.
var TeaserOffsets = []int{-1, 1}

// TeaserMinRarity is the rarity a teaser slot is biased towards.
const TeaserMinRarity = domain.RarityEpic

// TeaserBiasPercent is the chance a teaser slot draws only from high-rarity entries.
const TeaserBiasPercent = 80

// ============================================================================
// Configuration
// ============================================================================

// BoxesSchemaPath is the path (relative to project root) for the catalog schema.
const BoxesSchemaPath = "configs/schemas/boxes.schema.json"

// CatalogVersion is the expected version string of the catalog file.
const CatalogVersion = "1.0"

// ============================================================================
// Error Messages
// ============================================================================

// Error context messages for wrapped errors during catalog loading
const (
	ErrContextFailedToLoadCatalog  = "failed to load box catalog"
	ErrContextFailedToReadCatalog  = "failed to read box catalog file"
	ErrContextFailedToParseCatalog = "failed to parse box catalog"
	ErrContextSchemaValidation     = "box catalog failed schema validation"
	ErrContextInvalidBox           = "invalid box"
	ErrContextDeriveFailed         = "failed to derive random value"
	ErrContextSelectFailed         = "failed to select prize"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCatalogLoaded    = "Box catalog loaded"
	LogMsgCatalogCacheMiss = "Box catalog cache miss"
)

// Log field keys for structured logging
const (
	LogFieldBox   = "box"
	LogFieldItem  = "item"
	LogFieldError = "error"
	LogFieldCount = "count"
)
