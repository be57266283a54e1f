package repository

import (
	"context"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Catalog supplies boxes and their prize tables
type Catalog interface {
	GetBox(ctx context.Context, boxID string) (*domain.Box, error)
	ListBoxes(ctx context.Context) ([]*domain.Box, error)
}
