package repositories

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// AssetRepository manages depreciable assets
type AssetRepository interface {
	Create(ctx context.Context, asset *entities.Asset) error

	// Summary returns the total monthly depreciation and asset count.
	Summary(ctx context.Context, clinicID string) (entities.AssetSummary, error)
}
