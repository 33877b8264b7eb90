package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
	"github.com/dentalops/pricing-engine/pkg/money"
)

// MaxQuickCaptureAssets caps the wizard's quick asset step.
const MaxQuickCaptureAssets = 3

// AssetCaptureService records depreciable assets. Invalid entries in a
// quick-capture batch are skipped, not fatal; the step is optional and
// a partial save beats losing the whole batch.
type AssetCaptureService struct {
	assetRepo repositories.AssetRepository
	costRepo  repositories.FixedCostRepository
}

// NewAssetCaptureService creates a new asset capture service
func NewAssetCaptureService(assetRepo repositories.AssetRepository, costRepo repositories.FixedCostRepository) *AssetCaptureService {
	return &AssetCaptureService{
		assetRepo: assetRepo,
		costRepo:  costRepo,
	}
}

// Capture saves a batch of up to MaxQuickCaptureAssets assets and
// returns how many were recorded. When the asset store rejects a row,
// its monthly depreciation is recorded as a manual fixed-cost line
// instead so the baseline still reflects it.
func (s *AssetCaptureService) Capture(ctx context.Context, clinicID string, inputs []entities.AssetInput) (int, error) {
	if len(inputs) > MaxQuickCaptureAssets {
		return 0, apperrors.NewValidationError(fmt.Sprintf("at most %d assets per capture", MaxQuickCaptureAssets))
	}

	saved := 0
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" || input.PurchasePriceMajorUnits <= 0 {
			continue
		}
		months := input.DepreciationMonths
		if months < 1 {
			months = 1
		}

		asset := &entities.Asset{
			ID:                 uuid.New().String(),
			ClinicID:           clinicID,
			Name:               name,
			PurchasePriceCents: money.ToCents(input.PurchasePriceMajorUnits),
			DepreciationMonths: months,
		}
		if err := s.assetRepo.Create(ctx, asset); err != nil {
			if fallbackErr := s.recordAsFixedCost(ctx, asset); fallbackErr != nil {
				log.Warn().Err(err).Str("asset", name).Msg("asset save and fixed-cost fallback both failed")
				continue
			}
			log.Info().Str("asset", name).Msg("asset store rejected row, recorded as fixed-cost line")
		}
		saved++
	}
	return saved, nil
}

// Summary returns the clinic's monthly depreciation aggregate.
func (s *AssetCaptureService) Summary(ctx context.Context, clinicID string) (entities.AssetSummary, error) {
	return s.assetRepo.Summary(ctx, clinicID)
}

func (s *AssetCaptureService) recordAsFixedCost(ctx context.Context, asset *entities.Asset) error {
	line := &entities.FixedCostLine{
		ID:          uuid.New().String(),
		ClinicID:    asset.ClinicID,
		Category:    "assets",
		Concept:     fmt.Sprintf("Depreciation: %s", asset.Name),
		AmountCents: asset.MonthlyDepreciationCents(),
	}
	return s.costRepo.Create(ctx, line)
}
