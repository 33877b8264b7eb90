package services

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/pricing"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// SetupGateService answers "is this clinic configured enough to price a
// service?". Every answer is computed fresh from the stores; gate
// results are never cached, so a settings change is reflected on the
// very next check.
type SetupGateService struct {
	timeRepo  repositories.TimeSettingsRepository
	costRepo  repositories.FixedCostRepository
	assetRepo repositories.AssetRepository
}

// NewSetupGateService creates a new setup gate service
func NewSetupGateService(
	timeRepo repositories.TimeSettingsRepository,
	costRepo repositories.FixedCostRepository,
	assetRepo repositories.AssetRepository,
) *SetupGateService {
	return &SetupGateService{
		timeRepo:  timeRepo,
		costRepo:  costRepo,
		assetRepo: assetRepo,
	}
}

// Status reports which configuration pieces exist. Existence is
// distinct from usability: a time configuration with zero productivity
// exists but still fails the hard gate.
func (s *SetupGateService) Status(ctx context.Context, clinicID string) (entities.SetupStatus, error) {
	status := entities.SetupStatus{}

	_, err := s.timeRepo.Get(ctx, clinicID)
	switch {
	case err == nil:
		status.HasTimeConfig = true
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		// No configuration yet; not an error.
	default:
		return status, err
	}

	costs, err := s.costRepo.Summary(ctx, clinicID)
	if err != nil {
		return status, err
	}
	status.HasFixedCosts = costs.Lines > 0

	assets, err := s.assetRepo.Summary(ctx, clinicID)
	if err != nil {
		return status, err
	}
	status.HasAssets = assets.Count > 0

	return status, nil
}

// CostPerMinute derives the clinic's current time cost: effective
// minutes, per-minute fixed cost, and the readiness flags. A missing
// time configuration yields zero effective minutes and a hard gate.
func (s *SetupGateService) CostPerMinute(ctx context.Context, clinicID string) (pricing.TimeCost, error) {
	cfg, err := s.timeRepo.Get(ctx, clinicID)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return pricing.TimeCost{}, err
	}

	baseline, err := s.Baseline(ctx, clinicID)
	if err != nil {
		return pricing.TimeCost{}, err
	}

	return pricing.DeriveTimeCost(cfg, baseline), nil
}

// Baseline aggregates recorded fixed costs and asset depreciation into
// the monthly fixed-cost figure the time-cost deriver divides by.
func (s *SetupGateService) Baseline(ctx context.Context, clinicID string) (entities.FixedCostBaseline, error) {
	costs, err := s.costRepo.Summary(ctx, clinicID)
	if err != nil {
		return entities.FixedCostBaseline{}, err
	}

	assets, err := s.assetRepo.Summary(ctx, clinicID)
	if err != nil {
		return entities.FixedCostBaseline{}, err
	}

	return entities.FixedCostBaseline{
		MonthlyFixedCents: costs.TotalMonthlyCents + assets.MonthlyDepreciationCents,
		Present:           costs.Lines > 0 || assets.Count > 0,
	}, nil
}
