package services

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
)

// TimeSettingsService handles the clinic's work-time configuration form
type TimeSettingsService struct {
	repo repositories.TimeSettingsRepository
}

// NewTimeSettingsService creates a new time settings service
func NewTimeSettingsService(repo repositories.TimeSettingsRepository) *TimeSettingsService {
	return &TimeSettingsService{repo: repo}
}

// Get returns the clinic's time configuration, or a NOT_FOUND error
// when none has ever been saved.
func (s *TimeSettingsService) Get(ctx context.Context, clinicID string) (*entities.TimeConfiguration, error) {
	return s.repo.Get(ctx, clinicID)
}

// Save validates and upserts the configuration. Validation failures
// carry per-field messages so the form can place them.
func (s *TimeSettingsService) Save(ctx context.Context, clinicID string, input entities.TimeConfigurationInput) (*entities.TimeConfiguration, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cfg := &entities.TimeConfiguration{
		ClinicID:            clinicID,
		WorkDaysPerMonth:    input.WorkDaysPerMonth,
		HoursPerDay:         input.HoursPerDay,
		RealProductivityPct: input.RealProductivityPct,
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
