package repositories

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// TimeSettingsRepository manages the per-clinic time configuration row
type TimeSettingsRepository interface {
	// Get returns the clinic's time configuration, or a NOT_FOUND error
	// when the clinic has never configured one.
	Get(ctx context.Context, clinicID string) (*entities.TimeConfiguration, error)

	// Upsert creates or replaces the clinic's time configuration.
	Upsert(ctx context.Context, cfg *entities.TimeConfiguration) error
}
