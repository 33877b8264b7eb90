package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/postgres"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// TimeSettingsAdapter implements TimeSettingsRepository
type TimeSettingsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTimeSettingsAdapter creates a new time settings adapter
func NewTimeSettingsAdapter(client *postgres.Client) repositories.TimeSettingsRepository {
	return &TimeSettingsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves the clinic's time configuration
func (a *TimeSettingsAdapter) Get(ctx context.Context, clinicID string) (*entities.TimeConfiguration, error) {
	query, args, err := a.db.Select(
		"clinic_id", "work_days", "hours_per_day", "real_pct", "created_at", "updated_at",
	).From("time_settings").
		Where(goqu.Ex{"clinic_id": clinicID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	cfg := &entities.TimeConfiguration{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&cfg.ClinicID,
		&cfg.WorkDaysPerMonth,
		&cfg.HoursPerDay,
		&cfg.RealProductivityPct,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("time configuration not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get time configuration", err)
	}

	return cfg, nil
}

// Upsert creates or replaces the clinic's time configuration
func (a *TimeSettingsAdapter) Upsert(ctx context.Context, cfg *entities.TimeConfiguration) error {
	now := time.Now()
	cfg.UpdatedAt = now
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}

	query, args, err := a.db.Insert("time_settings").
		Rows(goqu.Record{
			"clinic_id":     cfg.ClinicID,
			"work_days":     cfg.WorkDaysPerMonth,
			"hours_per_day": cfg.HoursPerDay,
			"real_pct":      cfg.RealProductivityPct,
			"created_at":    cfg.CreatedAt,
			"updated_at":    cfg.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate("clinic_id", goqu.Record{
			"work_days":     cfg.WorkDaysPerMonth,
			"hours_per_day": cfg.HoursPerDay,
			"real_pct":      cfg.RealProductivityPct,
			"updated_at":    cfg.UpdatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save time configuration", err)
	}

	return nil
}
