package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/postgres"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// AssetAdapter implements AssetRepository
type AssetAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAssetAdapter creates a new asset adapter
func NewAssetAdapter(client *postgres.Client) repositories.AssetRepository {
	return &AssetAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new depreciable asset
func (a *AssetAdapter) Create(ctx context.Context, asset *entities.Asset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("assets").
		Rows(goqu.Record{
			"id":                   asset.ID,
			"clinic_id":            asset.ClinicID,
			"name":                 asset.Name,
			"purchase_price_cents": asset.PurchasePriceCents,
			"depreciation_months":  asset.DepreciationMonths,
			"created_at":           asset.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create asset", err)
	}

	return nil
}

// Summary returns the total monthly depreciation and asset count.
// The per-asset depreciation is rounded in SQL the same way the entity
// rounds it, so the two never disagree.
func (a *AssetAdapter) Summary(ctx context.Context, clinicID string) (entities.AssetSummary, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.SUM(goqu.L("ROUND(purchase_price_cents::numeric / GREATEST(1, depreciation_months))")), 0),
		goqu.COUNT("*"),
	).From("assets").
		Where(goqu.Ex{"clinic_id": clinicID}).
		ToSQL()
	if err != nil {
		return entities.AssetSummary{}, apperrors.NewInternalError("failed to build summary query", err)
	}

	var summary entities.AssetSummary
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&summary.MonthlyDepreciationCents,
		&summary.Count,
	)
	if err != nil {
		return entities.AssetSummary{}, apperrors.NewInternalError("failed to summarize assets", err)
	}

	return summary, nil
}
