package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/postgres"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// pgForeignKeyViolation is the Postgres error code raised when deleting
// a supply still referenced by a service recipe.
const pgForeignKeyViolation = "23503"

// SupplyAdapter implements SupplyRepository
type SupplyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSupplyAdapter creates a new supply adapter
func NewSupplyAdapter(client *postgres.Client) repositories.SupplyRepository {
	return &SupplyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var supplyColumns = []interface{}{
	"id", "clinic_id", "name", "presentation", "price_cents", "portions", "created_at", "updated_at",
}

// List retrieves the clinic's supplies ordered by name
func (a *SupplyAdapter) List(ctx context.Context, clinicID string, filter repositories.SupplyFilter) ([]*entities.Supply, error) {
	ds := a.db.Select(supplyColumns...).
		From("supplies").
		Where(goqu.Ex{"clinic_id": clinicID}).
		Order(goqu.I("name").Asc())

	if filter.Search != "" {
		ds = ds.Where(goqu.I("name").ILike(fmt.Sprintf("%%%s%%", filter.Search)))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.querySupplies(ctx, query, args...)
}

// GetByIDs retrieves supplies by id; missing ids are omitted
func (a *SupplyAdapter) GetByIDs(ctx context.Context, clinicID string, ids []string) ([]*entities.Supply, error) {
	if len(ids) == 0 {
		return []*entities.Supply{}, nil
	}

	query, args, err := a.db.Select(supplyColumns...).
		From("supplies").
		Where(goqu.Ex{"clinic_id": clinicID, "id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.querySupplies(ctx, query, args...)
}

func (a *SupplyAdapter) querySupplies(ctx context.Context, query string, args ...interface{}) ([]*entities.Supply, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query supplies", err)
	}
	defer rows.Close()

	var supplies []*entities.Supply
	for rows.Next() {
		supply := &entities.Supply{}
		err := rows.Scan(
			&supply.ID,
			&supply.ClinicID,
			&supply.Name,
			&supply.Presentation,
			&supply.PriceCents,
			&supply.Portions,
			&supply.CreatedAt,
			&supply.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan supply", err)
		}
		supply.CostPerPortionCents = supply.CostPerPortion()
		supplies = append(supplies, supply)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating supplies", err)
	}

	return supplies, nil
}

// Create persists a new supply
func (a *SupplyAdapter) Create(ctx context.Context, supply *entities.Supply) error {
	now := time.Now()
	if supply.CreatedAt.IsZero() {
		supply.CreatedAt = now
	}
	supply.UpdatedAt = now

	query, args, err := a.db.Insert("supplies").
		Rows(goqu.Record{
			"id":           supply.ID,
			"clinic_id":    supply.ClinicID,
			"name":         supply.Name,
			"presentation": supply.Presentation,
			"price_cents":  supply.PriceCents,
			"portions":     supply.Portions,
			"created_at":   supply.CreatedAt,
			"updated_at":   supply.UpdatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create supply", err)
	}

	return nil
}

// Delete removes a supply from the catalog
func (a *SupplyAdapter) Delete(ctx context.Context, clinicID, id string) error {
	query, args, err := a.db.Delete("supplies").
		Where(goqu.Ex{"clinic_id": clinicID, "id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgForeignKeyViolation {
			return apperrors.NewConflictError("supply is referenced by an existing service recipe")
		}
		return apperrors.NewInternalError("failed to delete supply", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("supply with id %s not found", id))
	}

	return nil
}
