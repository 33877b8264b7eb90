package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/postgres"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// ServiceAdapter implements ServiceRepository
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists the service and its recipe lines in one transaction
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	now := time.Now()
	if service.CreatedAt.IsZero() {
		service.CreatedAt = now
	}
	service.UpdatedAt = now

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	insertService, args, err := a.db.Insert("services").
		Rows(goqu.Record{
			"id":          service.ID,
			"clinic_id":   service.ClinicID,
			"name":        service.Name,
			"est_minutes": service.EstimatedMinutes,
			"active":      service.Active,
			"created_at":  service.CreatedAt,
			"updated_at":  service.UpdatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build service insert", err)
	}
	if _, err := tx.ExecContext(ctx, insertService, args...); err != nil {
		return apperrors.NewInternalError("failed to create service", err)
	}

	if len(service.Recipe) > 0 {
		records := make([]interface{}, 0, len(service.Recipe))
		for _, line := range service.Recipe {
			records = append(records, goqu.Record{
				"service_id": service.ID,
				"supply_id":  line.SupplyID,
				"qty":        line.Quantity,
			})
		}

		insertRecipe, recipeArgs, err := a.db.Insert("service_supplies").Rows(records...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build recipe insert", err)
		}
		if _, err := tx.ExecContext(ctx, insertRecipe, recipeArgs...); err != nil {
			return apperrors.NewInternalError("failed to create service recipe", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit service creation", err)
	}

	return nil
}

// GetByID retrieves a service with its recipe lines
func (a *ServiceAdapter) GetByID(ctx context.Context, clinicID, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(
		"id", "clinic_id", "name", "est_minutes", "active", "created_at", "updated_at",
	).From("services").
		Where(goqu.Ex{"clinic_id": clinicID, "id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service := &entities.Service{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.ClinicID,
		&service.Name,
		&service.EstimatedMinutes,
		&service.Active,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}

	recipes, err := a.recipesByService(ctx, []string{service.ID})
	if err != nil {
		return nil, err
	}
	service.Recipe = recipes[service.ID]

	return service, nil
}

// List retrieves active services with their recipe lines
func (a *ServiceAdapter) List(ctx context.Context, clinicID string, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	ds := a.db.Select(
		"id", "clinic_id", "name", "est_minutes", "active", "created_at", "updated_at",
	).From("services").
		Where(goqu.Ex{"clinic_id": clinicID, "active": true}).
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

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	var services []*entities.Service
	var ids []string
	for rows.Next() {
		service := &entities.Service{}
		err := rows.Scan(
			&service.ID,
			&service.ClinicID,
			&service.Name,
			&service.EstimatedMinutes,
			&service.Active,
			&service.CreatedAt,
			&service.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
		ids = append(ids, service.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating services", err)
	}

	recipes, err := a.recipesByService(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, service := range services {
		service.Recipe = recipes[service.ID]
	}

	return services, nil
}

// recipesByService loads recipe lines joined with the current supply
// price so callers can recompute variable cost without a second trip.
func (a *ServiceAdapter) recipesByService(ctx context.Context, serviceIDs []string) (map[string][]entities.RecipeLine, error) {
	recipes := make(map[string][]entities.RecipeLine)
	if len(serviceIDs) == 0 {
		return recipes, nil
	}

	query, args, err := a.db.Select(
		goqu.I("ss.service_id"),
		goqu.I("ss.supply_id"),
		goqu.I("ss.qty"),
		goqu.I("s.name"),
		goqu.L("ROUND(s.price_cents::numeric / GREATEST(1, s.portions))"),
	).From(goqu.T("service_supplies").As("ss")).
		Join(goqu.T("supplies").As("s"), goqu.On(goqu.I("ss.supply_id").Eq(goqu.I("s.id")))).
		Where(goqu.I("ss.service_id").In(serviceIDs)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recipe query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query recipes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var serviceID string
		var line entities.RecipeLine
		err := rows.Scan(
			&serviceID,
			&line.SupplyID,
			&line.Quantity,
			&line.SupplyName,
			&line.CostPerPortionCents,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan recipe line", err)
		}
		recipes[serviceID] = append(recipes[serviceID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating recipe lines", err)
	}

	return recipes, nil
}
