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

// FixedCostAdapter implements FixedCostRepository
type FixedCostAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFixedCostAdapter creates a new fixed cost adapter
func NewFixedCostAdapter(client *postgres.Client) repositories.FixedCostRepository {
	return &FixedCostAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new fixed cost line
func (a *FixedCostAdapter) Create(ctx context.Context, line *entities.FixedCostLine) error {
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("fixed_costs").
		Rows(goqu.Record{
			"id":           line.ID,
			"clinic_id":    line.ClinicID,
			"category":     line.Category,
			"concept":      line.Concept,
			"amount_cents": line.AmountCents,
			"created_at":   line.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create fixed cost line", err)
	}

	return nil
}

// List retrieves the clinic's fixed cost lines
func (a *FixedCostAdapter) List(ctx context.Context, clinicID string) ([]*entities.FixedCostLine, error) {
	query, args, err := a.db.Select(
		"id", "clinic_id", "category", "concept", "amount_cents", "created_at",
	).From("fixed_costs").
		Where(goqu.Ex{"clinic_id": clinicID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list fixed cost lines", err)
	}
	defer rows.Close()

	var lines []*entities.FixedCostLine
	for rows.Next() {
		line := &entities.FixedCostLine{}
		err := rows.Scan(
			&line.ID,
			&line.ClinicID,
			&line.Category,
			&line.Concept,
			&line.AmountCents,
			&line.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan fixed cost line", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating fixed cost lines", err)
	}

	return lines, nil
}

// Summary returns the monthly total and line count
func (a *FixedCostAdapter) Summary(ctx context.Context, clinicID string) (entities.FixedCostSummary, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.SUM("amount_cents"), 0),
		goqu.COUNT("*"),
	).From("fixed_costs").
		Where(goqu.Ex{"clinic_id": clinicID}).
		ToSQL()
	if err != nil {
		return entities.FixedCostSummary{}, apperrors.NewInternalError("failed to build summary query", err)
	}

	var summary entities.FixedCostSummary
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalMonthlyCents,
		&summary.Lines,
	)
	if err != nil {
		return entities.FixedCostSummary{}, apperrors.NewInternalError("failed to summarize fixed costs", err)
	}

	return summary, nil
}
