package repositories

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// FixedCostRepository manages recorded monthly fixed costs
type FixedCostRepository interface {
	Create(ctx context.Context, line *entities.FixedCostLine) error

	List(ctx context.Context, clinicID string) ([]*entities.FixedCostLine, error)

	// Summary returns the monthly total and line count. A count of zero
	// with a zero total is "no fixed costs recorded", which the gate
	// treats differently from a recorded total of zero.
	Summary(ctx context.Context, clinicID string) (entities.FixedCostSummary, error)
}
