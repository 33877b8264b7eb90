package repositories

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// SupplyFilter narrows supply listings
type SupplyFilter struct {
	// Search is a case-insensitive substring match on the name.
	Search string
	Limit  int
	Offset int
}

// SupplyRepository manages the consumable catalog store
type SupplyRepository interface {
	// List returns the clinic's supplies ordered by name. Duplicate
	// names may exist in the store; deduplication is the catalog
	// service's concern.
	List(ctx context.Context, clinicID string, filter SupplyFilter) ([]*entities.Supply, error)

	// GetByIDs returns the supplies matching the given ids; missing ids
	// are silently omitted.
	GetByIDs(ctx context.Context, clinicID string, ids []string) ([]*entities.Supply, error)

	// Create persists a new supply.
	Create(ctx context.Context, supply *entities.Supply) error

	// Delete removes a supply. Returns a CONFLICT error when the store
	// reports the supply is still referenced by a service recipe.
	Delete(ctx context.Context, clinicID, id string) error
}
