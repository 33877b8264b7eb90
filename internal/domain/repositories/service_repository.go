package repositories

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// ServiceFilter narrows service listings
type ServiceFilter struct {
	Search string
	Limit  int
	Offset int
}

// ServiceRepository manages the service catalog store
type ServiceRepository interface {
	// Create persists the service and its recipe lines in one
	// transaction.
	Create(ctx context.Context, service *entities.Service) error

	// GetByID returns a service with its recipe lines.
	GetByID(ctx context.Context, clinicID, id string) (*entities.Service, error)

	// List returns active services with their recipe lines, including
	// each line's current per-portion cost for variable-cost rollups.
	List(ctx context.Context, clinicID string, filter ServiceFilter) ([]*entities.Service, error)
}
