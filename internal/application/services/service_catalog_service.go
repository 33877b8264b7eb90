package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// ServiceCatalogService handles business logic for sellable services.
// Stored services carry only their recipe; costs are recomputed from
// the live catalog on every read.
type ServiceCatalogService struct {
	repo     repositories.ServiceRepository
	supplies *SupplyCatalogService
}

// NewServiceCatalogService creates a new service catalog service
func NewServiceCatalogService(repo repositories.ServiceRepository, supplies *SupplyCatalogService) *ServiceCatalogService {
	return &ServiceCatalogService{
		repo:     repo,
		supplies: supplies,
	}
}

// Create validates and persists a service. Recipe lines with
// non-positive quantities are dropped, duplicate supply ids are merged,
// and lines referencing supplies that no longer exist are discarded
// rather than failing the creation.
func (s *ServiceCatalogService) Create(ctx context.Context, clinicID string, input entities.ServiceInput) (*entities.CreatedService, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, apperrors.NewValidationError("service name must be at least 2 characters")
	}
	if input.EstimatedMinutes <= 0 {
		return nil, apperrors.NewValidationError("estimated minutes must be positive")
	}

	recipe, err := s.normalizeRecipe(ctx, clinicID, input.Recipe)
	if err != nil {
		return nil, err
	}

	service := &entities.Service{
		ID:               uuid.New().String(),
		ClinicID:         clinicID,
		Name:             name,
		EstimatedMinutes: input.EstimatedMinutes,
		Active:           true,
		Recipe:           recipe,
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}

	return &entities.CreatedService{ID: service.ID, Name: service.Name}, nil
}

// GetByID returns a service with its recipe and the variable cost
// recomputed from current catalog prices.
func (s *ServiceCatalogService) GetByID(ctx context.Context, clinicID, id string) (*entities.Service, error) {
	service, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	rollupVariableCost(service)
	return service, nil
}

// List returns active services with recomputed variable costs.
func (s *ServiceCatalogService) List(ctx context.Context, clinicID string, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	services, err := s.repo.List(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}
	for _, service := range services {
		rollupVariableCost(service)
	}
	return services, nil
}

// normalizeRecipe drops empty lines, merges duplicate supply ids, and
// keeps only lines whose supply still exists in the catalog.
func (s *ServiceCatalogService) normalizeRecipe(ctx context.Context, clinicID string, lines []entities.RecipeLine) ([]entities.RecipeLine, error) {
	merged := make(map[string]int)
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.SupplyID == "" {
			continue
		}
		if _, seen := merged[line.SupplyID]; !seen {
			order = append(order, line.SupplyID)
		}
		merged[line.SupplyID] += line.Quantity
	}
	if len(order) == 0 {
		return nil, nil
	}

	existing, err := s.supplies.GetByIDs(ctx, clinicID, order)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, supply := range existing {
		known[supply.ID] = struct{}{}
	}

	recipe := make([]entities.RecipeLine, 0, len(order))
	for _, id := range order {
		if _, ok := known[id]; !ok {
			continue
		}
		recipe = append(recipe, entities.RecipeLine{SupplyID: id, Quantity: merged[id]})
	}
	return recipe, nil
}

func rollupVariableCost(service *entities.Service) {
	var total int64
	for _, line := range service.Recipe {
		if line.Quantity <= 0 {
			continue
		}
		total += int64(line.Quantity) * line.CostPerPortionCents
	}
	service.VariableCostCents = total
}
