package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/providers"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
	"github.com/dentalops/pricing-engine/pkg/money"
)

// SupplyCatalogService handles business logic for the consumable
// catalog. All reads go through the case-insensitive deduplication
// pass: the store may hold "Guantes" and "guantes" side by side, but
// the catalog presents exactly one of them.
type SupplyCatalogService struct {
	repo     repositories.SupplyRepository
	eventBus providers.EventBus
}

// NewSupplyCatalogService creates a new supply catalog service
func NewSupplyCatalogService(repo repositories.SupplyRepository, eventBus providers.EventBus) *SupplyCatalogService {
	return &SupplyCatalogService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// List returns the clinic's supplies deduplicated by canonical name.
// When duplicates exist the first occurrence in store order wins, so
// repeated calls over an unchanged store return the same set.
func (s *SupplyCatalogService) List(ctx context.Context, clinicID string, filter repositories.SupplyFilter) ([]*entities.Supply, error) {
	supplies, err := s.repo.List(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}
	return dedupeByName(supplies), nil
}

// FindByName looks a supply up by canonical name. Returns nil when no
// supply matches; absence is not an error here.
func (s *SupplyCatalogService) FindByName(ctx context.Context, clinicID, name string) (*entities.Supply, error) {
	key := entities.NameKey(name)
	if key == "" {
		return nil, nil
	}

	supplies, err := s.repo.List(ctx, clinicID, repositories.SupplyFilter{Search: strings.TrimSpace(name)})
	if err != nil {
		return nil, err
	}
	for _, supply := range supplies {
		if entities.NameKey(supply.Name) == key {
			return supply, nil
		}
	}
	return nil, nil
}

// GetByIDs returns the supplies matching the given ids, missing ids
// silently omitted, with per-portion costs populated.
func (s *SupplyCatalogService) GetByIDs(ctx context.Context, clinicID string, ids []string) ([]*entities.Supply, error) {
	supplies, err := s.repo.GetByIDs(ctx, clinicID, ids)
	if err != nil {
		return nil, err
	}
	for _, supply := range supplies {
		supply.CostPerPortionCents = supply.CostPerPortion()
	}
	return supplies, nil
}

// CostCatalog returns a supply-id to cost-per-portion map for the price
// calculator.
func (s *SupplyCatalogService) CostCatalog(ctx context.Context, clinicID string, ids []string) (map[string]int64, error) {
	supplies, err := s.repo.GetByIDs(ctx, clinicID, ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]int64, len(supplies))
	for _, supply := range supplies {
		catalog[supply.ID] = supply.CostPerPortion()
	}
	return catalog, nil
}

// CreateOrReuse registers a supply, returning the existing entry when
// one with the same canonical name already exists. The existing entry
// keeps its price and portions; creation never mutates it.
func (s *SupplyCatalogService) CreateOrReuse(ctx context.Context, clinicID string, input entities.SupplyInput) (*entities.Supply, bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, false, apperrors.NewValidationError("supply name is required")
	}
	if input.Portions < 1 {
		return nil, false, apperrors.NewValidationError("portions must be at least 1")
	}
	if input.PriceMajorUnits < 0 {
		return nil, false, apperrors.NewValidationError("price cannot be negative")
	}

	existing, err := s.FindByName(ctx, clinicID, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.CostPerPortionCents = existing.CostPerPortion()
		return existing, false, nil
	}

	supply := &entities.Supply{
		ID:           uuid.New().String(),
		ClinicID:     clinicID,
		Name:         name,
		Presentation: strings.TrimSpace(input.Presentation),
		PriceCents:   money.ToCents(input.PriceMajorUnits),
		Portions:     input.Portions,
	}
	if err := s.repo.Create(ctx, supply); err != nil {
		return nil, false, err
	}
	supply.CostPerPortionCents = supply.CostPerPortion()

	s.publishEvent(ctx, clinicID, supply.ID, entities.CatalogEventSupplyCreated)

	return supply, true, nil
}

// Delete removes a supply and notifies open wizard sessions so the
// deleted id is dropped from in-progress recipes. A supply referenced
// by a stored service recipe cannot be deleted.
func (s *SupplyCatalogService) Delete(ctx context.Context, clinicID, id string) error {
	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, clinicID, id, entities.CatalogEventSupplyDeleted)
	return nil
}

// publishEvent publishes a catalog change, logging failures instead of
// surfacing them; the catalog write already succeeded.
func (s *SupplyCatalogService) publishEvent(ctx context.Context, clinicID, supplyID string, eventType entities.CatalogEventType) {
	if s.eventBus == nil {
		return
	}

	event := &entities.CatalogEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		ClinicID:  clinicID,
		SupplyID:  supplyID,
		Timestamp: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelSupplies, event); err != nil {
		log.Warn().Err(err).Str("supply_id", supplyID).Str("type", string(eventType)).
			Msg("failed to publish catalog event")
	}
}

// dedupeByName collapses case-insensitive duplicate names, keeping the
// first occurrence, and populates derived per-portion costs.
func dedupeByName(supplies []*entities.Supply) []*entities.Supply {
	seen := make(map[string]struct{}, len(supplies))
	result := make([]*entities.Supply, 0, len(supplies))
	for _, supply := range supplies {
		key := entities.NameKey(supply.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		supply.CostPerPortionCents = supply.CostPerPortion()
		result = append(result, supply)
	}
	return result
}
