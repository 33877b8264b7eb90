package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/providers"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
)

// CachedSupplyAdapter wraps SupplyAdapter with caching
type CachedSupplyAdapter struct {
	adapter repositories.SupplyRepository
	cache   providers.CacheProvider
}

// NewCachedSupplyAdapter creates a new cached supply adapter
func NewCachedSupplyAdapter(adapter repositories.SupplyRepository, cache providers.CacheProvider) repositories.SupplyRepository {
	return &CachedSupplyAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	suppliesListTTL = 120
	supplyByIDTTL   = 300
)

func supplyCacheKey(clinicID, id string) string {
	return fmt.Sprintf("supply:%s:%s", clinicID, id)
}

func suppliesListCacheKey(clinicID string, filter repositories.SupplyFilter) string {
	return fmt.Sprintf("supplies:list:%s:%s:%d:%d", clinicID, filter.Search, filter.Limit, filter.Offset)
}

// List retrieves supplies with caching
func (a *CachedSupplyAdapter) List(ctx context.Context, clinicID string, filter repositories.SupplyFilter) ([]*entities.Supply, error) {
	cacheKey := suppliesListCacheKey(clinicID, filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var supplies []*entities.Supply
		if err := json.Unmarshal(cached, &supplies); err == nil {
			return supplies, nil
		}
		log.Debug().Err(err).Str("key", cacheKey).Msg("failed to unmarshal cached supplies list")
	}

	supplies, err := a.adapter.List(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(supplies); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, suppliesListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache supplies list")
			}
		}
	}()

	return supplies, nil
}

// GetByIDs retrieves supplies by id with batch caching
func (a *CachedSupplyAdapter) GetByIDs(ctx context.Context, clinicID string, ids []string) ([]*entities.Supply, error) {
	if len(ids) == 0 {
		return []*entities.Supply{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = supplyCacheKey(clinicID, id)
	}

	cached, _ := a.cache.GetMulti(ctx, cacheKeys)

	var cachedSupplies []*entities.Supply
	missingIDs := make([]string, 0)
	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var supply entities.Supply
			if err := json.Unmarshal(data, &supply); err == nil {
				cachedSupplies = append(cachedSupplies, &supply)
				continue
			}
		}
		missingIDs = append(missingIDs, id)
	}

	if len(missingIDs) == 0 {
		return cachedSupplies, nil
	}

	dbSupplies, err := a.adapter.GetByIDs(ctx, clinicID, missingIDs)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		items := make(map[string][]byte)
		for _, supply := range dbSupplies {
			if data, err := json.Marshal(supply); err == nil {
				items[supplyCacheKey(clinicID, supply.ID)] = data
			}
		}
		if len(items) > 0 {
			if err := a.cache.SetMulti(bgCtx, items, supplyByIDTTL); err != nil {
				log.Warn().Err(err).Msg("failed to batch cache supplies")
			}
		}
	}()

	return append(cachedSupplies, dbSupplies...), nil
}

// Create creates a supply and invalidates list caches
func (a *CachedSupplyAdapter) Create(ctx context.Context, supply *entities.Supply) error {
	if err := a.adapter.Create(ctx, supply); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, fmt.Sprintf("supplies:list:%s:*", supply.ClinicID)); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate supplies list cache")
		}
	}()

	return nil
}

// Delete deletes a supply and invalidates its caches
func (a *CachedSupplyAdapter) Delete(ctx context.Context, clinicID, id string) error {
	if err := a.adapter.Delete(ctx, clinicID, id); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, supplyCacheKey(clinicID, id)); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("failed to invalidate supply cache")
		}
		if err := a.cache.DeletePattern(bgCtx, fmt.Sprintf("supplies:list:%s:*", clinicID)); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate supplies list cache")
		}
	}()

	return nil
}
