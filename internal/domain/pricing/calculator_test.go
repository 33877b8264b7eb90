package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalops/pricing-engine/internal/domain/pricing"
	"github.com/dentalops/pricing-engine/pkg/money"
)

func TestCompute_EmptyRecipeWithMargin(t *testing.T) {
	quote := pricing.Compute(pricing.QuoteInput{
		DurationMinutes:        30,
		PerMinuteCents:         10,
		Recipe:                 map[string]int{},
		Catalog:                map[string]int64{},
		MarginPct:              60,
		RoundingIncrementMajor: 50,
	})

	assert.Equal(t, int64(300), quote.FixedCostCents)
	assert.Equal(t, int64(0), quote.VariableCostCents)
	// base 300 * 1.6 = 480, rounded up to the nearest $50 increment
	assert.Equal(t, int64(5000), quote.PriceCents)
}

func TestCompute_SmallRoundingIncrement(t *testing.T) {
	quote := pricing.Compute(pricing.QuoteInput{
		DurationMinutes:        30,
		PerMinuteCents:         10,
		MarginPct:              60,
		RoundingIncrementMajor: 1,
	})

	// raw 480 cents rounds up to the next whole major unit
	assert.Equal(t, int64(500), quote.PriceCents)
}

func TestCompute_RecipeAndExtraVariable(t *testing.T) {
	quote := pricing.Compute(pricing.QuoteInput{
		DurationMinutes:         30,
		PerMinuteCents:          10,
		Recipe:                  map[string]int{"itemA": 2},
		Catalog:                 map[string]int64{"itemA": 150},
		ExtraVariableMajorUnits: 3.00,
		MarginPct:               60,
		RoundingIncrementMajor:  1,
	})

	assert.Equal(t, int64(600), quote.VariableCostCents, "2x150 + 300 extra")
	assert.Equal(t, int64(900), quote.BaseCostCents)
}

func TestCompute_ZeroMarginIdentity(t *testing.T) {
	in := pricing.QuoteInput{
		DurationMinutes:        45,
		PerMinuteCents:         276,
		Recipe:                 map[string]int{"a": 3, "b": 1},
		Catalog:                map[string]int64{"a": 50, "b": 125},
		MarginPct:              0,
		RoundingIncrementMajor: 50,
	}

	quote := pricing.Compute(in)

	expected := money.RoundUpToIncrement(quote.FixedCostCents+quote.VariableCostCents, 5000)
	assert.Equal(t, expected, quote.PriceCents)
	assert.Equal(t, int64(0), quote.MarginCents)
}

func TestCompute_StaleRecipeReferenceContributesZero(t *testing.T) {
	withStale := pricing.Compute(pricing.QuoteInput{
		DurationMinutes:        30,
		PerMinuteCents:         10,
		Recipe:                 map[string]int{"alive": 2, "deleted": 5},
		Catalog:                map[string]int64{"alive": 150},
		MarginPct:              60,
		RoundingIncrementMajor: 1,
	})
	without := pricing.Compute(pricing.QuoteInput{
		DurationMinutes:        30,
		PerMinuteCents:         10,
		Recipe:                 map[string]int{"alive": 2},
		Catalog:                map[string]int64{"alive": 150},
		MarginPct:              60,
		RoundingIncrementMajor: 1,
	})

	assert.Equal(t, without.VariableCostCents, withStale.VariableCostCents)
	assert.Equal(t, without.PriceCents, withStale.PriceCents)
	assert.Equal(t, []string{"deleted"}, withStale.MissingSupplyIDs)
	assert.Empty(t, without.MissingSupplyIDs)
}

func TestCompute_ZeroQuantityLinesIgnored(t *testing.T) {
	quote := pricing.Compute(pricing.QuoteInput{
		DurationMinutes: 10,
		PerMinuteCents:  100,
		Recipe:          map[string]int{"a": 0},
		Catalog:         map[string]int64{"a": 999},
	})

	assert.Equal(t, int64(0), quote.VariableCostCents)
	assert.Empty(t, quote.MissingSupplyIDs, "a zero-quantity line is absent, not stale")
}

func TestCompute_Monotonicity(t *testing.T) {
	base := pricing.QuoteInput{
		DurationMinutes:        30,
		PerMinuteCents:         276,
		Recipe:                 map[string]int{"a": 2},
		Catalog:                map[string]int64{"a": 150},
		MarginPct:              60,
		RoundingIncrementMajor: 1,
	}
	basePrice := pricing.Compute(base).PriceCents

	t.Run("longer duration never lowers the price", func(t *testing.T) {
		in := base
		for _, minutes := range []int{31, 45, 90, 240} {
			in.DurationMinutes = minutes
			assert.GreaterOrEqual(t, pricing.Compute(in).PriceCents, basePrice)
		}
	})

	t.Run("higher quantity never lowers the price", func(t *testing.T) {
		in := base
		for _, qty := range []int{3, 5, 20} {
			in.Recipe = map[string]int{"a": qty}
			assert.GreaterOrEqual(t, pricing.Compute(in).PriceCents, basePrice)
		}
	})

	t.Run("higher margin never lowers the price", func(t *testing.T) {
		in := base
		for _, margin := range []float64{61, 75, 120, 300} {
			in.MarginPct = margin
			assert.GreaterOrEqual(t, pricing.Compute(in).PriceCents, basePrice)
		}
	})
}
