package pricing

import (
	"math"
	"sort"

	"github.com/dentalops/pricing-engine/pkg/money"
)

// QuoteInput carries everything the price formula needs. Catalog maps
// supply id to cost per portion in cents; Recipe maps supply id to
// quantity. Out-of-range values (negative margin, zero duration) are
// rejected or clamped by callers before reaching this function.
type QuoteInput struct {
	DurationMinutes         int
	PerMinuteCents          int64
	Recipe                  map[string]int
	Catalog                 map[string]int64
	ExtraVariableMajorUnits float64
	MarginPct               float64
	RoundingIncrementMajor  float64
}

// Quote is the derived pricing breakdown. It is recomputed on every
// relevant input change and never persisted.
type Quote struct {
	FixedCostCents    int64 `json:"fixed_cost_cents"`
	VariableCostCents int64 `json:"variable_cost_cents"`
	BaseCostCents     int64 `json:"base_cost_cents"`
	MarginCents       int64 `json:"margin_cents"`
	PriceCents        int64 `json:"price_cents"`

	// MissingSupplyIDs lists recipe entries whose supply no longer
	// exists in the catalog. They contribute zero to the price; the UI
	// flags them so the user can clean the recipe up.
	MissingSupplyIDs []string `json:"missing_supply_ids,omitempty"`
}

// Compute applies the margin-based price formula:
//
//	fixed    = duration * per-minute cost
//	variable = sum(recipe qty * cost per portion) + extra variable amount
//	price    = round_up(base * (1 + margin/100), increment)
//
// A recipe entry referencing a supply absent from the catalog contributes
// zero rather than failing; the catalog may have changed since the recipe
// was assembled.
func Compute(in QuoteInput) Quote {
	fixed := int64(in.DurationMinutes) * in.PerMinuteCents

	var variable int64
	var missing []string
	for id, qty := range in.Recipe {
		if qty <= 0 {
			continue
		}
		costPerPortion, ok := in.Catalog[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		variable += int64(qty) * costPerPortion
	}
	sort.Strings(missing)
	variable += money.ToCents(in.ExtraVariableMajorUnits)

	base := fixed + variable
	withMargin := int64(math.Round(float64(base) * (1 + in.MarginPct/100)))
	price := money.RoundUpToIncrement(withMargin, money.ToCents(in.RoundingIncrementMajor))

	return Quote{
		FixedCostCents:    fixed,
		VariableCostCents: variable,
		BaseCostCents:     base,
		MarginCents:       withMargin - base,
		PriceCents:        price,
		MissingSupplyIDs:  missing,
	}
}
