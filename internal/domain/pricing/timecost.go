// Package pricing holds the pure computation core of the pricing engine:
// the time-cost deriver and the price calculator. Nothing in this package
// performs I/O; inputs are validated at the boundary before they get here.
package pricing

import (
	"math"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// TimeCost is the derived per-minute cost figure plus the readiness
// flags the wizard gates on. It is recomputed on every evaluation and
// never cached.
type TimeCost struct {
	PerMinuteCents           int64 `json:"per_minute_cents"`
	EffectiveMinutesPerMonth int   `json:"effective_minutes_per_month"`
	MonthlyFixedCents        int64 `json:"monthly_fixed_cents"`

	// NeedsTimeHard blocks all pricing: without working minutes the
	// per-minute figure is undefined.
	NeedsTimeHard bool `json:"needs_time_hard"`
	// NeedsFixedCosts is the softer condition: pricing can proceed with
	// zero fixed cost, the result is just known to be incomplete.
	NeedsFixedCosts bool `json:"needs_fixed_costs"`
}

// DeriveTimeCost turns a clinic's time configuration and fixed-cost
// baseline into a per-minute cost. A nil configuration means the clinic
// has never set one up; that counts as zero effective minutes.
func DeriveTimeCost(cfg *entities.TimeConfiguration, baseline entities.FixedCostBaseline) TimeCost {
	effective := EffectiveMinutesPerMonth(cfg)

	var perMinute int64
	if effective > 0 {
		perMinute = int64(math.Round(float64(baseline.MonthlyFixedCents) / float64(effective)))
	}

	return TimeCost{
		PerMinuteCents:           perMinute,
		EffectiveMinutesPerMonth: effective,
		MonthlyFixedCents:        baseline.MonthlyFixedCents,
		NeedsTimeHard:            effective <= 0,
		NeedsFixedCosts:          baseline.MonthlyFixedCents <= 0,
	}
}

// EffectiveMinutesPerMonth scales the scheduled minutes down by the
// clinic's real productivity factor, rounded to the nearest minute.
func EffectiveMinutesPerMonth(cfg *entities.TimeConfiguration) int {
	if cfg == nil {
		return 0
	}
	scheduled := cfg.WorkDaysPerMonth * cfg.HoursPerDay * 60
	if scheduled <= 0 {
		return 0
	}
	return int(math.Round(float64(scheduled) * float64(cfg.RealProductivityPct) / 100))
}
