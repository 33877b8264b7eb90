package entities

import (
	"time"

	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// Bounds for the time configuration form. Submission is rejected with
// field-specific messages when any of them is violated.
const (
	MinWorkDaysPerMonth = 1
	MaxWorkDaysPerMonth = 31
	MinHoursPerDay      = 1
	MaxHoursPerDay      = 16
)

// TimeConfiguration is a clinic's work-time configuration. At most one
// row exists per clinic; its absence is a distinct state from "zero
// effective minutes".
type TimeConfiguration struct {
	ClinicID            string    `json:"clinic_id" db:"clinic_id"`
	WorkDaysPerMonth    int       `json:"work_days_per_month" db:"work_days"`
	HoursPerDay         int       `json:"hours_per_day" db:"hours_per_day"`
	RealProductivityPct int       `json:"real_productivity_pct" db:"real_pct"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// TimeConfigurationInput is the settings-form payload.
type TimeConfigurationInput struct {
	WorkDaysPerMonth    int `json:"work_days_per_month"`
	HoursPerDay         int `json:"hours_per_day"`
	RealProductivityPct int `json:"real_productivity_pct"`
}

// Validate bounds-checks each field individually so the caller can show
// the message next to the offending input.
func (in TimeConfigurationInput) Validate() error {
	fields := map[string]string{}

	if in.WorkDaysPerMonth < MinWorkDaysPerMonth {
		fields["work_days_per_month"] = "must be at least 1 day"
	} else if in.WorkDaysPerMonth > MaxWorkDaysPerMonth {
		fields["work_days_per_month"] = "cannot exceed 31 days"
	}

	if in.HoursPerDay < MinHoursPerDay {
		fields["hours_per_day"] = "must be at least 1 hour"
	} else if in.HoursPerDay > MaxHoursPerDay {
		fields["hours_per_day"] = "cannot exceed 16 hours"
	}

	if in.RealProductivityPct < 0 || in.RealProductivityPct > 100 {
		fields["real_productivity_pct"] = "must be between 0 and 100"
	}

	if len(fields) > 0 {
		return apperrors.NewFieldValidationError("invalid time configuration", fields)
	}
	return nil
}

// FixedCostBaseline is the clinic's derived monthly fixed-cost aggregate:
// recorded fixed-cost lines plus asset depreciation. Present reports
// whether any fixed cost exists at all, which is distinct from the total
// being zero.
type FixedCostBaseline struct {
	MonthlyFixedCents int64 `json:"monthly_fixed_cents"`
	Present           bool  `json:"present"`
}

// SetupStatus answers "what clinic-level configuration exists?" for the
// wizard's gate checks.
type SetupStatus struct {
	HasTimeConfig bool `json:"has_time_config"`
	HasFixedCosts bool `json:"has_fixed_costs"`
	HasAssets     bool `json:"has_assets"`
}
