package entities

import (
	"time"
)

// FixedCostLine is one recorded monthly fixed cost (rent, salaries, a
// manual depreciation estimate).
type FixedCostLine struct {
	ID          string    `json:"id" db:"id"`
	ClinicID    string    `json:"clinic_id" db:"clinic_id"`
	Category    string    `json:"category" db:"category"`
	Concept     string    `json:"concept" db:"concept"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FixedCostSummary aggregates a clinic's fixed-cost lines.
type FixedCostSummary struct {
	TotalMonthlyCents int64 `json:"total_monthly_cents"`
	Lines             int   `json:"lines"`
}
