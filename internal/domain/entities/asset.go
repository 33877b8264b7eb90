package entities

import (
	"time"
)

// Asset is a depreciable purchase whose monthly depreciation feeds the
// fixed-cost baseline.
type Asset struct {
	ID                 string    `json:"id" db:"id"`
	ClinicID           string    `json:"clinic_id" db:"clinic_id"`
	Name               string    `json:"name" db:"name"`
	PurchasePriceCents int64     `json:"purchase_price_cents" db:"purchase_price_cents"`
	DepreciationMonths int       `json:"depreciation_months" db:"depreciation_months"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// MonthlyDepreciationCents spreads the purchase price over the
// depreciation period.
func (a *Asset) MonthlyDepreciationCents() int64 {
	months := a.DepreciationMonths
	if months < 1 {
		months = 1
	}
	return (a.PurchasePriceCents + int64(months)/2) / int64(months)
}

// AssetInput is the quick-capture payload from the wizard's optional
// assets step.
type AssetInput struct {
	Name                    string  `json:"name"`
	PurchasePriceMajorUnits float64 `json:"purchase_price_pesos"`
	DepreciationMonths      int     `json:"depreciation_months"`
}

// AssetSummary aggregates a clinic's depreciable assets.
type AssetSummary struct {
	MonthlyDepreciationCents int64 `json:"monthly_depreciation_cents"`
	Count                    int   `json:"count"`
}
