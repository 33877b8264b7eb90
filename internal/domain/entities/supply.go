package entities

import (
	"strings"
	"time"
)

// Supply is a clinic-scoped consumable catalog entry. Names are unique
// per clinic under case-insensitive comparison; "Guantes" and "guantes"
// are the same item.
type Supply struct {
	ID           string    `json:"id" db:"id"`
	ClinicID     string    `json:"clinic_id" db:"clinic_id"`
	Name         string    `json:"name" db:"name"`
	Presentation string    `json:"presentation" db:"presentation"`
	PriceCents   int64     `json:"price_cents" db:"price_cents"`
	Portions     int       `json:"portions" db:"portions"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// CostPerPortionCents is derived on read from the package price and
	// portion count; it is not stored.
	CostPerPortionCents int64 `json:"cost_per_portion_cents" db:"-"`
}

// NameKey returns the canonical form used for case-insensitive name
// comparison and deduplication.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CostPerPortion derives the per-portion cost from the package price.
func (s *Supply) CostPerPortion() int64 {
	portions := s.Portions
	if portions < 1 {
		portions = 1
	}
	// Round half up; cost and portions are both non-negative.
	return (s.PriceCents + int64(portions)/2) / int64(portions)
}

// SupplyInput is the payload for creating a supply, inline from the
// wizard or through the catalog API.
type SupplyInput struct {
	Name            string  `json:"name"`
	Presentation    string  `json:"presentation"`
	PriceMajorUnits float64 `json:"price_pesos"`
	Portions        int     `json:"portions"`
}
