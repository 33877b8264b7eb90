package entities

import (
	"time"
)

// Service is a sellable clinic service. Its canonical price is always
// recomputed from the clinic's current time-cost configuration and
// recipe; only the recipe itself is stored.
type Service struct {
	ID               string    `json:"id" db:"id"`
	ClinicID         string    `json:"clinic_id" db:"clinic_id"`
	Name             string    `json:"name" db:"name"`
	EstimatedMinutes int       `json:"est_minutes" db:"est_minutes"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	Recipe []RecipeLine `json:"recipe,omitempty" db:"-"`

	// VariableCostCents is recomputed on read from the recipe and the
	// current supply catalog.
	VariableCostCents int64 `json:"variable_cost_cents" db:"-"`
}

// RecipeLine links one consumable to a service with a quantity.
type RecipeLine struct {
	SupplyID            string `json:"supply_id" db:"supply_id"`
	Quantity            int    `json:"qty" db:"qty"`
	SupplyName          string `json:"supply_name,omitempty" db:"-"`
	CostPerPortionCents int64  `json:"cost_per_portion_cents,omitempty" db:"-"`
}

// ServiceInput is the creation payload submitted by the wizard. Catalog
// cost lookups are deliberately absent; pricing is recomputed
// authoritatively on receipt.
type ServiceInput struct {
	Name             string       `json:"name"`
	EstimatedMinutes int          `json:"est_minutes"`
	Recipe           []RecipeLine `json:"supplies"`
}

// CreatedService is the canonical identity returned on creation.
type CreatedService struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
