package entities

import (
	"time"
)

// CatalogEventType identifies what changed in the consumable catalog
type CatalogEventType string

const (
	CatalogEventSupplyCreated CatalogEventType = "supply.created"
	CatalogEventSupplyDeleted CatalogEventType = "supply.deleted"
)

// CatalogEvent is published whenever the consumable catalog changes.
// Open wizard sessions subscribe so a deleted supply is dropped from
// every in-progress recipe.
type CatalogEvent struct {
	ID        string           `json:"id"`
	Type      CatalogEventType `json:"type"`
	ClinicID  string           `json:"clinic_id"`
	SupplyID  string           `json:"supply_id"`
	Timestamp time.Time        `json:"timestamp"`
}
