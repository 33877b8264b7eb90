package providers

import (
	"context"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// catalog change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSupplies carries consumable catalog changes for every
// clinic; subscribers filter on the event's clinic id.
const EventChannelSupplies = "catalog:supplies"
