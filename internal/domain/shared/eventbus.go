package shared

import "context"

// EventHandler processes a single domain event
type EventHandler func(ctx context.Context, event DomainEvent) error

// EventBus publishes domain events to registered handlers
type EventBus interface {
	Publish(ctx context.Context, events ...DomainEvent) error
	Subscribe(eventType string, handler EventHandler)
}

// PublishEvents drains and publishes the pending events of an aggregate.
// A nil bus is allowed so services can run without event wiring in tests.
func PublishEvents(ctx context.Context, bus EventBus, aggregate AggregateRoot) error {
	if bus == nil {
		aggregate.ClearDomainEvents()
		return nil
	}
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	return bus.Publish(ctx, events...)
}
