package ports

import "flutterai-engine/domain/events"

// EventPublisher fans engine events out to live subscribers (the WebSocket
// hub in the default wiring). Publishing must never block a store mutation;
// implementations drop rather than stall.
type EventPublisher interface {
	Publish(event events.DomainEvent)
}

// NopPublisher discards all events; useful in tests
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(events.DomainEvent) {}
