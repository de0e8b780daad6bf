package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// EventPublisher delivers a user event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.UserEvent) error
	Close() error
}

// EventSink accepts events for asynchronous delivery. Enqueue must not block
// the caller for long.
type EventSink interface {
	Enqueue(event domain.UserEvent)
}
