package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// LogPublisher stands in for Kafka when no brokers are configured. Events
// are written to the log at debug level.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.UserEvent) error {
	p.log.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("user_id", event.UserID).
		Msg("user event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
