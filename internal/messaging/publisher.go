// Package messaging fans game events out to external consumers.
// Publishing is best-effort: the event log in Redis is the source of
// truth, subscribers only get a live feed.
package messaging

import (
	"context"

	"github.com/gamelearn/escape-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_publisher.go -package=messagingmock github.com/gamelearn/escape-api/internal/messaging Publisher

// Publisher delivers a game event to external subscribers.
type Publisher interface {
	Publish(ctx context.Context, event entities.GameEvent) error
}

// NoopPublisher drops every event. Wired when no broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event
func (p *NoopPublisher) Publish(_ context.Context, _ entities.GameEvent) error {
	return nil
}
