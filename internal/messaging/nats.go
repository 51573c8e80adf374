package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/gamelearn/escape-api/internal/entities"
	"github.com/gamelearn/escape-api/internal/errors"
)

const defaultSubjectPrefix = "escape.events"

// NatsPublisher publishes game events to per-session NATS subjects.
type NatsPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNatsPublisher connects to the given NATS URL and returns a
// publisher over it.
func NewNatsPublisher(url string) (*NatsPublisher, error) {
	if url == "" {
		return nil, errors.InvalidArgument("nats URL is required")
	}

	conn, err := nats.Connect(url, nats.Name("escape-api"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to NATS at %s", url)
	}

	return &NatsPublisher{
		conn:          conn,
		subjectPrefix: defaultSubjectPrefix,
	}, nil
}

// Ensure NatsPublisher implements Publisher
var _ Publisher = (*NatsPublisher)(nil)

// Publish sends the event as JSON to escape.events.{session_id}.
func (p *NatsPublisher) Publish(_ context.Context, event entities.GameEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal event")
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.SessionID)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.Wrapf(err, "failed to publish event to %s", subject)
	}
	return nil
}

// Close drains the underlying connection.
func (p *NatsPublisher) Close() {
	p.conn.Close()
}
