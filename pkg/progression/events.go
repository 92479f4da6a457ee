package progression

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// EventPublisher is the fire-and-forget sink for progression events.
type EventPublisher interface {
	Publish(subject string, event interface{}) error
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (EventPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.conn.Publish(subject, data)
}
