// Package notify holds the wire format shared by the notification publishers.
package notify

import (
	"encoding/json"
	"fmt"

	"orderlifecycle/internal/core/domain/model/kernel"
)

// TopicPrefix starts every per-order topic name.
const TopicPrefix = "orders:"

// Envelope is the JSON document subscribers receive.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Topic returns the topic of orderID's events.
func Topic(orderID kernel.UUID) string {
	return TopicPrefix + orderID.String()
}

// Encode marshals event and payload into an envelope.
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event, err)
	}
	return data, nil
}
