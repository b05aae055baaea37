package event

import (
	"encoding/json"
	"fmt"
	"time"
)

/* Wire representation of delivered events
 * Field names follow the dashboard's JSON contract, so they are camelCase
 * and media fields are explicit nulls when absent.
 */

type messagePayload struct {
	Type    string      `json:"type"`
	Message messageWire `json:"message"`
}

type messageWire struct {
	ID        string  `json:"id"`
	From      string  `json:"from,omitempty"`
	To        string  `json:"to,omitempty"`
	Body      string  `json:"body"`
	Timestamp int64   `json:"timestamp"`
	HasMedia  bool    `json:"hasMedia"`
	MediaType *string `json:"mediaType"`
	MediaPath *string `json:"mediaPath"`
}

type testPayload struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Test      bool   `json:"test"`
	Message   string `json:"message"`
}

type externalPayload struct {
	Type      string          `json:"type"`
	Event     string          `json:"event"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Payload returns the JSON body POSTed to the webhook destination
// The returned bytes are minified (no extra whitespace)
func (e Event) Payload() ([]byte, error) {
	if err := e.Kind.Validate(); err != nil {
		return nil, fmt.Errorf("validating event: %w", err)
	}

	var v any
	switch e.Kind {
	case MessageSent, MessageReceived:
		if e.Message == nil {
			return nil, fmt.Errorf("%s event without message", e.Kind)
		}
		v = messagePayload{
			Type:    e.Kind.String(),
			Message: newMessageWire(e.Kind, *e.Message),
		}
	case WebhookTest:
		v = testPayload{
			Type:      e.Kind.String(),
			Timestamp: formatTimestamp(e.Timestamp),
			Test:      true,
			Message:   e.Test,
		}
	case ExternalEvent:
		if e.External == nil {
			return nil, fmt.Errorf("%s event without data", e.Kind)
		}
		v = externalPayload{
			Type:      e.Kind.String(),
			Event:     e.External.Name,
			Timestamp: formatTimestamp(e.Timestamp),
			Data:      e.External.Data,
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	return data, nil
}

func newMessageWire(kind Kind, msg Message) messageWire {
	w := messageWire{
		ID:        msg.ID,
		Body:      msg.Body,
		Timestamp: msg.Timestamp.Unix(),
		HasMedia:  msg.HasMedia,
	}
	if kind == MessageReceived {
		w.From = msg.From
	} else {
		w.To = msg.To
	}
	if msg.Media != nil {
		w.MediaType = &msg.Media.Type
		w.MediaPath = &msg.Media.Path
	}
	return w
}

// formatTimestamp renders ISO-8601 with millisecond precision
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
