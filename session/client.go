// Package session connects the messaging client to the relay: it tracks
// connection state, turns client callbacks into log entries and webhook
// deliveries, and exposes connect, disconnect and send operations.
package session

import (
	"context"
	"time"
)

// Client is the messaging library as seen by the relay. Implementations
// push their callbacks as ClientEvents into the channel they were built with.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SendText(ctx context.Context, chatID, text string) (string, error)
	SendMedia(ctx context.Context, chatID string, att Attachment, fileName, caption string) (string, error)
}

// EventType enumerates the client callbacks the bridge understands
type EventType int

const (
	EventQR EventType = iota + 1
	EventReady
	EventDisconnected
	EventMessage
	EventMessageCreate
)

// String returns the client's callback name
func (t EventType) String() string {
	switch t {
	case EventQR:
		return "qr"
	case EventReady:
		return "ready"
	case EventDisconnected:
		return "disconnected"
	case EventMessage:
		return "message"
	case EventMessageCreate:
		return "message_create"
	default:
		return "unknown"
	}
}

// ClientEvent is one callback from the client
type ClientEvent struct {
	Type    EventType
	QR      string
	Reason  string
	Message *IncomingMessage
}

/* IncomingMessage is a chat message reported by the client
 * Download is set when the message carries media and fetches it on demand.
 */
type IncomingMessage struct {
	ID        string
	From      string
	To        string
	Body      string
	Timestamp time.Time
	FromMe    bool
	HasMedia  bool
	Download  func(ctx context.Context) (Attachment, error)
}

// Attachment is media content with its MIME type
type Attachment struct {
	MimeType string
	Data     []byte
}
