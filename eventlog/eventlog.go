// Package eventlog is the durable audit trail of relayed messages and
// webhook delivery attempts.
package eventlog

import (
	"encoding/json"
	"time"
)

// DefaultLimit is used when a list request does not carry a positive limit
const DefaultLimit = 50

// TransportFailureStatus is recorded when no HTTP response was received
const TransportFailureStatus = 500

/* MessageLog records a single inbound or outbound chat message
 * Entries are immutable once appended and only removed by a bulk clear
 */
type MessageLog struct {
	ID          string
	Timestamp   time.Time
	Direction   Direction
	PhoneNumber string
	Content     string
	Status      DeliveryStatus
	MediaType   *string
	MediaPath   *string
}

// HasMedia reports whether the entry references a media file
func (m MessageLog) HasMedia() bool {
	return m.MediaType != nil
}

/* WebhookAttempt records one outbound POST to the webhook destination
 * Status holds the HTTP status code, or TransportFailureStatus when the
 * request never produced a response
 */
type WebhookAttempt struct {
	ID        string
	Timestamp time.Time
	Method    string
	Endpoint  string
	Status    int
	Source    string
	Payload   json.RawMessage
	Response  json.RawMessage
}

// Succeeded reports whether the destination answered with a 2xx status
func (w WebhookAttempt) Succeeded() bool {
	return w.Status >= 200 && w.Status < 300
}

// Page bounds a list query
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default limit and clamps a negative offset
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Counts is the raw aggregate computed by a repository
type Counts struct {
	MessagesSent     int64
	MessagesReceived int64
	MediaFiles       int64
	WebhookEvents    int64
	LastActivity     *time.Time
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
