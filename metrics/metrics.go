package metrics

import (
	"context"
	"time"
)

// Metrics is a point-in-time view of relay activity
type Metrics struct {
	// MessagesSent and MessagesReceived count message log entries by direction
	MessagesSent     int64 `json:"messages_sent"`
	MessagesReceived int64 `json:"messages_received"`

	// MediaFiles counts message log entries that carry media
	MediaFiles int64 `json:"media_files"`

	// WebhookEvents counts recorded delivery attempts
	WebhookEvents int64 `json:"webhook_events"`

	// Session is the connection status of the messaging client
	Session string `json:"session"`

	Timestamp time.Time `json:"timestamp"`
}

// Collector gathers the current metrics
type Collector interface {
	Collect(ctx context.Context) (Metrics, error)
}
