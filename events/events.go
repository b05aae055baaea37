// Package events mirrors audit log writes onto a message bus so other
// processes can follow relay activity without polling the admin API.
package events

import "context"

// Topics published by the relay
const (
	TopicMessageLogged    = "relay.message.logged"
	TopicWebhookAttempted = "relay.webhook.attempted"
	TopicLogsCleared      = "relay.logs.cleared"
	TopicSessionChanged   = "relay.session.changed"
)

// LogsCleared is published after a bulk clear
type LogsCleared struct {
	Table string `json:"table"`
}

// SessionChanged is published on every connection state transition
type SessionChanged struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
