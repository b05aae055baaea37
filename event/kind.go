package event

import "fmt"

/* Kind tags the variant carried by an Event
 * The wire name of each kind is the "type" field of the delivered payload
 */
type Kind int

const (
	MessageSent Kind = iota + 1
	MessageReceived
	WebhookTest
	ExternalEvent
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case MessageSent:
		return "message_sent"
	case MessageReceived:
		return "message_received"
	case WebhookTest:
		return "webhook_test"
	case ExternalEvent:
		return "external_event"
	default:
		return "unknown"
	}
}

// NewKind creates a Kind from its wire name
func NewKind(s string) Kind {
	switch s {
	case "message_sent":
		return MessageSent
	case "message_received":
		return MessageReceived
	case "webhook_test":
		return WebhookTest
	case "external_event":
		return ExternalEvent
	default:
		return 0
	}
}

// Validate checks if the kind is valid
func (k Kind) Validate() error {
	if k < MessageSent || k > ExternalEvent {
		return fmt.Errorf("invalid event kind: %d", k)
	}
	return nil
}
