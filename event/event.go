package event

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TestMessage is the body carried by webhook test events
const TestMessage = "This is a test webhook event from WhatsApp Web Dashboard"

// namePattern validates external event names: full-stop delimited, [a-zA-Z0-9_.]
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

/* Event is the normalized representation of something that happened,
 * independent of where it came from. Exactly one of Message, External or
 * (for WebhookTest) Test is meaningful, selected by Kind.
 * Uses value semantics and is never modified after construction.
 */
type Event struct {
	ID        string
	Kind      Kind
	Timestamp time.Time
	Message   *Message
	Test      string
	External  *External
}

// Message is the payload of MessageSent and MessageReceived events
type Message struct {
	ID        string
	From      string
	To        string
	Body      string
	Timestamp time.Time
	HasMedia  bool
	Media     *Media
}

// Media describes stored media bytes by location, never by content
type Media struct {
	Type string
	Path string
}

// External is the payload of events posted by external callers
type External struct {
	Name string
	Data json.RawMessage
}

// NewMessageReceived creates a MessageReceived event
func NewMessageReceived(msg Message) Event {
	return newEvent(MessageReceived, withMessage(msg))
}

// NewMessageSent creates a MessageSent event
func NewMessageSent(msg Message) Event {
	return newEvent(MessageSent, withMessage(msg))
}

// NewWebhookTest creates a WebhookTest event
func NewWebhookTest() Event {
	ev := newEvent(WebhookTest)
	ev.Test = TestMessage
	return ev
}

// NewExternal creates an ExternalEvent from a caller supplied name and JSON data
func NewExternal(name string, data []byte) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, fmt.Errorf("event name is required")
	}
	if !namePattern.MatchString(name) {
		return Event{}, fmt.Errorf("event name must be full-stop delimited and contain only [a-zA-Z0-9_.]: %s", name)
	}
	if len(data) == 0 {
		data = []byte("null")
	}
	if !json.Valid(data) {
		return Event{}, fmt.Errorf("event data must be valid JSON")
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	ev := newEvent(ExternalEvent)
	ev.External = &External{Name: name, Data: raw}
	return ev, nil
}

func newEvent(kind Kind, opts ...func(*Event)) Event {
	ev := Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

func withMessage(msg Message) func(*Event) {
	return func(ev *Event) {
		if msg.Media != nil {
			media := *msg.Media
			msg.Media = &media
		}
		ev.Message = &msg
	}
}
