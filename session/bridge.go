package session

import (
	"context"
	"time"

	"github.com/marcelsud/whatsapp-relay/event"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	"github.com/marcelsud/whatsapp-relay/media"
	"github.com/rs/zerolog"
)

// DefaultQueueSize is the capacity of the client event channel
const DefaultQueueSize = 64

// mediaTimeout bounds download plus storage of one attachment
const mediaTimeout = time.Minute

// MessageLogger persists message log entries
type MessageLogger interface {
	AppendMessageLog(ctx context.Context, entry eventlog.MessageLog) (string, error)
}

// Dispatcher starts a webhook delivery without waiting for it
type Dispatcher interface {
	Go(ev event.Event)
}

/* Bridge is the single consumer of client events
 * Events are handled one at a time in arrival order. Webhook deliveries run
 * in the background so a slow endpoint never delays the next event.
 */
type Bridge struct {
	State      *State
	Log        MessageLogger
	Dispatcher Dispatcher
	Media      media.Store
	Logger     zerolog.Logger

	events chan ClientEvent
	namer  media.Namer
	now    func() time.Time
}

func NewBridge(state *State, log MessageLogger, dispatcher Dispatcher, store media.Store, queueSize int, logger zerolog.Logger) *Bridge {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bridge{
		State:      state,
		Log:        log,
		Dispatcher: dispatcher,
		Media:      store,
		Logger:     logger,
		events:     make(chan ClientEvent, queueSize),
		now:        time.Now,
	}
}

// Sink is the channel client adapters push events into. Sends block when
// the queue is full.
func (b *Bridge) Sink() chan<- ClientEvent {
	return b.events
}

// Run consumes events until ctx is done
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-b.events:
			b.Handle(ctx, ev)
		}
	}
}

// Handle processes a single client event
func (b *Bridge) Handle(ctx context.Context, ev ClientEvent) {
	switch ev.Type {
	case EventQR:
		if _, err := b.State.QR(ev.QR); err != nil {
			b.Logger.Error().Err(err).Msg("storing qr code")
			return
		}
		b.Logger.Info().Msg("QR code received")
	case EventReady:
		if b.State.Ready(b.now()) {
			b.Logger.Info().Msg("messaging client is ready")
		}
	case EventDisconnected:
		if b.State.Disconnected() {
			b.Logger.Info().Str("reason", ev.Reason).Msg("messaging client disconnected")
		}
	case EventMessageCreate:
		if ev.Message != nil && ev.Message.FromMe {
			b.logSent(ctx, *ev.Message)
		}
	case EventMessage:
		if ev.Message != nil && !ev.Message.FromMe {
			b.relayReceived(ctx, *ev.Message)
		}
	default:
		b.Logger.Warn().Int("type", int(ev.Type)).Msg("ignoring unknown client event")
	}
}

func (b *Bridge) logSent(ctx context.Context, msg IncomingMessage) {
	m := event.Message{
		ID:        msg.ID,
		To:        msg.To,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
		HasMedia:  msg.HasMedia,
	}
	if msg.HasMedia {
		m.Media = &event.Media{Type: "unknown"}
	}
	entry := LogEntry(event.NewMessageSent(m))
	if _, err := b.Log.AppendMessageLog(ctx, entry); err != nil {
		b.Logger.Error().Err(err).Str("message_id", msg.ID).Msg("logging sent message")
	}
}

func (b *Bridge) relayReceived(ctx context.Context, msg IncomingMessage) {
	b.Logger.Info().Str("from", msg.From).Msg("received message")

	m := event.Message{
		ID:        msg.ID,
		From:      msg.From,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
		HasMedia:  msg.HasMedia,
	}
	if msg.HasMedia {
		stored, err := b.storeMedia(ctx, msg)
		if err != nil {
			b.Logger.Error().Err(&apperr.MediaFetchError{MessageID: msg.ID, Err: err}).Msg("downloading media")
		} else {
			m.Media = stored
		}
	}

	ev := event.NewMessageReceived(m)
	if _, err := b.Log.AppendMessageLog(ctx, LogEntry(ev)); err != nil {
		b.Logger.Error().Err(err).Str("message_id", msg.ID).Msg("logging received message")
		return
	}
	b.Dispatcher.Go(ev)
}

func (b *Bridge) storeMedia(ctx context.Context, msg IncomingMessage) (*event.Media, error) {
	if msg.Download == nil {
		return nil, errNoDownloader
	}
	ctx, cancel := context.WithTimeout(ctx, mediaTimeout)
	defer cancel()

	att, err := msg.Download(ctx)
	if err != nil {
		return nil, err
	}
	name := b.namer.Received(b.now(), att.MimeType)
	location, err := b.Media.Save(ctx, name, att.MimeType, att.Data)
	if err != nil {
		return nil, err
	}
	return &event.Media{Type: media.Major(att.MimeType), Path: location}, nil
}

// LogEntry converts a message event into its log entry. Message events
// are always logged as delivered.
func LogEntry(ev event.Event) eventlog.MessageLog {
	entry := eventlog.MessageLog{
		Status: eventlog.Delivered,
	}
	msg := ev.Message
	if msg == nil {
		return entry
	}
	entry.Content = msg.Body
	if ev.Kind == event.MessageReceived {
		entry.Direction = eventlog.Received
		entry.PhoneNumber = msg.From
	} else {
		entry.Direction = eventlog.Sent
		entry.PhoneNumber = msg.To
	}
	if msg.Media != nil {
		entry.MediaType = eventlog.StringPtr(msg.Media.Type)
		entry.MediaPath = eventlog.StringPtr(msg.Media.Path)
	}
	return entry
}
