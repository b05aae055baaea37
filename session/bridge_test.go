package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/whatsapp-relay/event"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	logmocks "github.com/marcelsud/whatsapp-relay/eventlog/mocks"
	mediamocks "github.com/marcelsud/whatsapp-relay/media/mocks"
	"github.com/marcelsud/whatsapp-relay/session"
	webhookmocks "github.com/marcelsud/whatsapp-relay/webhook/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bridgeDeps struct {
	log        *logmocks.UseCase
	dispatcher *webhookmocks.Deliverer
	media      *mediamocks.Store
	bridge     *session.Bridge
}

func newBridge(t *testing.T) bridgeDeps {
	t.Helper()
	d := bridgeDeps{
		log:        logmocks.NewUseCase(t),
		dispatcher: webhookmocks.NewDeliverer(t),
		media:      mediamocks.NewStore(t),
	}
	d.bridge = session.NewBridge(session.NewState(), d.log, d.dispatcher, d.media, 4, zerolog.Nop())
	return d
}

func inbound(download func(context.Context) (session.Attachment, error)) *session.IncomingMessage {
	return &session.IncomingMessage{
		ID:        "3EB0AA",
		From:      "5511999999999@c.us",
		To:        "5511888888888@c.us",
		Body:      "hi there",
		Timestamp: time.Unix(1700000000, 0),
		HasMedia:  download != nil,
		Download:  download,
	}
}

func TestBridge_ConnectionEvents(t *testing.T) {
	d := newBridge(t)
	ctx := context.Background()

	d.bridge.Handle(ctx, session.ClientEvent{Type: session.EventQR, QR: "2@qr"})
	assert.Equal(t, session.Connecting, d.bridge.State.Snapshot().Status)

	d.bridge.Handle(ctx, session.ClientEvent{Type: session.EventReady})
	snap := d.bridge.State.Snapshot()
	assert.Equal(t, session.Connected, snap.Status)
	assert.NotEmpty(t, snap.SessionID)

	d.bridge.Handle(ctx, session.ClientEvent{Type: session.EventDisconnected, Reason: "logout"})
	snap = d.bridge.State.Snapshot()
	assert.Equal(t, session.Disconnected, snap.Status)
	assert.Empty(t, snap.SessionID)
	assert.Empty(t, snap.QRCode)
}

func TestBridge_InboundText(t *testing.T) {
	d := newBridge(t)

	d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
		return e.Direction == eventlog.Received &&
			e.PhoneNumber == "5511999999999@c.us" &&
			e.Content == "hi there" &&
			e.Status == eventlog.Delivered &&
			!e.HasMedia()
	})).Return("log-1", nil).Once()
	d.dispatcher.On("Go", mock.MatchedBy(func(ev event.Event) bool {
		return ev.Kind == event.MessageReceived &&
			ev.Message.ID == "3EB0AA" &&
			ev.Message.From == "5511999999999@c.us" &&
			ev.Message.Media == nil
	})).Return().Once()

	d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessage, Message: inbound(nil)})
}

func TestBridge_InboundMedia(t *testing.T) {
	d := newBridge(t)
	download := func(context.Context) (session.Attachment, error) {
		return session.Attachment{MimeType: "image/jpeg", Data: []byte{0xff, 0xd8}}, nil
	}

	d.media.On("Save", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "received-") && strings.HasSuffix(name, "-1.jpeg")
	}), "image/jpeg", []byte{0xff, 0xd8}).Return("uploads/received-1.jpeg", nil).Once()
	d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
		return e.MediaType != nil && *e.MediaType == "image" &&
			e.MediaPath != nil && *e.MediaPath == "uploads/received-1.jpeg"
	})).Return("log-1", nil).Once()
	d.dispatcher.On("Go", mock.MatchedBy(func(ev event.Event) bool {
		return ev.Message.Media != nil &&
			ev.Message.Media.Type == "image" &&
			ev.Message.Media.Path == "uploads/received-1.jpeg"
	})).Return().Once()

	d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessage, Message: inbound(download)})
}

func TestBridge_MediaFailureStillLogsAndDispatches(t *testing.T) {
	tests := []struct {
		name     string
		download func(context.Context) (session.Attachment, error)
		saveErr  error
	}{
		{
			name: "download fails",
			download: func(context.Context) (session.Attachment, error) {
				return session.Attachment{}, errors.New("media expired")
			},
		},
		{
			name: "storage fails",
			download: func(context.Context) (session.Attachment, error) {
				return session.Attachment{MimeType: "audio/ogg; codecs=opus", Data: []byte("ogg")}, nil
			},
			saveErr: errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newBridge(t)
			if tt.saveErr != nil {
				d.media.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", tt.saveErr).Once()
			}
			d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
				return e.Direction == eventlog.Received && e.MediaType == nil && e.MediaPath == nil
			})).Return("log-1", nil).Once()
			d.dispatcher.On("Go", mock.MatchedBy(func(ev event.Event) bool {
				return ev.Message.HasMedia && ev.Message.Media == nil
			})).Return().Once()

			d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessage, Message: inbound(tt.download)})
		})
	}
}

func TestBridge_LogFailureSkipsDispatch(t *testing.T) {
	d := newBridge(t)
	d.log.On("AppendMessageLog", mock.Anything, mock.Anything).Return("", errors.New("database is locked")).Once()

	d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessage, Message: inbound(nil)})
	d.dispatcher.AssertNotCalled(t, "Go", mock.Anything)
}

func TestBridge_OwnMessages(t *testing.T) {
	t.Run("message_create from self is logged as sent", func(t *testing.T) {
		d := newBridge(t)
		msg := inbound(nil)
		msg.FromMe = true
		msg.HasMedia = true

		d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
			return e.Direction == eventlog.Sent &&
				e.PhoneNumber == "5511888888888@c.us" &&
				e.Status == eventlog.Delivered &&
				e.MediaType != nil && *e.MediaType == "unknown" &&
				e.MediaPath == nil
		})).Return("log-1", nil).Once()

		d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessageCreate, Message: msg})
		d.dispatcher.AssertNotCalled(t, "Go", mock.Anything)
	})

	t.Run("message_create from others is ignored", func(t *testing.T) {
		d := newBridge(t)
		d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessageCreate, Message: inbound(nil)})
		d.log.AssertNotCalled(t, "AppendMessageLog", mock.Anything, mock.Anything)
	})

	t.Run("message from self is not relayed", func(t *testing.T) {
		d := newBridge(t)
		msg := inbound(nil)
		msg.FromMe = true
		d.bridge.Handle(context.Background(), session.ClientEvent{Type: session.EventMessage, Message: msg})
		d.dispatcher.AssertNotCalled(t, "Go", mock.Anything)
	})
}

func TestBridge_RunPreservesOrder(t *testing.T) {
	d := newBridge(t)
	done := make(chan struct{})
	var bodies []string

	d.log.On("AppendMessageLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		bodies = append(bodies, args.Get(1).(eventlog.MessageLog).Content)
	}).Return("id", nil).Times(3)
	d.dispatcher.On("Go", mock.Anything).Return().Times(2)
	d.dispatcher.On("Go", mock.Anything).Run(func(mock.Arguments) { close(done) }).Return().Once()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- d.bridge.Run(ctx) }()

	for _, body := range []string{"one", "two", "three"} {
		msg := inbound(nil)
		msg.Body = body
		d.bridge.Sink() <- session.ClientEvent{Type: session.EventMessage, Message: msg}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not process events")
	}
	cancel()
	require.NoError(t, <-stopped)
	assert.Equal(t, []string{"one", "two", "three"}, bodies)
}

func TestLogEntry(t *testing.T) {
	ev := event.NewMessageSent(event.Message{
		ID:    "out-1",
		To:    "5511888888888@c.us",
		Body:  "bye",
		Media: &event.Media{Type: "video", Path: "uploads/clip.mp4"},
	})

	entry := session.LogEntry(ev)
	assert.Equal(t, eventlog.Sent, entry.Direction)
	assert.Equal(t, "5511888888888@c.us", entry.PhoneNumber)
	assert.Equal(t, "bye", entry.Content)
	assert.Equal(t, eventlog.Delivered, entry.Status)
	require.NotNil(t, entry.MediaType)
	assert.Equal(t, "video", *entry.MediaType)
	require.NotNil(t, entry.MediaPath)
	assert.Equal(t, "uploads/clip.mp4", *entry.MediaPath)
}
