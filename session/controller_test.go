package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	logmocks "github.com/marcelsud/whatsapp-relay/eventlog/mocks"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	mediamocks "github.com/marcelsud/whatsapp-relay/media/mocks"
	"github.com/marcelsud/whatsapp-relay/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sentCall struct {
	chatID  string
	text    string
	att     session.Attachment
	file    string
	caption string
}

// fakeClient records calls and reports them to State like a real client would
type fakeClient struct {
	mu          sync.Mutex
	state       *session.State
	connects    int
	disconnects int
	sent        []sentCall
	err         error
}

func (c *fakeClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.err != nil {
		return c.err
	}
	_, err := c.state.QR("2@fake")
	return err
}

func (c *fakeClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return c.err
}

func (c *fakeClient) SendText(ctx context.Context, chatID, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, sentCall{chatID: chatID, text: text})
	return "msg-1", nil
}

func (c *fakeClient) SendMedia(ctx context.Context, chatID string, att session.Attachment, fileName, caption string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, sentCall{chatID: chatID, att: att, file: fileName, caption: caption})
	return "media-1", nil
}

type controllerDeps struct {
	client *fakeClient
	state  *session.State
	log    *logmocks.UseCase
	media  *mediamocks.Store
	svc    *session.Service
}

func newController(t *testing.T, connected bool) controllerDeps {
	t.Helper()
	state := session.NewState()
	if connected {
		require.True(t, state.Ready(time.Now()))
	}
	d := controllerDeps{
		client: &fakeClient{state: state},
		state:  state,
		log:    logmocks.NewUseCase(t),
		media:  mediamocks.NewStore(t),
	}
	d.svc = session.NewService(d.client, state, d.log, d.media, zerolog.Nop())
	return d
}

func TestController_Connect(t *testing.T) {
	t.Run("starts the client when disconnected", func(t *testing.T) {
		d := newController(t, false)

		snap, err := d.svc.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, session.Connecting, snap.Status)
		assert.NotEmpty(t, snap.QRCode)
		assert.Equal(t, 1, d.client.connects)
	})

	t.Run("no-op when already connected", func(t *testing.T) {
		d := newController(t, true)

		snap, err := d.svc.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, session.Connected, snap.Status)
		assert.Equal(t, 0, d.client.connects)
	})

	t.Run("client error", func(t *testing.T) {
		d := newController(t, false)
		d.client.err = errors.New("store locked")

		_, err := d.svc.Connect(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connecting client")
	})
}

func TestController_Disconnect(t *testing.T) {
	d := newController(t, true)

	require.NoError(t, d.svc.Disconnect(context.Background()))
	assert.Equal(t, session.Disconnected, d.svc.Status().Status)
	assert.Empty(t, d.svc.Status().SessionID)
	assert.Equal(t, 1, d.client.disconnects)
}

func TestController_SendMessage(t *testing.T) {
	t.Run("sends and logs", func(t *testing.T) {
		d := newController(t, true)
		d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
			return e.ID == "msg-1" &&
				e.Direction == eventlog.Sent &&
				e.PhoneNumber == "5511999999999" &&
				e.Content == "hello" &&
				e.Status == eventlog.Delivered
		})).Return("log-1", nil).Once()

		sent, err := d.svc.SendMessage(context.Background(), "5511999999999", "hello")
		require.NoError(t, err)
		assert.Equal(t, "msg-1", sent.MessageID)
		require.Len(t, d.client.sent, 1)
		assert.Equal(t, "5511999999999@c.us", d.client.sent[0].chatID)
	})

	t.Run("not connected", func(t *testing.T) {
		d := newController(t, false)

		_, err := d.svc.SendMessage(context.Background(), "5511999999999", "hello")
		assert.ErrorIs(t, err, apperr.ErrNotConnected)
		assert.Empty(t, d.client.sent)
	})

	t.Run("missing fields", func(t *testing.T) {
		d := newController(t, true)

		_, err := d.svc.SendMessage(context.Background(), " ", "hello")
		assert.True(t, apperr.IsValidation(err))
		_, err = d.svc.SendMessage(context.Background(), "5511999999999", "")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("log failure does not fail the send", func(t *testing.T) {
		d := newController(t, true)
		d.log.On("AppendMessageLog", mock.Anything, mock.Anything).Return("", errors.New("disk I/O error")).Once()

		sent, err := d.svc.SendMessage(context.Background(), "5511999999999", "hello")
		require.NoError(t, err)
		assert.Equal(t, "msg-1", sent.MessageID)
	})

	t.Run("client failure is not logged", func(t *testing.T) {
		d := newController(t, true)
		d.client.err = errors.New("websocket closed")

		_, err := d.svc.SendMessage(context.Background(), "5511999999999", "hello")
		require.Error(t, err)
		d.log.AssertNotCalled(t, "AppendMessageLog", mock.Anything, mock.Anything)
	})
}

func TestController_SendMedia(t *testing.T) {
	file := session.Upload{Name: "photo.png", ContentType: "image/png", Data: []byte("png")}

	t.Run("stores sends and logs", func(t *testing.T) {
		d := newController(t, true)
		d.media.On("Save", mock.Anything, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, "-photo.png")
		}), "image/png", []byte("png")).Return("uploads/123-abc-photo.png", nil).Once()
		d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
			return e.ID == "media-1" &&
				e.Content == "look" &&
				e.MediaType != nil && *e.MediaType == "image" &&
				e.MediaPath != nil && *e.MediaPath == "uploads/123-abc-photo.png"
		})).Return("log-1", nil).Once()

		sent, err := d.svc.SendMedia(context.Background(), "5511999999999@c.us", "look", file)
		require.NoError(t, err)
		assert.Equal(t, "media-1", sent.MessageID)
		assert.Equal(t, "uploads/123-abc-photo.png", sent.MediaPath)
		require.Len(t, d.client.sent, 1)
		assert.Equal(t, "5511999999999@c.us", d.client.sent[0].chatID)
		assert.Equal(t, "look", d.client.sent[0].caption)
		assert.Equal(t, "photo.png", d.client.sent[0].file)
	})

	t.Run("content defaults to file name", func(t *testing.T) {
		d := newController(t, true)
		d.media.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("uploads/x", nil).Once()
		d.log.On("AppendMessageLog", mock.Anything, eventlog.MatchMessageLog(func(e eventlog.MessageLog) bool {
			return e.Content == "Media file: photo.png"
		})).Return("log-1", nil).Once()

		_, err := d.svc.SendMedia(context.Background(), "5511999999999", "", file)
		require.NoError(t, err)
	})

	t.Run("no file", func(t *testing.T) {
		d := newController(t, true)

		_, err := d.svc.SendMedia(context.Background(), "5511999999999", "", session.Upload{})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), "No media file provided")
	})

	t.Run("not connected", func(t *testing.T) {
		d := newController(t, false)

		_, err := d.svc.SendMedia(context.Background(), "5511999999999", "", file)
		assert.ErrorIs(t, err, apperr.ErrNotConnected)
	})

	t.Run("storage failure", func(t *testing.T) {
		d := newController(t, true)
		d.media.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket missing")).Once()

		_, err := d.svc.SendMedia(context.Background(), "5511999999999", "", file)
		assert.True(t, apperr.IsPersistence(err))
		assert.Empty(t, d.client.sent)
	})
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "5511999999999@c.us", session.ChatID("5511999999999"))
	assert.Equal(t, "5511999999999@c.us", session.ChatID("5511999999999@c.us"))
	assert.Equal(t, "12036302@g.us", session.ChatID("12036302@g.us"))
}
