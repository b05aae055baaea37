// Package whatsmeow adapts go.mau.fi/whatsmeow to session.Client. Device
// credentials are kept in a SQLite file so a paired phone survives restarts.
package whatsmeow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/marcelsud/whatsapp-relay/media"
	"github.com/marcelsud/whatsapp-relay/session"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

var errNotStarted = errors.New("whatsmeow client not started")

/* Client drives one whatsmeow device
 * Callbacks are translated to session.ClientEvent and pushed into sink in
 * the order whatsmeow reports them. A logged out device is dropped and a
 * fresh one is paired on the next Connect.
 */
type Client struct {
	container *sqlstore.Container
	sink      chan<- session.ClientEvent
	logger    zerolog.Logger

	mu   sync.Mutex
	wa   *whatsmeow.Client
	done chan struct{}
}

// New opens the device store at storePath
func New(ctx context.Context, storePath string, sink chan<- session.ClientEvent, logger zerolog.Logger) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating device store directory: %w", err)
	}
	dsn := "file:" + storePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	container, err := sqlstore.New(ctx, "sqlite", dsn, waLog.Zerolog(logger.With().Str("component", "whatsmeow-store").Logger()))
	if err != nil {
		return nil, fmt.Errorf("opening device store: %w", err)
	}
	return &Client{
		container: container,
		sink:      sink,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Connect starts pairing for a new device or resumes a stored one
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wa != nil && c.wa.IsConnected() {
		return nil
	}
	if c.wa == nil {
		device, err := c.container.GetFirstDevice(ctx)
		if err != nil {
			return fmt.Errorf("loading device: %w", err)
		}
		c.wa = whatsmeow.NewClient(device, waLog.Zerolog(c.logger.With().Str("component", "whatsmeow").Logger()))
		c.wa.AddEventHandler(c.handle)
	}

	if c.wa.Store.ID == nil {
		// the QR channel lives as long as pairing, not the caller's request
		qrChan, err := c.wa.GetQRChannel(context.Background())
		if err != nil {
			return fmt.Errorf("opening qr channel: %w", err)
		}
		go c.forwardQR(qrChan)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	return nil
}

// Disconnect closes the websocket and keeps the device paired
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wa != nil {
		c.wa.Disconnect()
	}
	return nil
}

// Close disconnects and releases the device store
func (c *Client) Close() error {
	c.mu.Lock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.wa != nil {
		c.wa.Disconnect()
	}
	c.mu.Unlock()

	if err := c.container.Close(); err != nil {
		return fmt.Errorf("closing device store: %w", err)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chatID, text string) (string, error) {
	wa, err := c.client()
	if err != nil {
		return "", err
	}
	to, err := JID(chatID)
	if err != nil {
		return "", err
	}
	resp, err := wa.SendMessage(ctx, to, &waE2E.Message{Conversation: proto.String(text)})
	if err != nil {
		return "", fmt.Errorf("sending text to %s: %w", to, err)
	}
	return resp.ID, nil
}

func (c *Client) SendMedia(ctx context.Context, chatID string, att session.Attachment, fileName, caption string) (string, error) {
	wa, err := c.client()
	if err != nil {
		return "", err
	}
	to, err := JID(chatID)
	if err != nil {
		return "", err
	}

	kind := MediaKind(att.MimeType)
	up, err := wa.Upload(ctx, att.Data, kind)
	if err != nil {
		return "", fmt.Errorf("uploading media: %w", err)
	}
	msg := mediaMessage(kind, up, att.MimeType, fileName, caption)

	resp, err := wa.SendMessage(ctx, to, msg)
	if err != nil {
		return "", fmt.Errorf("sending media to %s: %w", to, err)
	}
	return resp.ID, nil
}

func (c *Client) client() (*whatsmeow.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wa == nil {
		return nil, errNotStarted
	}
	return c.wa, nil
}

func (c *Client) forwardQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch item.Event {
		case "code":
			c.emit(session.ClientEvent{Type: session.EventQR, QR: item.Code})
		case "success":
			c.logger.Info().Msg("device paired")
		default:
			c.logger.Warn().Str("event", item.Event).Msg("pairing ended")
			c.emit(session.ClientEvent{Type: session.EventDisconnected, Reason: "pairing " + item.Event})
		}
	}
}

func (c *Client) handle(evt any) {
	switch v := evt.(type) {
	case *events.Connected:
		c.emit(session.ClientEvent{Type: session.EventReady})
	case *events.Disconnected:
		c.emit(session.ClientEvent{Type: session.EventDisconnected, Reason: "connection lost"})
	case *events.LoggedOut:
		c.mu.Lock()
		c.wa = nil
		c.mu.Unlock()
		c.emit(session.ClientEvent{Type: session.EventDisconnected, Reason: "logged out: " + v.Reason.String()})
	case *events.Message:
		c.emitMessage(v)
	}
}

func (c *Client) emitMessage(v *events.Message) {
	msg := &session.IncomingMessage{
		ID:        v.Info.ID,
		Body:      Text(v.Message),
		Timestamp: v.Info.Timestamp,
		FromMe:    v.Info.IsFromMe,
	}
	chat := ChatID(v.Info.Chat)
	if v.Info.IsFromMe {
		msg.To = chat
	} else {
		msg.From = chat
	}

	if m := downloadable(v.Message); m != nil {
		msg.HasMedia = true
		msg.Download = func(ctx context.Context) (session.Attachment, error) {
			wa, err := c.client()
			if err != nil {
				return session.Attachment{}, err
			}
			data, err := wa.Download(ctx, m)
			if err != nil {
				return session.Attachment{}, fmt.Errorf("downloading media: %w", err)
			}
			return session.Attachment{MimeType: m.GetMimetype(), Data: data}, nil
		}
	}

	typ := session.EventMessage
	if v.Info.IsFromMe {
		typ = session.EventMessageCreate
	}
	c.emit(session.ClientEvent{Type: typ, Message: msg})
}

// emit blocks while the bridge queue is full, unless the client is closed
func (c *Client) emit(ev session.ClientEvent) {
	select {
	case c.sink <- ev:
	case <-c.done:
	}
}

type mediaMessageWithMime interface {
	whatsmeow.DownloadableMessage
	GetMimetype() string
}

func downloadable(m *waE2E.Message) mediaMessageWithMime {
	switch {
	case m.GetImageMessage() != nil:
		return m.GetImageMessage()
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage()
	case m.GetAudioMessage() != nil:
		return m.GetAudioMessage()
	case m.GetDocumentMessage() != nil:
		return m.GetDocumentMessage()
	case m.GetStickerMessage() != nil:
		return m.GetStickerMessage()
	}
	return nil
}

// Text returns the text body or caption of a message
func Text(m *waE2E.Message) string {
	switch {
	case m.GetConversation() != "":
		return m.GetConversation()
	case m.GetExtendedTextMessage() != nil:
		return m.GetExtendedTextMessage().GetText()
	case m.GetImageMessage() != nil:
		return m.GetImageMessage().GetCaption()
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage().GetCaption()
	case m.GetDocumentMessage() != nil:
		return m.GetDocumentMessage().GetCaption()
	}
	return ""
}

// MediaKind picks the upload type for a MIME type
func MediaKind(mimeType string) whatsmeow.MediaType {
	switch media.Major(mimeType) {
	case "image":
		return whatsmeow.MediaImage
	case "video":
		return whatsmeow.MediaVideo
	case "audio":
		return whatsmeow.MediaAudio
	default:
		return whatsmeow.MediaDocument
	}
}

func mediaMessage(kind whatsmeow.MediaType, up whatsmeow.UploadResponse, mimeType, fileName, caption string) *waE2E.Message {
	switch kind {
	case whatsmeow.MediaImage:
		return &waE2E.Message{ImageMessage: &waE2E.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
		}}
	case whatsmeow.MediaVideo:
		return &waE2E.Message{VideoMessage: &waE2E.VideoMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
		}}
	case whatsmeow.MediaAudio:
		return &waE2E.Message{AudioMessage: &waE2E.AudioMessage{
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
		}}
	default:
		return &waE2E.Message{DocumentMessage: &waE2E.DocumentMessage{
			Caption:       proto.String(caption),
			Title:         proto.String(fileName),
			FileName:      proto.String(fileName),
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
		}}
	}
}

// JID converts a relay chat id ("<phone>@c.us", "<id>@g.us") to a whatsmeow JID
func JID(chatID string) (types.JID, error) {
	user, server, ok := strings.Cut(chatID, "@")
	if !ok {
		return types.NewJID(user, types.DefaultUserServer), nil
	}
	switch server {
	case "c.us":
		return types.NewJID(user, types.DefaultUserServer), nil
	case types.GroupServer:
		return types.NewJID(user, types.GroupServer), nil
	}
	jid, err := types.ParseJID(chatID)
	if err != nil {
		return types.JID{}, fmt.Errorf("parsing chat id %q: %w", chatID, err)
	}
	return jid, nil
}

// ChatID converts a whatsmeow JID to the relay chat id format
func ChatID(jid types.JID) string {
	if jid.Server == types.DefaultUserServer {
		return jid.User + session.ChatSuffix
	}
	return jid.String()
}
