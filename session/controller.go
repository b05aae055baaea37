package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	"github.com/marcelsud/whatsapp-relay/media"
	"github.com/rs/zerolog"
)

// ChatSuffix is the chat id suffix appended to bare phone numbers
const ChatSuffix = "@c.us"

// Upload is a file submitted for sending
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Sent describes an outbound message accepted by the client
type Sent struct {
	MessageID string
	MediaPath string
}

// Controller defines the connection and outbound operations of the admin surface
type Controller interface {
	Connect(ctx context.Context) (Snapshot, error)
	Disconnect(ctx context.Context) error
	Status() Snapshot
	SendMessage(ctx context.Context, phone, text string) (Sent, error)
	SendMedia(ctx context.Context, phone, caption string, file Upload) (Sent, error)
}

type Service struct {
	Client Client
	State  *State
	Log    MessageLogger
	Media  media.Store
	Logger zerolog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewService(client Client, state *State, log MessageLogger, store media.Store, logger zerolog.Logger) *Service {
	return &Service{
		Client: client,
		State:  state,
		Log:    log,
		Media:  store,
		Logger: logger,
		now:    time.Now,
	}
}

// Status returns the current connection state
func (s *Service) Status() Snapshot {
	return s.State.Snapshot()
}

// Connect starts the client when it is disconnected. Otherwise it returns
// the current state unchanged.
func (s *Service) Connect(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap := s.State.Snapshot(); snap.Status != Disconnected {
		return snap, nil
	}
	if err := s.Client.Connect(ctx); err != nil {
		return s.State.Snapshot(), fmt.Errorf("connecting client: %w", err)
	}
	return s.State.Snapshot(), nil
}

// Disconnect tears the client down and forces the state to disconnected
func (s *Service) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting client: %w", err)
	}
	s.State.Disconnected()
	return nil
}

// SendMessage sends a text message and logs it as sent
func (s *Service) SendMessage(ctx context.Context, phone, text string) (Sent, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || text == "" {
		return Sent{}, apperr.Validation("", "Phone number and message are required")
	}
	if s.State.Snapshot().Status != Connected {
		return Sent{}, apperr.ErrNotConnected
	}

	id, err := s.Client.SendText(ctx, ChatID(phone), text)
	if err != nil {
		return Sent{}, fmt.Errorf("sending message: %w", err)
	}
	s.logSent(ctx, eventlog.MessageLog{
		ID:          id,
		Direction:   eventlog.Sent,
		PhoneNumber: phone,
		Content:     text,
		Status:      eventlog.Delivered,
	})
	return Sent{MessageID: id}, nil
}

// SendMedia stores the upload, sends it with an optional caption and logs it as sent
func (s *Service) SendMedia(ctx context.Context, phone, caption string, file Upload) (Sent, error) {
	if len(file.Data) == 0 {
		return Sent{}, apperr.Validation("media", "No media file provided")
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return Sent{}, apperr.Validation("phoneNumber", "Phone number is required")
	}
	if s.State.Snapshot().Status != Connected {
		return Sent{}, apperr.ErrNotConnected
	}

	name, err := media.Upload(s.now(), file.Name)
	if err != nil {
		return Sent{}, err
	}
	location, err := s.Media.Save(ctx, name, file.ContentType, file.Data)
	if err != nil {
		return Sent{}, apperr.Persistence("storing upload", err)
	}

	att := Attachment{MimeType: file.ContentType, Data: file.Data}
	id, err := s.Client.SendMedia(ctx, ChatID(phone), att, file.Name, caption)
	if err != nil {
		return Sent{}, fmt.Errorf("sending media: %w", err)
	}

	content := caption
	if content == "" {
		content = "Media file: " + file.Name
	}
	s.logSent(ctx, eventlog.MessageLog{
		ID:          id,
		Direction:   eventlog.Sent,
		PhoneNumber: phone,
		Content:     content,
		Status:      eventlog.Delivered,
		MediaType:   eventlog.StringPtr(media.Major(file.ContentType)),
		MediaPath:   eventlog.StringPtr(location),
	})
	return Sent{MessageID: id, MediaPath: location}, nil
}

// the message is already out, a failed log write must not fail the send
func (s *Service) logSent(ctx context.Context, entry eventlog.MessageLog) {
	if _, err := s.Log.AppendMessageLog(ctx, entry); err != nil {
		s.Logger.Error().Err(err).Str("phone_number", entry.PhoneNumber).Msg("logging sent message")
	}
}

// ChatID appends ChatSuffix to a bare phone number
func ChatID(phone string) string {
	if strings.Contains(phone, "@") {
		return phone
	}
	return phone + ChatSuffix
}

