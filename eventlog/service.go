package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/whatsapp-relay/events"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	"github.com/rs/zerolog"
)

// UseCase defines the audit log operations used by the bridge, the
// dispatcher and the admin API
type UseCase interface {
	AppendMessageLog(ctx context.Context, entry MessageLog) (string, error)
	AppendWebhookAttempt(ctx context.Context, attempt WebhookAttempt) (string, error)
	ListMessageLogs(ctx context.Context, page Page) ([]MessageLog, error)
	ListWebhookAttempts(ctx context.Context, page Page) ([]WebhookAttempt, error)
	ClearMessageLogs(ctx context.Context) error
	ClearWebhookAttempts(ctx context.Context) error
	Stats(ctx context.Context) (Counts, error)
}

type Service struct {
	Repo      Repository
	Publisher events.Publisher
	Logger    zerolog.Logger
}

// NewService creates the audit log service. A nil publisher disables the
// event mirror.
func NewService(repo Repository, publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &Service{
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
	}
}

// AppendMessageLog stores a message entry and returns its id. The stored
// timestamp is Canonical(entry.Timestamp).
func (s *Service) AppendMessageLog(ctx context.Context, entry MessageLog) (string, error) {
	if err := entry.Direction.Validate(); err != nil {
		return "", apperr.Validation("direction", err.Error())
	}
	if err := entry.Status.Validate(); err != nil {
		return "", apperr.Validation("status", err.Error())
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Timestamp = Canonical(entry.Timestamp)

	if err := s.Repo.InsertMessageLog(ctx, entry); err != nil {
		return "", apperr.Persistence("inserting message log", err)
	}
	s.publish(ctx, events.TopicMessageLogged, messageLogged{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		Type:        entry.Direction.String(),
		PhoneNumber: entry.PhoneNumber,
		Status:      entry.Status.String(),
		MediaType:   entry.MediaType,
	})
	return entry.ID, nil
}

// AppendWebhookAttempt stores a delivery attempt and returns its id
func (s *Service) AppendWebhookAttempt(ctx context.Context, attempt WebhookAttempt) (string, error) {
	if attempt.Endpoint == "" {
		return "", apperr.Validation("endpoint", "must not be empty")
	}
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.Method == "" {
		attempt.Method = "POST"
	}
	attempt.Timestamp = Canonical(attempt.Timestamp)

	if err := s.Repo.InsertWebhookAttempt(ctx, attempt); err != nil {
		return "", apperr.Persistence("inserting webhook attempt", err)
	}
	s.publish(ctx, events.TopicWebhookAttempted, webhookAttempted{
		ID:        attempt.ID,
		Timestamp: attempt.Timestamp,
		Endpoint:  attempt.Endpoint,
		Status:    attempt.Status,
		Source:    attempt.Source,
	})
	return attempt.ID, nil
}

// ListMessageLogs returns message entries, newest first
func (s *Service) ListMessageLogs(ctx context.Context, page Page) ([]MessageLog, error) {
	all, err := s.Repo.SelectMessageLogs(ctx, page.Normalize())
	if err != nil {
		return nil, apperr.Persistence("selecting message logs", err)
	}
	return all, nil
}

// ListWebhookAttempts returns delivery attempts, newest first
func (s *Service) ListWebhookAttempts(ctx context.Context, page Page) ([]WebhookAttempt, error) {
	all, err := s.Repo.SelectWebhookAttempts(ctx, page.Normalize())
	if err != nil {
		return nil, apperr.Persistence("selecting webhook attempts", err)
	}
	return all, nil
}

func (s *Service) ClearMessageLogs(ctx context.Context) error {
	if err := s.Repo.DeleteMessageLogs(ctx); err != nil {
		return apperr.Persistence("deleting message logs", err)
	}
	s.publish(ctx, events.TopicLogsCleared, events.LogsCleared{Table: "message_logs"})
	return nil
}

func (s *Service) ClearWebhookAttempts(ctx context.Context) error {
	if err := s.Repo.DeleteWebhookAttempts(ctx); err != nil {
		return apperr.Persistence("deleting webhook attempts", err)
	}
	s.publish(ctx, events.TopicLogsCleared, events.LogsCleared{Table: "webhook_logs"})
	return nil
}

// Stats aggregates both tables for the dashboard
func (s *Service) Stats(ctx context.Context) (Counts, error) {
	c, err := s.Repo.Count(ctx)
	if err != nil {
		return Counts{}, apperr.Persistence("counting logs", err)
	}
	return c, nil
}

// publish mirrors a write onto the bus. Failures are logged and never
// surface to the caller.
func (s *Service) publish(ctx context.Context, topic string, payload any) {
	if err := s.Publisher.Publish(ctx, topic, payload); err != nil {
		s.Logger.Warn().Err(err).Str("topic", topic).Msg("publishing audit event")
	}
}

type messageLogged struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	MediaType   *string   `json:"media_type"`
}

type webhookAttempted struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Endpoint  string    `json:"endpoint"`
	Status    int       `json:"status"`
	Source    string    `json:"source"`
}

// Canonical is the stored form of a log timestamp: UTC with microsecond
// precision, the finest both SQL backends keep. Zero times become now.
// Entries whose timestamps are already canonical read back unchanged.
func Canonical(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Microsecond)
}
