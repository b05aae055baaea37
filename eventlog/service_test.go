package eventlog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/eventlog/mocks"
	"github.com/marcelsud/whatsapp-relay/events"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestAppendMessageLog(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		pub := &recordingPublisher{}
		service := eventlog.NewService(repo, pub, zerolog.Nop())

		repo.On("InsertMessageLog", ctx, eventlog.MatchMessageLog(func(m eventlog.MessageLog) bool {
			return m.ID != "" &&
				!m.Timestamp.IsZero() &&
				m.Timestamp.Location() == time.UTC &&
				m.Direction == eventlog.Received &&
				m.PhoneNumber == "5511999999999@c.us" &&
				m.MediaType == nil
		})).Return(nil)

		id, err := service.AppendMessageLog(ctx, eventlog.MessageLog{
			Direction:   eventlog.Received,
			PhoneNumber: "5511999999999@c.us",
			Content:     "hello",
			Status:      eventlog.Delivered,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, []string{events.TopicMessageLogged}, pub.topics)
	})

	t.Run("keeps caller id and truncates to microseconds", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())
		ts := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.FixedZone("BRT", -3*3600))

		repo.On("InsertMessageLog", ctx, eventlog.MatchMessageLog(func(m eventlog.MessageLog) bool {
			return m.ID == "fixed" && m.Timestamp.Equal(ts.Truncate(time.Microsecond))
		})).Return(nil)

		id, err := service.AppendMessageLog(ctx, eventlog.MessageLog{
			ID:        "fixed",
			Timestamp: ts,
			Direction: eventlog.Sent,
			Status:    eventlog.Delivered,
		})

		require.NoError(t, err)
		assert.Equal(t, "fixed", id)
	})

	t.Run("invalid direction", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())

		_, err := service.AppendMessageLog(ctx, eventlog.MessageLog{Status: eventlog.Delivered})

		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		repo.AssertNotCalled(t, "InsertMessageLog", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is a persistence error", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		pub := &recordingPublisher{}
		service := eventlog.NewService(repo, pub, zerolog.Nop())

		repo.On("InsertMessageLog", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := service.AppendMessageLog(ctx, eventlog.MessageLog{
			Direction: eventlog.Sent,
			Status:    eventlog.Delivered,
		})

		require.Error(t, err)
		assert.True(t, apperr.IsPersistence(err))
		assert.Contains(t, err.Error(), "disk full")
		assert.Empty(t, pub.topics)
	})

	t.Run("publish failure does not fail the append", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, &recordingPublisher{err: errors.New("nats down")}, zerolog.Nop())

		repo.On("InsertMessageLog", ctx, mock.Anything).Return(nil)

		_, err := service.AppendMessageLog(ctx, eventlog.MessageLog{
			Direction: eventlog.Sent,
			Status:    eventlog.Delivered,
		})

		require.NoError(t, err)
	})
}

func TestAppendWebhookAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults method", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())

		repo.On("InsertWebhookAttempt", ctx, eventlog.MatchWebhookAttempt(func(a eventlog.WebhookAttempt) bool {
			return a.Method == "POST" && a.Endpoint == "https://example.test/hook" && a.Status == 200
		})).Return(nil)

		id, err := service.AppendWebhookAttempt(ctx, eventlog.WebhookAttempt{
			Endpoint: "https://example.test/hook",
			Status:   200,
			Source:   "whatsapp-server",
			Payload:  []byte(`{"type":"webhook_test"}`),
			Response: []byte(`{"ok":true}`),
		})

		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())

		_, err := service.AppendWebhookAttempt(ctx, eventlog.WebhookAttempt{Status: 200})

		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestListMessageLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default page", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())
		want := []eventlog.MessageLog{{ID: "b"}, {ID: "a"}}

		repo.On("SelectMessageLogs", ctx, eventlog.Page{Limit: 50, Offset: 0}).Return(want, nil)

		got, err := service.ListMessageLogs(ctx, eventlog.Page{Limit: -1, Offset: -5})

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())

		repo.On("SelectMessageLogs", ctx, mock.Anything).Return(nil, errors.New("locked"))

		_, err := service.ListMessageLogs(ctx, eventlog.Page{})

		require.Error(t, err)
		assert.True(t, apperr.IsPersistence(err))
	})
}

func TestListWebhookAttempts(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	service := eventlog.NewService(repo, nil, zerolog.Nop())

	repo.On("SelectWebhookAttempts", ctx, eventlog.Page{Limit: 10, Offset: 20}).Return([]eventlog.WebhookAttempt{}, nil)

	got, err := service.ListWebhookAttempts(ctx, eventlog.Page{Limit: 10, Offset: 20})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	t.Run("message logs", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		pub := &recordingPublisher{}
		service := eventlog.NewService(repo, pub, zerolog.Nop())

		repo.On("DeleteMessageLogs", ctx).Return(nil)

		require.NoError(t, service.ClearMessageLogs(ctx))
		assert.Equal(t, []string{events.TopicLogsCleared}, pub.topics)
	})

	t.Run("webhook attempts failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := eventlog.NewService(repo, nil, zerolog.Nop())

		repo.On("DeleteWebhookAttempts", ctx).Return(errors.New("readonly"))

		err := service.ClearWebhookAttempts(ctx)
		require.Error(t, err)
		assert.True(t, apperr.IsPersistence(err))
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	service := eventlog.NewService(repo, nil, zerolog.Nop())
	want := eventlog.Counts{MessagesSent: 3, MessagesReceived: 5, MediaFiles: 1, WebhookEvents: 7}

	repo.On("Count", ctx).Return(want, nil)

	got, err := service.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnums(t *testing.T) {
	for _, d := range []eventlog.Direction{eventlog.Sent, eventlog.Received} {
		assert.Equal(t, d, eventlog.NewDirection(d.String()))
		assert.NoError(t, d.Validate())
	}
	for _, s := range []eventlog.DeliveryStatus{eventlog.Delivered, eventlog.Pending, eventlog.Failed} {
		assert.Equal(t, s, eventlog.NewDeliveryStatus(s.String()))
		assert.NoError(t, s.Validate())
	}
	assert.Error(t, eventlog.NewDirection("sideways").Validate())
	assert.Error(t, eventlog.NewDeliveryStatus("lost").Validate())
}

func TestCanonical(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.FixedZone("BRT", -3*3600))

	got := eventlog.Canonical(ts)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123456000, got.Nanosecond())
	assert.True(t, got.Equal(ts.Truncate(time.Microsecond)))
	assert.Equal(t, got, eventlog.Canonical(got))

	assert.False(t, eventlog.Canonical(time.Time{}).IsZero())
}
