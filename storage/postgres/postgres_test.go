//go:build !integration

package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* Unit tests with sqlmock
 * They check the SQL issued and the row mapping without a database.
 * The integration tests (-tags=integration) run the same store against a
 * real PostgreSQL container.
 */

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{DB: db}, mock
}

var ts = time.Date(2024, 3, 10, 12, 0, 0, 123456000, time.UTC)

func TestStore_InsertMessageLog_Unit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO message_logs`)).
		WithArgs("msg-1", ts, "received", "5511999999999@c.us", "photo", "delivered", "image", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertMessageLog(context.Background(), eventlog.MessageLog{
		ID:          "msg-1",
		Timestamp:   ts,
		Direction:   eventlog.Received,
		PhoneNumber: "5511999999999@c.us",
		Content:     "photo",
		Status:      eventlog.Delivered,
		MediaType:   eventlog.StringPtr("image"),
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SelectMessageLogs_Unit(t *testing.T) {
	t.Run("maps rows", func(t *testing.T) {
		store, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"id", "timestamp", "type", "phone_number", "content", "status", "media_type", "media_path"}).
			AddRow("msg-2", ts.Add(time.Minute), "sent", "5511", "hi", "delivered", nil, nil).
			AddRow("msg-1", ts, "received", "5522", "photo", "delivered", "image", "uploads/a.jpeg")
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY timestamp DESC, seq DESC LIMIT $1 OFFSET $2`)).
			WithArgs(50, 0).
			WillReturnRows(rows)

		got, err := store.SelectMessageLogs(context.Background(), eventlog.Page{Limit: 50})

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, eventlog.Sent, got[0].Direction)
		assert.Nil(t, got[0].MediaType)
		assert.Equal(t, eventlog.Received, got[1].Direction)
		assert.Equal(t, "image", *got[1].MediaType)
		assert.Equal(t, "uploads/a.jpeg", *got[1].MediaPath)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM message_logs`)).WillReturnError(errors.New("connection reset"))

		_, err := store.SelectMessageLogs(context.Background(), eventlog.Page{Limit: 50})

		assert.ErrorContains(t, err, "selecting message logs")
	})
}

func TestStore_WebhookAttempts_Unit(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO webhook_logs`)).
		WithArgs("a-1", ts, "POST", "http://example.test/hook", 200, "whatsapp-server", `{"type":"webhook_test"}`, `{"ok":true}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.InsertWebhookAttempt(ctx, eventlog.WebhookAttempt{
		ID:        "a-1",
		Timestamp: ts,
		Method:    "POST",
		Endpoint:  "http://example.test/hook",
		Status:    200,
		Source:    "whatsapp-server",
		Payload:   []byte(`{"type":"webhook_test"}`),
		Response:  []byte(`{"ok":true}`),
	}))

	rows := sqlmock.NewRows([]string{"id", "timestamp", "method", "endpoint", "status", "source", "payload", "response"}).
		AddRow("a-1", ts, "POST", "http://example.test/hook", 200, "whatsapp-server", `{"type":"webhook_test"}`, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM webhook_logs`)).WithArgs(10, 5).WillReturnRows(rows)

	got, err := store.SelectWebhookAttempts(ctx, eventlog.Page{Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"type":"webhook_test"}`, string(got[0].Payload))
	assert.Equal(t, "null", string(got[0].Response))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhook_logs`)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.DeleteWebhookAttempts(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Count_Unit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`GREATEST`)).
		WillReturnRows(sqlmock.NewRows([]string{"sent", "received", "media", "webhooks", "last"}).AddRow(2, 3, 1, 4, ts))

	c, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), c.MessagesSent)
	assert.Equal(t, int64(3), c.MessagesReceived)
	assert.Equal(t, int64(1), c.MediaFiles)
	assert.Equal(t, int64(4), c.WebhookEvents)
	require.NotNil(t, c.LastActivity)
	assert.True(t, ts.Equal(*c.LastActivity))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Destination_Unit(t *testing.T) {
	ctx := context.Background()

	t.Run("replace is transactional", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE webhook_config`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhook_config`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO webhook_config`)).
			WithArgs("http://example.test/hook").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		require.NoError(t, store.Replace(ctx, "http://example.test/hook"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE webhook_config`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhook_config`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO webhook_config`)).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.Replace(ctx, "http://example.test/hook")
		assert.ErrorContains(t, err, "inserting webhook destination")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("select active", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM webhook_config`)).
			WillReturnRows(sqlmock.NewRows([]string{"webhook_url", "is_active"}).AddRow("http://example.test/hook", true))

		d, err := store.SelectActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, webhook.Destination{URL: "http://example.test/hook", Active: true}, d)
	})

	t.Run("select empty", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM webhook_config`)).
			WillReturnRows(sqlmock.NewRows([]string{"webhook_url", "is_active"}))

		_, err := store.SelectActive(ctx)
		assert.ErrorIs(t, err, webhook.ErrNotFound)
	})
}
