package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/marcelsud/whatsapp-relay/eventlog"
)

func (s *Store) InsertWebhookAttempt(ctx context.Context, a eventlog.WebhookAttempt) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO webhook_logs (id, timestamp, method, endpoint, status, source, payload, response)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		formatTime(a.Timestamp),
		a.Method,
		a.Endpoint,
		a.Status,
		a.Source,
		rawText(a.Payload),
		rawText(a.Response),
	)
	if err != nil {
		return fmt.Errorf("inserting webhook attempt: %w", err)
	}
	return nil
}

func (s *Store) SelectWebhookAttempts(ctx context.Context, page eventlog.Page) ([]eventlog.WebhookAttempt, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, timestamp, method, endpoint, status, source, payload, response
		FROM webhook_logs
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ? OFFSET ?`,
		page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting webhook attempts: %w", err)
	}
	defer rows.Close()

	attempts := []eventlog.WebhookAttempt{}
	for rows.Next() {
		var (
			a                 eventlog.WebhookAttempt
			ts                string
			source            sql.NullString
			payload, response sql.NullString
		)
		if err := rows.Scan(&a.ID, &ts, &a.Method, &a.Endpoint, &a.Status, &source, &payload, &response); err != nil {
			return nil, fmt.Errorf("scanning webhook attempt: %w", err)
		}
		if a.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		a.Source = source.String
		a.Payload = rawJSON(payload)
		a.Response = rawJSON(response)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhook attempts: %w", err)
	}
	return attempts, nil
}

func (s *Store) DeleteWebhookAttempts(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM webhook_logs`); err != nil {
		return fmt.Errorf("deleting webhook attempts: %w", err)
	}
	return nil
}

func rawText(m json.RawMessage) any {
	if m == nil {
		return nil
	}
	return string(m)
}

func rawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid {
		return json.RawMessage("null")
	}
	return json.RawMessage(s.String)
}
