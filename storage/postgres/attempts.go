package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marcelsud/whatsapp-relay/eventlog"
)

func (s *Store) InsertWebhookAttempt(ctx context.Context, a eventlog.WebhookAttempt) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO webhook_logs (id, timestamp, method, endpoint, status, source, payload, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID,
		a.Timestamp.UTC(),
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
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, timestamp, method, endpoint, status, COALESCE(source, ''), payload, response
		FROM webhook_logs
		ORDER BY timestamp DESC, seq DESC
		LIMIT $1 OFFSET $2`,
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
			payload, response []byte
		)
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.Method, &a.Endpoint, &a.Status, &a.Source, &payload, &response); err != nil {
			return nil, fmt.Errorf("scanning webhook attempt: %w", err)
		}
		a.Timestamp = a.Timestamp.UTC()
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

func rawJSON(b []byte) json.RawMessage {
	if b == nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
