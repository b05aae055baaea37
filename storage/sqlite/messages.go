package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marcelsud/whatsapp-relay/eventlog"
)

func (s *Store) InsertMessageLog(ctx context.Context, m eventlog.MessageLog) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO message_logs (id, timestamp, type, phone_number, content, status, media_type, media_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		formatTime(m.Timestamp),
		m.Direction.String(),
		m.PhoneNumber,
		m.Content,
		m.Status.String(),
		m.MediaType,
		m.MediaPath,
	)
	if err != nil {
		return fmt.Errorf("inserting message log: %w", err)
	}
	return nil
}

func (s *Store) SelectMessageLogs(ctx context.Context, page eventlog.Page) ([]eventlog.MessageLog, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, timestamp, type, phone_number, content, status, media_type, media_path
		FROM message_logs
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ? OFFSET ?`,
		page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting message logs: %w", err)
	}
	defer rows.Close()

	logs := []eventlog.MessageLog{}
	for rows.Next() {
		var (
			m                    eventlog.MessageLog
			ts, kind, status     string
			phone, content       sql.NullString
			mediaType, mediaPath sql.NullString
		)
		if err := rows.Scan(&m.ID, &ts, &kind, &phone, &content, &status, &mediaType, &mediaPath); err != nil {
			return nil, fmt.Errorf("scanning message log: %w", err)
		}
		if m.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		m.Direction = eventlog.NewDirection(kind)
		m.Status = eventlog.NewDeliveryStatus(status)
		m.PhoneNumber = phone.String
		m.Content = content.String
		m.MediaType = nullable(mediaType)
		m.MediaPath = nullable(mediaPath)
		logs = append(logs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message logs: %w", err)
	}
	return logs, nil
}

func (s *Store) DeleteMessageLogs(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM message_logs`); err != nil {
		return fmt.Errorf("deleting message logs: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (eventlog.Counts, error) {
	var (
		c    eventlog.Counts
		last sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM message_logs WHERE type = 'sent'),
			(SELECT COUNT(*) FROM message_logs WHERE type = 'received'),
			(SELECT COUNT(*) FROM message_logs WHERE media_type IS NOT NULL),
			(SELECT COUNT(*) FROM webhook_logs),
			(SELECT MAX(ts) FROM (
				SELECT MAX(timestamp) AS ts FROM message_logs
				UNION ALL
				SELECT MAX(timestamp) FROM webhook_logs
			))`,
	).Scan(&c.MessagesSent, &c.MessagesReceived, &c.MediaFiles, &c.WebhookEvents, &last)
	if err != nil {
		return eventlog.Counts{}, fmt.Errorf("counting logs: %w", err)
	}
	if last.Valid {
		t, err := parseTime(last.String)
		if err != nil {
			return eventlog.Counts{}, err
		}
		c.LastActivity = &t
	}
	return c, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
