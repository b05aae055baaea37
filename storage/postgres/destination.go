package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcelsud/whatsapp-relay/webhook"
)

func (s *Store) SelectActive(ctx context.Context) (webhook.Destination, error) {
	var d webhook.Destination
	err := s.DB.QueryRowContext(ctx,
		`SELECT webhook_url, is_active FROM webhook_config WHERE is_active ORDER BY id DESC LIMIT 1`,
	).Scan(&d.URL, &d.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return webhook.Destination{}, webhook.ErrNotFound
	}
	if err != nil {
		return webhook.Destination{}, fmt.Errorf("selecting webhook destination: %w", err)
	}
	return d, nil
}

// Replace deletes every destination row and inserts url in one transaction
func (s *Store) Replace(ctx context.Context, url string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// serializes writers from other processes; readers are not blocked
	if _, err := tx.ExecContext(ctx, `LOCK TABLE webhook_config IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("locking webhook_config: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM webhook_config`); err != nil {
		return fmt.Errorf("deleting webhook destinations: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO webhook_config (webhook_url, is_active) VALUES ($1, TRUE)`, url,
	); err != nil {
		return fmt.Errorf("inserting webhook destination: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
