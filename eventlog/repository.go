package eventlog

import "context"

// Reader provides read operations over both audit tables
type Reader interface {
	/* Lists are ordered by timestamp descending, newest first
	 * The page is already normalized by the caller
	 */
	SelectMessageLogs(ctx context.Context, page Page) ([]MessageLog, error)
	SelectWebhookAttempts(ctx context.Context, page Page) ([]WebhookAttempt, error)
	Count(ctx context.Context) (Counts, error)
}

// Writer provides write operations over both audit tables
type Writer interface {
	InsertMessageLog(ctx context.Context, entry MessageLog) error
	InsertWebhookAttempt(ctx context.Context, attempt WebhookAttempt) error
	DeleteMessageLogs(ctx context.Context) error
	DeleteWebhookAttempts(ctx context.Context) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
