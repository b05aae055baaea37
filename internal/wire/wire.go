// Package wire opens the backends selected by configuration. It is shared
// by the server and the admin CLI so both always see the same data.
package wire

import (
	"context"
	"fmt"

	"github.com/marcelsud/whatsapp-relay/config"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/events"
	"github.com/marcelsud/whatsapp-relay/media"
	"github.com/marcelsud/whatsapp-relay/media/local"
	"github.com/marcelsud/whatsapp-relay/media/s3"
	"github.com/marcelsud/whatsapp-relay/storage/postgres"
	"github.com/marcelsud/whatsapp-relay/storage/sqlite"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/marcelsud/whatsapp-relay/webhook/redis"
)

// Store is a SQL backend holding the logs and the destination table
type Store interface {
	eventlog.Repository
	webhook.DestinationRepository
}

// OpenStore opens the configured SQL backend and applies migrations
func OpenStore(cfg *config.Config) (Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		s, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store %s: %w", cfg.DatabasePath, err)
		}
		return s, nil
	}
}

// OpenDestinations returns the destination repository. The SQL backend
// reuses store; the redis backend opens its own connection.
func OpenDestinations(cfg *config.Config, store Store) (webhook.DestinationRepository, error) {
	if cfg.RegistryBackend != "redis" {
		return store, nil
	}
	r, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("opening redis registry: %w", err)
	}
	return r, nil
}

// OpenMedia returns the blob store for attachments
func OpenMedia(ctx context.Context, cfg *config.Config) (media.Store, error) {
	switch cfg.MediaBackend {
	case "s3":
		s, err := s3.New(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("opening s3 media store: %w", err)
		}
		return s, nil
	default:
		s, err := local.New(cfg.UploadsDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// OpenPublisher connects to NATS when NATS_URL is set
func OpenPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	p, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	return p, nil
}
