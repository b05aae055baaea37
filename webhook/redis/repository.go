package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of webhook.DestinationRepository
 * The destination lives in a single hash. Replace runs DEL and HSET inside
 * MULTI/EXEC so readers see either the old or the new destination.
 */

const destinationKey = "whatsapp-relay:webhook:destination"

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// SelectActive reads the stored destination
func (r *Repository) SelectActive(ctx context.Context) (webhook.Destination, error) {
	data, err := r.client.HGetAll(ctx, destinationKey).Result()
	if err != nil {
		return webhook.Destination{}, fmt.Errorf("getting webhook destination: %w", err)
	}
	if len(data) == 0 || data["url"] == "" {
		return webhook.Destination{}, webhook.ErrNotFound
	}

	active, err := strconv.ParseBool(data["is_active"])
	if err != nil {
		return webhook.Destination{}, fmt.Errorf("parsing is_active: %w", err)
	}
	if !active {
		return webhook.Destination{}, webhook.ErrNotFound
	}
	return webhook.Destination{URL: data["url"], Active: true}, nil
}

// Replace swaps the stored destination in one transaction
func (r *Repository) Replace(ctx context.Context, url string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, destinationKey)
		pipe.HSet(ctx, destinationKey, map[string]interface{}{
			"url":        url,
			"is_active":  "true",
			"updated_at": time.Now().Unix(),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing webhook destination: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("closing Redis client: %w", err)
	}
	return nil
}
