//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/marcelsud/whatsapp-relay/webhook/redis"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// SetupRedisContainer starts a throwaway Redis and returns its address
func SetupRedisContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	container, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}
	return strings.TrimPrefix(addr, "redis://"), cleanup
}

// CreateTestRepository connects a repository to addr
func CreateTestRepository(t *testing.T, addr string) *redis.Repository {
	t.Helper()

	repo, err := redis.NewRepository(addr, "", 0)
	require.NoError(t, err, "failed to create Redis repository")
	return repo
}
