// Package cachetest khởi động Redis thật (testcontainers) cho các test cần StatsCache.
package cachetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"vidtube/internal/cache"
)

const redisPort = nat.Port("6379/tcp")

// StartRedis chạy redis:7-alpine và trả về StatsCache nối tới nó.
// -short hoặc không có Docker => skip.
func StartRedis(t *testing.T, ttl time.Duration) *cache.StatsCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skip integration in -short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{string(redisPort)},
			WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skip integration: cannot start redis container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, redisPort)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())

	stats := cache.NewStatsCacheWithClient(client, ttl)
	t.Cleanup(func() { _ = stats.Close() })
	return stats
}
