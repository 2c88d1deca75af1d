//go:build integration

package eventbus

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	url := "redis://" + host + ":" + port.Port()

	p, err := NewRedisPublisher(ctx, url, "ledger:test", 100, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Publish(ctx, sampleMessage()))

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close() //nolint:errcheck

	entries, err := client.XRange(ctx, "ledger:test", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg, err := Decode([]byte(entries[0].Values["event"].(string)))
	require.NoError(t, err)
	require.Equal(t, "acc-1", msg.AccountID)
}
