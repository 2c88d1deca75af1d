package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// streamAdder is the part of *redis.Client the publisher uses.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisPublisher appends messages to a Redis stream, trimmed to roughly MaxLen.
type RedisPublisher struct {
	client streamAdder
	stream string
	maxLen int64
	logger *slog.Logger
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher connects to url and checks the connection.
func NewRedisPublisher(ctx context.Context, url, stream string, maxLen int64, logger *slog.Logger) (*RedisPublisher, error) {
	if url == "" || stream == "" {
		return nil, errors.New("redis publisher: url and stream are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis publisher: connection failed: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newRedisPublisher(client, stream, maxLen, logger), nil
}

func newRedisPublisher(c streamAdder, stream string, maxLen int64, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: c,
		stream: stream,
		maxLen: maxLen,
		logger: logger.With("bus", "redis", "stream", stream),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("redis publisher: %w", err)
	}
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{
			"type":  string(msg.Type),
			"event": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("redis publisher: xadd: %w", err)
	}
	p.logger.Debug("Event published", "type", msg.Type, "account", msg.AccountID, "id", id)
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
