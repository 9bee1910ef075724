package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ClientConfig holds Redis connection settings.
type ClientConfig struct {
	URL string
	// PingAttempts bounds the startup ping retries. Zero means one attempt.
	PingAttempts uint64
	PingInterval time.Duration
}

// NewClient creates a new Redis client and verifies it with a single ping.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithConfig(ctx, ClientConfig{URL: redisURL}, zerolog.Nop())
}

// NewClientWithConfig creates a client and pings it, retrying with a
// constant interval while the server is still coming up.
func NewClientWithConfig(ctx context.Context, cfg ClientConfig, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	interval := cfg.PingInterval
	if interval <= 0 {
		interval = time.Second
	}

	var policy backoff.BackOff = backoff.NewConstantBackOff(interval)
	policy = backoff.WithMaxRetries(policy, cfg.PingAttempts)

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).Dur("retry_in", wait).Str("addr", opts.Addr).Msg("redis not ready")
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
