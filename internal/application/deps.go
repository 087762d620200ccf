package application

import (
	"context"
	"time"
)

// Cache is the fail-open cache the services invalidate on every mutation.
// Implemented by pkg/cache.RedisCache; faked in tests.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	InvalidatePattern(ctx context.Context, pattern string) int
}

// Notifier enqueues outbound notifications. Implemented by helpers.RabbitPublisher.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// Captioner turns raw image bytes into a free-text description.
// Implemented by vision.Client.
type Captioner interface {
	Describe(ctx context.Context, image []byte, format string) (string, error)
}
