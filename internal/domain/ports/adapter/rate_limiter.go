package adapter

import (
	"context"
	"time"
)

// RateLimiter counts events per key inside a fixed window.
type RateLimiter interface {
	// Allow records one event for key and reports whether it is within limit for the
	// current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
