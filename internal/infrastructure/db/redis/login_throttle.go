package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed login attempts per email in a fixed window,
// backed by Redis. Key format: loginfail:<email>
//
// The window starts at the first failure and is not extended by later ones,
// so a lockout always clears maxAttempts-window after the first miss.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle wraps the given Redis client. Non-positive maxAttempts or
// window disable throttling entirely (Allow always reports true).
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another login attempt for email may proceed.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if t.maxAttempts <= 0 || t.window <= 0 {
		return true, nil
	}

	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < int64(t.maxAttempts), nil
}

// RecordFailure counts one failed attempt. The expiry is set only when the
// counter is created, keeping the window fixed rather than sliding.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	if t.maxAttempts <= 0 || t.window <= 0 {
		return nil
	}

	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("loginfail:%s", email)
}
