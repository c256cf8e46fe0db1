package limiters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPRateLimited      = errors.New("otp rate limited")
	ErrOTPRedisUnavailable = errors.New("otp limiter redis unavailable")
)

type OTPConfig struct {
	MaxSends  int
	MaxVerify int
	Window    time.Duration
	Prefix    string
}

type OTPLimiter struct {
	redis  redis.UniversalClient
	config OTPConfig
}

func NewOTPLimiter(redisClient redis.UniversalClient, cfg OTPConfig) *OTPLimiter {
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "otpl:"
	}
	return &OTPLimiter{redis: redisClient, config: cfg}
}

func (l *OTPLimiter) CheckSend(ctx context.Context, email string) error {
	if l == nil || l.config.MaxSends <= 0 {
		return nil
	}
	return l.enforceFixedWindow(ctx, l.config.Prefix+"s:"+normalizeEmail(email), l.config.MaxSends)
}

func (l *OTPLimiter) CheckVerify(ctx context.Context, email string) error {
	if l == nil || l.config.MaxVerify <= 0 {
		return nil
	}
	return l.enforceFixedWindow(ctx, l.config.Prefix+"v:"+normalizeEmail(email), l.config.MaxVerify)
}

// Window reports the throttle window, used as the Retry-After hint.
func (l *OTPLimiter) Window() time.Duration {
	if l == nil {
		return 0
	}
	return l.config.Window
}

func (l *OTPLimiter) enforceFixedWindow(ctx context.Context, key string, limit int) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOTPRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrOTPRedisUnavailable, err)
		}
	}

	if count > int64(limit) {
		return ErrOTPRateLimited
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
