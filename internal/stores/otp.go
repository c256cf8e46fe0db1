package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPNotFound         = errors.New("otp not found")
	ErrOTPRedisUnavailable = errors.New("otp redis unavailable")
)

// OTPStore stages one-time codes under prefix+key with a TTL.
type OTPStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewOTPStore returns a store writing keys as prefix+key. An empty prefix
// writes the bare key.
func NewOTPStore(redisClient redis.UniversalClient, prefix string) *OTPStore {
	return &OTPStore{redis: redisClient, prefix: prefix}
}

func (s *OTPStore) key(k string) string {
	return s.prefix + k
}

// Stage stores code under key, replacing any previous value.
func (s *OTPStore) Stage(ctx context.Context, key, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("otp ttl must be > 0")
	}
	if err := s.redis.Set(ctx, s.key(key), code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrOTPRedisUnavailable, err)
	}
	return nil
}

// Lookup returns the code staged under key.
func (s *OTPStore) Lookup(ctx context.Context, key string) (string, error) {
	code, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrOTPRedisUnavailable, err)
	}
	return code, nil
}

// Discard removes the entry under key. Missing keys are not an error.
func (s *OTPStore) Discard(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrOTPRedisUnavailable, err)
	}
	return nil
}
