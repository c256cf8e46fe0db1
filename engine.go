package insureAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	internalaudit "github.com/MrEthical07/insureAuth/internal/audit"
	"github.com/MrEthical07/insureAuth/internal/limiters"
	"github.com/MrEthical07/insureAuth/internal/stores"
	"github.com/MrEthical07/insureAuth/jwt"
	"github.com/MrEthical07/insureAuth/password"
	"github.com/rs/zerolog"
)

// Engine runs the account and session flows. It is safe for concurrent use
// once returned by Builder.Build.
type Engine struct {
	config      Config
	users       UserStore
	hasher      *password.Multi
	tokens      *jwt.Manager
	otps        *stores.OTPStore
	revocations *stores.RevocationStore
	otpLimiter  *limiters.OTPLimiter
	codeSender  CodeSender
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// Close flushes pending audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// TokenTTL is the lifetime of issued session tokens, used for cookie Max-Age.
func (e *Engine) TokenTTL() time.Duration {
	return e.config.JWT.TTL
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// cacheCtx bounds a single Redis round trip.
func (e *Engine) cacheCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.config.Cache.OpTimeout)
}

// cacheFailure logs err and converts it to ErrCacheUnavailable.
func (e *Engine) cacheFailure(op string, err error) error {
	e.metricInc(MetricCacheFailure)
	e.logger.Error().Err(err).Str("op", op).Msg("cache operation failed")
	return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
}

// storeFailure passes through the store's domain sentinels and converts any
// other failure to ErrStoreUnavailable.
func (e *Engine) storeFailure(op string, err error) error {
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrAccountExists) {
		return err
	}
	e.metricInc(MetricStoreFailure)
	e.logger.Error().Err(err).Str("op", op).Msg("credential store operation failed")
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (e *Engine) findByEmail(ctx context.Context, email string) (*Identity, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, e.storeFailure("find_by_email", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (e *Engine) issueToken(u *Identity) (string, error) {
	token, err := e.tokens.Issue(jwt.Claims{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Income: u.Income,
		Age:    u.Age,
		Role:   string(u.Role),
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("token signing failed")
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// hashFailure maps secret-policy rejections to ErrInvalidInput.
func (e *Engine) hashFailure(err error) error {
	if errors.Is(err, password.ErrSecretTooShort) || errors.Is(err, password.ErrSecretTooLong) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e.logger.Error().Err(err).Msg("password hashing failed")
	return fmt.Errorf("hash secret: %w", err)
}

func publicIdentity(u *Identity) Identity {
	out := *u
	out.SecretHash = ""
	return out
}
