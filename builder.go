package insureAuth

import (
	"errors"
	"strings"
	"time"

	internalaudit "github.com/MrEthical07/insureAuth/internal/audit"
	"github.com/MrEthical07/insureAuth/internal/limiters"
	"github.com/MrEthical07/insureAuth/internal/stores"
	"github.com/MrEthical07/insureAuth/jwt"
	"github.com/MrEthical07/insureAuth/password"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Builder assembles an Engine. A Builder can be used for a single Build.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	users      UserStore
	auditSink  AuditSink
	codeSender CodeSender
	logger     *zerolog.Logger
	now        func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the cache shared by the OTP, revocation and throttle stores.
//
// Every cache call is bounded by Cache.OpTimeout through its context. go-redis
// only honors context deadlines on socket reads and writes when the client
// was built with ContextTimeoutEnabled set; without it a hung server holds
// each call for the client's ReadTimeout instead.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithCodeSender delivers staged one-time codes out of band.
func (b *Builder) WithCodeSender(sender CodeSender) *Builder {
	b.codeSender = sender
	return b
}

func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithClock overrides the time source used for token timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. It fails when the
// signing key, cache or user store is missing.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}
	if !cfg.OTP.ReturnCodeInResponse && b.codeSender == nil {
		return nil, errors.New("code sender required when OTP.ReturnCodeInResponse is false")
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	logger := zerolog.Nop()
	if b.logger != nil {
		logger = b.logger.With().Str("component", "insureauth").Logger()
	}

	if !contextTimeoutEnabled(b.redis) {
		logger.Warn().Msg("redis client has ContextTimeoutEnabled unset; cache calls may outlive Cache.OpTimeout")
	}

	hasher, err := password.NewMulti(password.Algorithm(cfg.Password.Algorithm), cfg.Password.argon2(), cfg.Password.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.JWT.TTL,
		SigningMethod: jwt.SigningMethod(strings.ToLower(cfg.JWT.SigningMethod)),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		users:       b.users,
		hasher:      hasher,
		tokens:      tokens,
		otps:        stores.NewOTPStore(b.redis, cfg.OTP.KeyPrefix),
		revocations: stores.NewRevocationStore(b.redis, cfg.Revocation.KeyPrefix),
		codeSender:  b.codeSender,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
		now:     now,
	}
	if cfg.OTP.MaxSendsPerWindow > 0 || cfg.OTP.MaxVerifyPerWindow > 0 {
		engine.otpLimiter = limiters.NewOTPLimiter(b.redis, limiters.OTPConfig{
			MaxSends:  cfg.OTP.MaxSendsPerWindow,
			MaxVerify: cfg.OTP.MaxVerifyPerWindow,
			Window:    cfg.OTP.ThrottleWindow,
		})
	}

	b.built = true

	return engine, nil
}

func contextTimeoutEnabled(client redis.UniversalClient) bool {
	switch c := client.(type) {
	case *redis.Client:
		return c.Options().ContextTimeoutEnabled
	case *redis.ClusterClient:
		return c.Options().ContextTimeoutEnabled
	}
	return true
}
