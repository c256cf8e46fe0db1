package insureAuth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/insureAuth/password"
)

// Config is the engine configuration. Start from DefaultConfig and override
// fields; Builder.Build validates the result.
type Config struct {
	JWT        JWTConfig
	Password   PasswordConfig
	OTP        OTPConfig
	Revocation RevocationConfig
	Cache      CacheConfig
	Security   SecurityConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

type JWTConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

type PasswordConfig struct {
	Algorithm   string // "argon2id" (default) or "bcrypt"
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	BcryptCost  int
	// UpgradeOnLogin re-hashes the stored secret after a successful login
	// when it was produced by another algorithm or weaker parameters.
	UpgradeOnLogin bool
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPKeyMode selects how staged codes are keyed in Redis.
type OTPKeyMode string

const (
	// OTPKeyByCode keys the entry by the code itself, the layout existing
	// deployments write.
	OTPKeyByCode OTPKeyMode = "code"
	// OTPKeyByEmail keys the entry by the lower-cased email so codes are
	// bound to the account they were issued for.
	OTPKeyByEmail OTPKeyMode = "email"
)

type OTPConfig struct {
	TTL                  time.Duration
	KeyMode              OTPKeyMode
	KeyPrefix            string
	ReturnCodeInResponse bool
	MaxSendsPerWindow    int
	MaxVerifyPerWindow   int
	ThrottleWindow       time.Duration
	// ConsumeOnVerify deletes a code once it verifies. Off by default so a
	// code can be checked again until it expires.
	ConsumeOnVerify      bool
}

/*
====================================
REVOCATION / CACHE CONFIG
====================================
*/

type RevocationConfig struct {
	TTL       time.Duration
	KeyPrefix string
	// FailOpen lets requests through when the revocation lookup fails.
	// The default treats the token as revoked.
	FailOpen bool
}

type CacheConfig struct {
	OpTimeout time.Duration
}

/*
====================================
SECURITY CONFIG
====================================
*/

type SecurityConfig struct {
	DefaultRole      Role
	AllowAdminSignup bool
}

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the production defaults. JWT.PrivateKey must still be set.
func DefaultConfig() Config {
	argon := password.DefaultConfig()
	return Config{
		JWT: JWTConfig{
			TTL:           24 * time.Hour,
			SigningMethod: "hs256",
		},
		Password: PasswordConfig{
			Algorithm:      string(password.AlgorithmArgon2id),
			Memory:         argon.Memory,
			Time:           argon.Time,
			Parallelism:    argon.Parallelism,
			SaltLength:     argon.SaltLength,
			KeyLength:      argon.KeyLength,
			BcryptCost:     password.MinBcryptCost,
			UpgradeOnLogin: true,
		},
		OTP: OTPConfig{
			TTL:                  120 * time.Second,
			KeyMode:              OTPKeyByCode,
			KeyPrefix:            "otp:",
			ReturnCodeInResponse: true,
			ThrottleWindow:       15 * time.Minute,
		},
		Revocation: RevocationConfig{
			TTL:       24 * time.Hour,
			KeyPrefix: "rvk:",
		},
		Cache: CacheConfig{
			OpTimeout: 250 * time.Millisecond,
		},
		Security: SecurityConfig{
			DefaultRole:      RoleUser,
			AllowAdminSignup: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c PasswordConfig) argon2() password.Config {
	return password.Config{
		Memory:      c.Memory,
		Time:        c.Time,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be > 0")
	}
	switch strings.ToLower(c.JWT.SigningMethod) {
	case "hs256":
		if len(c.JWT.PrivateKey) == 0 {
			return errors.New("hs256 requires PrivateKey (signing secret)")
		}
		if len(c.JWT.PrivateKey) < 16 {
			return errors.New("hs256 signing secret must be at least 16 bytes")
		}
	case "ed25519":
		if len(c.JWT.PrivateKey) == 0 {
			return errors.New("ed25519 requires PrivateKey")
		}
	default:
		return fmt.Errorf("unsupported JWT signing method %q", c.JWT.SigningMethod)
	}

	// Password
	switch password.Algorithm(c.Password.Algorithm) {
	case password.AlgorithmArgon2id, password.AlgorithmBcrypt:
	default:
		return fmt.Errorf("unsupported password algorithm %q", c.Password.Algorithm)
	}
	if err := c.Password.argon2().Validate(); err != nil {
		return err
	}
	if c.Password.BcryptCost < password.MinBcryptCost {
		return fmt.Errorf("Password BcryptCost must be >= %d", password.MinBcryptCost)
	}

	// OTP
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be > 0")
	}
	if c.OTP.KeyMode != OTPKeyByCode && c.OTP.KeyMode != OTPKeyByEmail {
		return fmt.Errorf("unsupported OTP KeyMode %q", c.OTP.KeyMode)
	}
	if c.OTP.MaxSendsPerWindow < 0 || c.OTP.MaxVerifyPerWindow < 0 {
		return errors.New("OTP throttle limits must be >= 0")
	}
	if (c.OTP.MaxSendsPerWindow > 0 || c.OTP.MaxVerifyPerWindow > 0) && c.OTP.ThrottleWindow <= 0 {
		return errors.New("OTP ThrottleWindow must be > 0 when throttling is enabled")
	}

	// Revocation
	if c.Revocation.TTL <= 0 {
		return errors.New("Revocation TTL must be > 0")
	}
	if c.Revocation.TTL < c.JWT.TTL {
		return errors.New("Revocation TTL must cover the JWT TTL")
	}
	if c.Revocation.KeyPrefix != "" && c.Revocation.KeyPrefix == c.OTP.KeyPrefix {
		return errors.New("Revocation and OTP key prefixes must differ")
	}

	// Cache
	if c.Cache.OpTimeout <= 0 {
		return errors.New("Cache OpTimeout must be > 0")
	}

	// Security
	if !c.Security.DefaultRole.Valid() {
		return fmt.Errorf("Security DefaultRole %q is not a known role", c.Security.DefaultRole)
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
