// Package config loads process settings from the environment and an optional
// .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/delivery"
	"github.com/spf13/viper"
)

// Config holds the server's process configuration.
type Config struct {
	Port    string `mapstructure:"PORT"`
	AppName string `mapstructure:"APP_NAME"`
	// Env is the deployment environment, e.g. "development" or "production".
	Env string `mapstructure:"APP_ENV"`

	// DatabaseURL is the Postgres DSN. Empty selects the in-memory user store.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBMaxConns    int    `mapstructure:"DB_MAX_CONNS"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`

	RedisURL       string        `mapstructure:"REDIS_URL"`
	CacheOpTimeout time.Duration `mapstructure:"CACHE_OP_TIMEOUT"`

	// JWTSecret signs session tokens. Required.
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	JWTIssuer         string        `mapstructure:"JWT_ISSUER"`
	PasswordAlgorithm string        `mapstructure:"PASSWORD_ALGORITHM"`
	BcryptCost        int           `mapstructure:"BCRYPT_COST"`

	OTPTTL          time.Duration `mapstructure:"OTP_TTL"`
	OTPKeyMode      string        `mapstructure:"OTP_KEY_MODE"`
	OTPReturnCode   bool          `mapstructure:"OTP_RETURN_CODE"`
	OTPMaxSends     int           `mapstructure:"OTP_MAX_SENDS"`
	OTPMaxVerify    int           `mapstructure:"OTP_MAX_VERIFY"`
	OTPThrottleSpan time.Duration `mapstructure:"OTP_THROTTLE_WINDOW"`
	OTPConsume      bool          `mapstructure:"OTP_CONSUME_ON_VERIFY"`
	// OTPDelivery is "none", "console" or "smtp".
	OTPDelivery string `mapstructure:"OTP_DELIVERY"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPAccount  string `mapstructure:"SMTP_ACCOUNT"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	RevocationFailOpen bool `mapstructure:"REVOCATION_FAIL_OPEN"`

	CORSOrigin   string `mapstructure:"CORS_ORIGIN"`
	CookieSecure bool   `mapstructure:"COOKIE_SECURE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	AuditEnabled    bool          `mapstructure:"AUDIT_ENABLED"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// OTP_DELIVERY values.
const (
	DeliveryNone    = "none"
	DeliveryConsole = "console"
	DeliverySMTP    = "smtp"
)

var defaults = map[string]any{
	"PORT":                  "4000",
	"APP_NAME":              "insureauth",
	"APP_ENV":               "development",
	"DATABASE_URL":          "",
	"DB_MAX_CONNS":          10,
	"RUN_MIGRATIONS":        true,
	"REDIS_URL":             "redis://localhost:6379/0",
	"CACHE_OP_TIMEOUT":      "250ms",
	"JWT_SECRET":            "",
	"JWT_TTL":               "24h",
	"JWT_ISSUER":            "",
	"PASSWORD_ALGORITHM":    "argon2id",
	"BCRYPT_COST":           10,
	"OTP_TTL":               "120s",
	"OTP_KEY_MODE":          "code",
	"OTP_RETURN_CODE":       true,
	"OTP_MAX_SENDS":         0,
	"OTP_MAX_VERIFY":        0,
	"OTP_THROTTLE_WINDOW":   "15m",
	"OTP_CONSUME_ON_VERIFY": false,
	"OTP_DELIVERY":          DeliveryNone,
	"SMTP_HOST":             "",
	"SMTP_PORT":             "587",
	"SMTP_ACCOUNT":          "",
	"SMTP_PASSWORD":         "",
	"SMTP_FROM":             "",
	"REVOCATION_FAIL_OPEN":  false,
	"CORS_ORIGIN":           "http://localhost:5173",
	"COOKIE_SECURE":         false,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"AUDIT_ENABLED":         true,
	"METRICS_ENABLED":       true,
	"SHUTDOWN_TIMEOUT":      "10s",
}

// Load reads .env from the working directory (if present) and the
// environment. Env vars override .env.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is ignored.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}
	if c.OTPReturnCode && c.IsProduction() {
		return errors.New("config: OTP_RETURN_CODE must not be true when APP_ENV=production")
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("config: LOG_FORMAT %q must be json or console", c.LogFormat)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	c.OTPDelivery = strings.ToLower(strings.TrimSpace(c.OTPDelivery))
	switch c.OTPDelivery {
	case DeliveryNone:
		if !c.OTPReturnCode {
			return errors.New("config: OTP_DELIVERY must be console or smtp when OTP_RETURN_CODE is false")
		}
	case DeliveryConsole:
		if c.IsProduction() {
			return errors.New("config: OTP_DELIVERY=console is not allowed when APP_ENV=production")
		}
	case DeliverySMTP:
		if err := c.SMTP().Validate(); err != nil {
			return fmt.Errorf("config: OTP_DELIVERY=smtp: %w", err)
		}
	default:
		return fmt.Errorf("config: OTP_DELIVERY %q must be none, console or smtp", c.OTPDelivery)
	}
	return nil
}

// SMTP returns the relay settings used when OTP_DELIVERY is smtp.
func (c *Config) SMTP() delivery.SMTPConfig {
	return delivery.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Account:  c.SMTPAccount,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Engine maps the process settings onto an engine configuration. The result
// still goes through insureAuth.Config.Validate at build time.
func (c *Config) Engine() insureAuth.Config {
	cfg := insureAuth.DefaultConfig()

	cfg.JWT.PrivateKey = []byte(c.JWTSecret)
	cfg.JWT.Issuer = c.JWTIssuer
	if c.JWTTTL > 0 {
		cfg.JWT.TTL = c.JWTTTL
		if cfg.Revocation.TTL < c.JWTTTL {
			cfg.Revocation.TTL = c.JWTTTL
		}
	}

	if c.PasswordAlgorithm != "" {
		cfg.Password.Algorithm = strings.ToLower(c.PasswordAlgorithm)
	}
	if c.BcryptCost > 0 {
		cfg.Password.BcryptCost = c.BcryptCost
	}

	if c.OTPTTL > 0 {
		cfg.OTP.TTL = c.OTPTTL
	}
	if c.OTPKeyMode != "" {
		cfg.OTP.KeyMode = insureAuth.OTPKeyMode(strings.ToLower(c.OTPKeyMode))
	}
	cfg.OTP.ReturnCodeInResponse = c.OTPReturnCode
	cfg.OTP.MaxSendsPerWindow = c.OTPMaxSends
	cfg.OTP.MaxVerifyPerWindow = c.OTPMaxVerify
	if c.OTPThrottleSpan > 0 {
		cfg.OTP.ThrottleWindow = c.OTPThrottleSpan
	}

	cfg.OTP.ConsumeOnVerify = c.OTPConsume

	cfg.Revocation.FailOpen = c.RevocationFailOpen
	if c.CacheOpTimeout > 0 {
		cfg.Cache.OpTimeout = c.CacheOpTimeout
	}

	cfg.Audit.Enabled = c.AuditEnabled
	cfg.Metrics.Enabled = c.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = c.MetricsEnabled

	return cfg
}
