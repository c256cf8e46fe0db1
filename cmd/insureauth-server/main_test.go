package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/delivery"
	"github.com/MrEthical07/insureAuth/internal/config"
	"github.com/MrEthical07/insureAuth/userstore/memory"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	t.Setenv("JWT_SECRET", "server-test-signing-key-0123456")
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	return cfg
}

func TestRedisOptionsBoundByContext(t *testing.T) {
	opts, err := redisOptions("redis://localhost:6379/2")
	require.NoError(t, err)
	require.True(t, opts.ContextTimeoutEnabled)
	require.Equal(t, 2, opts.DB)

	_, err = redisOptions("not a url")
	require.Error(t, err)
}

func TestNewCodeSender(t *testing.T) {
	cfg := loadConfig(t, nil)
	sender, err := newCodeSender(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Nil(t, sender)

	cfg = loadConfig(t, map[string]string{"OTP_DELIVERY": "console"})
	sender, err = newCodeSender(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &delivery.ConsoleSender{}, sender)
}

func TestProductionEngineDeliversCodes(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"APP_ENV":         "production",
		"OTP_RETURN_CODE": "false",
		"OTP_DELIVERY":    "smtp",
		"SMTP_HOST":       "smtp.example.com",
		"SMTP_FROM":       "no-reply@example.com",
	})

	sender, err := newCodeSender(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &delivery.SMTPSender{}, sender)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), ContextTimeoutEnabled: true})
	t.Cleanup(func() { _ = rdb.Close() })

	_, err = insureAuth.New().WithConfig(cfg.Engine()).WithRedis(rdb).WithUserStore(memory.New()).Build()
	require.Error(t, err, "an engine that withholds codes must not build without a sender")

	var delivered string
	engine, err := insureAuth.New().
		WithConfig(cfg.Engine()).
		WithRedis(rdb).
		WithUserStore(memory.New()).
		WithCodeSender(insureAuth.CodeSenderFunc(func(_ context.Context, _, code string) error {
			delivered = code
			return nil
		})).
		Build()
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Signup(context.Background(), insureAuth.SignupRequest{
		Name: "Prod User", Email: "prod@example.com", Age: 40, Income: 1000, Secret: "correct-horse",
	})
	require.NoError(t, err)

	res, err := engine.SendCode(context.Background(), "prod@example.com")
	require.NoError(t, err)
	require.Empty(t, res.Code)
	require.Len(t, delivered, 6)
	require.NoError(t, engine.VerifyCode(context.Background(), "prod@example.com", delivered))
}
