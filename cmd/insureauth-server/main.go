// Command insureauth-server serves the insureAuth HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/delivery"
	"github.com/MrEthical07/insureAuth/httpapi"
	"github.com/MrEthical07/insureAuth/internal/config"
	"github.com/MrEthical07/insureAuth/internal/logging"
	"github.com/MrEthical07/insureAuth/metrics/export/prometheus"
	"github.com/MrEthical07/insureAuth/userstore/memory"
	"github.com/MrEthical07/insureAuth/userstore/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "insureauth-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	displayAppName(cfg.AppName)
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With().Str("app", cfg.AppName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, closeUsers, err := openUserStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeUsers()

	sender, err := newCodeSender(cfg, logger)
	if err != nil {
		return err
	}

	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	builder := insureAuth.New().
		WithConfig(cfg.Engine()).
		WithRedis(rdb).
		WithUserStore(users).
		WithLogger(logger)
	if sender != nil {
		builder = builder.WithCodeSender(sender)
	}
	if cfg.AuditEnabled {
		builder = builder.WithAuditSink(insureAuth.NewLoggerSink(logger.With().Str("component", "audit").Logger()))
	}
	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	opts := httpapi.Options{
		CORSOrigin:   cfg.CORSOrigin,
		CookieSecure: cfg.CookieSecure,
		Logger:       logger.With().Str("component", "http").Logger(),
	}
	if cfg.MetricsEnabled {
		opts.Metrics = prometheus.NewExporter(engine).Handler()
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.New(engine, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("listen: %w", err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	return shutdown(server, cfg.ShutdownTimeout)
}

// openUserStore picks Postgres when DATABASE_URL is set and the in-memory
// store otherwise.
func openUserStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (insureAuth.UserStore, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction() {
			return nil, nil, errors.New("DATABASE_URL is required in production")
		}
		logger.Warn().Msg("DATABASE_URL not set; using in-memory user store")
		return memory.New(), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxConns,
		MaxIdleConns:    cfg.DBMaxConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { closeQuietly(db, logger) }

	if cfg.RunMigrations {
		if err := postgres.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info().Msg("database migrations applied")
	}

	return postgres.New(db), closeDB, nil
}

// newCodeSender returns nil when codes are only returned in responses.
func newCodeSender(cfg *config.Config, logger zerolog.Logger) (insureAuth.CodeSender, error) {
	switch cfg.OTPDelivery {
	case config.DeliverySMTP:
		s, err := delivery.NewSMTPSender(cfg.SMTP())
		if err != nil {
			return nil, fmt.Errorf("otp delivery: %w", err)
		}
		return s, nil
	case config.DeliveryConsole:
		logger.Warn().Msg("one-time codes are written to the log")
		return delivery.NewConsoleSender(logger.With().Str("component", "otp").Logger()), nil
	}
	return nil, nil
}

func redisOptions(url string) (*redis.Options, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	// Cache.OpTimeout reaches the socket only through the context.
	opts.ContextTimeoutEnabled = true
	return opts, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redisOptions(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func shutdown(server *http.Server, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func closeQuietly(db *sql.DB, logger zerolog.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn().Err(err).Msg("database close failed")
	}
}

func displayAppName(name string) {
	figure.NewFigure(name, "cybermedium", true).Print()
	fmt.Println()
}
