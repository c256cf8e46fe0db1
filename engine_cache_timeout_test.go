package insureAuth

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newStalledRedis returns a client connected to a listener that accepts
// connections and never answers.
func newStalledRedis(t *testing.T) *redis.Client {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()

	client := redis.NewClient(&redis.Options{
		Addr:                  ln.Addr().String(),
		ContextTimeoutEnabled: true,
		MaxRetries:            -1,
		DialTimeout:           time.Second,
	})
	t.Cleanup(func() {
		_ = client.Close()
		_ = ln.Close()
		mu.Lock()
		for _, c := range conns {
			_ = c.Close()
		}
		mu.Unlock()
	})
	return client
}

func TestAuthenticateFailsClosedWithinCacheTimeout(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "stall@example.com", "correct-horse", "")

	cfg := testConfig()
	cfg.Cache.OpTimeout = 100 * time.Millisecond
	engine, err := New().
		WithConfig(cfg).
		WithRedis(newStalledRedis(t)).
		WithUserStore(env.users).
		WithClock(env.clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	start := time.Now()
	_, err = engine.Authenticate(context.Background(), sess.Token)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTokenRevoked) || !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected fail-closed cache error, got %v", err)
	}
	if limit := 5 * cfg.Cache.OpTimeout; elapsed > limit {
		t.Fatalf("Authenticate took %v, want under %v", elapsed, limit)
	}
}

func TestContextTimeoutEnabled(t *testing.T) {
	plain := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer plain.Close()
	bounded := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0", ContextTimeoutEnabled: true})
	defer bounded.Close()

	if contextTimeoutEnabled(plain) {
		t.Fatal("default client options must report the flag unset")
	}
	if !contextTimeoutEnabled(bounded) {
		t.Fatal("flag set on the client must be reported")
	}
}
