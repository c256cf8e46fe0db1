// Command insureauth-loadtest measures the authenticated-request gate and
// the revocation path against Redis (or an embedded miniredis).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/password"
	"github.com/MrEthical07/insureAuth/userstore/memory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const seedSecret = "loadtest-secret"

type tokenState struct {
	token   string
	revoked bool
}

func main() {
	var (
		users       = flag.Int("users", 500, "number of identities to seed and log in")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase")
		revokeRatio = flag.Float64("revoke-ratio", 0.1, "fraction of seeded tokens revoked before the gate phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 || *revokeRatio < 0 || *revokeRatio > 1 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0; revoke-ratio must be in [0,1]")
		os.Exit(2)
	}

	ctx := context.Background()

	client, cleanup, err := connectRedis(*redisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	engine, store, err := buildEngine(client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d identities...\n", *users)
	startSeed := time.Now()
	states, err := seed(ctx, engine, store, *users, *revokeRatio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	gateStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		s := states[r.Intn(len(states))]
		_, err := engine.Authenticate(ctx, s.token)
		switch {
		case s.revoked && errors.Is(err, insureAuth.ErrTokenRevoked):
			return nil
		case s.revoked:
			return fmt.Errorf("revoked token admitted: %v", err)
		default:
			return err
		}
	})
	revokeStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		return engine.Revoke(ctx, states[r.Intn(len(states))].token, insureAuth.RevokedByLogout)
	})

	fmt.Println("---- results ----")
	printStats("authenticate", gateStats)
	printStats("revoke", revokeStats)
}

func connectRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}, ContextTimeoutEnabled: true})
		fmt.Printf("using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}, ContextTimeoutEnabled: true})
	fmt.Printf("using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

// buildEngine uses the cheapest accepted argon2id parameters so seeding is
// dominated by Redis, not hashing.
func buildEngine(client redis.UniversalClient) (*insureAuth.Engine, *memory.Store, error) {
	cfg := insureAuth.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("insureauth-loadtest-signing-key!")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Cache.OpTimeout = 2 * time.Second

	store := memory.New()
	engine, err := insureAuth.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserStore(store).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}

func seed(ctx context.Context, engine *insureAuth.Engine, store *memory.Store, n int, revokeRatio float64) ([]tokenState, error) {
	hasher, err := password.NewArgon2(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(seedSecret)
	if err != nil {
		return nil, err
	}

	revokeEvery := 0
	if revokeRatio > 0 {
		revokeEvery = int(1 / revokeRatio)
	}

	states := make([]tokenState, n)
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("user-%d@loadtest.local", i)
		if _, err := store.Insert(ctx, insureAuth.Identity{
			Name:       "Load Test",
			Email:      email,
			Age:        30,
			Income:     40000,
			Role:       insureAuth.RoleUser,
			SecretHash: hash,
		}); err != nil {
			return nil, err
		}

		sess, err := engine.Login(ctx, insureAuth.LoginRequest{Email: email, Secret: seedSecret})
		if err != nil {
			return nil, fmt.Errorf("login %s: %w", email, err)
		}
		states[i].token = sess.Token

		if revokeEvery > 0 && i%revokeEvery == 0 {
			if err := engine.Logout(ctx, sess.Token); err != nil {
				return nil, fmt.Errorf("logout %s: %w", email, err)
			}
			states[i].revoked = true
		}
	}
	return states, nil
}

func runPhase(ops, concurrency int, op func(*rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
