package insureAuth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	internalaudit "github.com/MrEthical07/insureAuth/internal/audit"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testSigningKey = "insureauth-test-signing-key-0123"

type mockUserStore struct {
	mu      sync.Mutex
	users   map[string]Identity
	byEmail map[string]string
	nextID  int

	findErr   error
	insertErr error
	updateErr error
	deleteErr error

	// insertHook runs before Insert stores the row; tests use it to
	// simulate a concurrent signup.
	insertHook func()

	updateSecretCalls int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:   make(map[string]Identity),
		byEmail: make(map[string]string),
	}
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := m.users[id]
	return &u, nil
}

func (m *mockUserStore) FindByID(_ context.Context, id string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *mockUserStore) Insert(_ context.Context, u Identity) (*Identity, error) {
	if m.insertHook != nil {
		m.insertHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	if _, exists := m.byEmail[u.Email]; exists {
		return nil, ErrAccountExists
	}
	m.nextID++
	u.ID = "user-" + strconv.Itoa(m.nextID)
	m.users[u.ID] = u
	m.byEmail[u.Email] = u.ID
	return &u, nil
}

func (m *mockUserStore) UpdateSecret(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateSecretCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.SecretHash = hash
	m.users[id] = u
	return nil
}

func (m *mockUserStore) UpdateProfile(_ context.Context, id string, p ProfileUpdate) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if other, taken := m.byEmail[p.Email]; taken && other != id {
		return nil, ErrAccountExists
	}
	delete(m.byEmail, u.Email)
	u.Name, u.Email, u.Age, u.Income = p.Name, p.Email, p.Age, p.Income
	m.users[id] = u
	m.byEmail[u.Email] = id
	return &u, nil
}

func (m *mockUserStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.byEmail, u.Email)
	return nil
}

func (m *mockUserStore) get(email string) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[m.byEmail[email]]
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = []byte(testSigningKey)
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Metrics.Enabled = true
	return cfg
}

type testEnv struct {
	engine *Engine
	users  *mockUserStore
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	clock  *testClock
	sink   *internalaudit.ChannelSink
}

func newTestEnv(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()
	return newTestEnvWithSender(t, mutate, nil)
}

func newTestEnvWithSender(t *testing.T, mutate func(*Config), sender CodeSender) *testEnv {
	t.Helper()

	mr, rdb := newTestRedis(t)
	users := newMockUserStore()
	clock := newTestClock()

	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	if mutate != nil {
		mutate(&cfg)
	}

	sink := NewChannelSink(256)
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(users).
		WithAuditSink(sink).
		WithCodeSender(sender).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, users: users, mr: mr, rdb: rdb, clock: clock, sink: sink}
}

// auditEvents closes the engine and drains every delivered event.
func (env *testEnv) auditEvents() []AuditEvent {
	env.engine.Close()
	var out []AuditEvent
	for {
		select {
		case ev := <-env.sink.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func hasAuditEvent(events []AuditEvent, eventType string, success bool) bool {
	for _, ev := range events {
		if ev.EventType == eventType && ev.Success == success {
			return true
		}
	}
	return false
}

func (env *testEnv) signup(t *testing.T, email, secret string, role Role) *Session {
	t.Helper()
	sess, err := env.engine.Signup(context.Background(), SignupRequest{
		Name:   "Alice",
		Email:  email,
		Age:    30,
		Income: 50000,
		Secret: secret,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", email, err)
	}
	return sess
}

var errBackendDown = errors.New("backend down")
