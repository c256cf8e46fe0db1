package insureAuth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAuthenticateNoToken(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.engine.Authenticate(context.Background(), "")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if KindOf(err) != KindUnauthorized || PublicMessage(err) != "Access denied. No token provided." {
		t.Fatalf("unexpected classification %v %q", KindOf(err), PublicMessage(err))
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.engine.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if KindOf(err) != KindForbidden || PublicMessage(err) != "Invalid or expired token." {
		t.Fatalf("unexpected classification %v %q", KindOf(err), PublicMessage(err))
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "oli@example.com", "correct-horse", "")

	env.clock.Advance(24*time.Hour + time.Second)
	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestAuthenticateTokenFromAnotherKey(t *testing.T) {
	env := newTestEnv(t, nil)
	other := newTestEnv(t, func(cfg *Config) {
		cfg.JWT.PrivateKey = []byte("a-completely-different-key-4567")
	})
	sess := other.signup(t, "pat@example.com", "correct-horse", "")

	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "quinn@example.com", "correct-horse", "")

	if err := env.engine.Logout(context.Background(), sess.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err := env.engine.Authenticate(context.Background(), sess.Token)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if KindOf(err) != KindUnauthorized || PublicMessage(err) != "Token is expired" {
		t.Fatalf("unexpected classification %v %q", KindOf(err), PublicMessage(err))
	}

	if ttl := env.mr.TTL("rvk:" + sess.Token); ttl != 24*time.Hour {
		t.Fatalf("revocation TTL = %v", ttl)
	}

	// a fresh login is unaffected
	env.clock.Advance(time.Second)
	again, err := env.engine.Login(context.Background(), LoginRequest{Email: "quinn@example.com", Secret: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := env.engine.Authenticate(context.Background(), again.Token); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}

	events := env.auditEvents()
	if !hasAuditEvent(events, auditEventLogout, true) {
		t.Fatalf("missing logout audit event: %+v", events)
	}
}

func TestLogoutAcceptsUnverifiableToken(t *testing.T) {
	env := newTestEnv(t, nil)

	if err := env.engine.Logout(context.Background(), "opaque-value"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	revoked, err := env.engine.IsRevoked(context.Background(), "opaque-value")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}

	if err := env.engine.Logout(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "rita@example.com", "correct-horse", "")

	for i := 0; i < 2; i++ {
		if err := env.engine.Revoke(context.Background(), sess.Token, RevokedByLogout); err != nil {
			t.Fatalf("Revoke %d failed: %v", i, err)
		}
	}
	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestRevocationOutlivesToken(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "sam@example.com", "correct-horse", "")
	if err := env.engine.Logout(context.Background(), sess.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	env.mr.FastForward(23 * time.Hour)
	env.clock.Advance(23 * time.Hour)
	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked before entry expiry, got %v", err)
	}

	env.mr.FastForward(2 * time.Hour)
	env.clock.Advance(2 * time.Hour)
	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid once both lapsed, got %v", err)
	}
}

func TestAuthenticateFailsClosedWhenCacheDown(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "tom@example.com", "correct-horse", "")
	env.mr.Close()

	_, err := env.engine.Authenticate(context.Background(), sess.Token)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected wrapped ErrCacheUnavailable, got %v", err)
	}
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %v", KindOf(err))
	}

	events := env.auditEvents()
	if !hasAuditEvent(events, auditEventRevocationCheckError, false) {
		t.Fatalf("missing revocation_check_error audit event: %+v", events)
	}
}

func TestAuthenticateFailOpen(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.Revocation.FailOpen = true })
	sess := env.signup(t, "uma@example.com", "correct-horse", "")
	env.mr.Close()

	auth, err := env.engine.Authenticate(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("Authenticate failed under fail-open: %v", err)
	}
	if auth.UserID != sess.Identity.ID {
		t.Fatalf("unexpected subject %q", auth.UserID)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.signup(t, "vic@example.com", "correct-horse", RoleUser)
	admin := env.signup(t, "wes@example.com", "correct-horse", RoleAdmin)

	_, err := env.engine.AuthenticateAdmin(context.Background(), user.Token)
	if !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
	if PublicMessage(err) != "You can't perform this action" {
		t.Fatalf("unexpected message %q", PublicMessage(err))
	}

	res, err := env.engine.AuthenticateAdmin(context.Background(), admin.Token)
	if err != nil {
		t.Fatalf("AuthenticateAdmin failed: %v", err)
	}
	if !res.IsAdmin() {
		t.Fatal("expected admin result")
	}

	if err := env.engine.Logout(context.Background(), admin.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := env.engine.AuthenticateAdmin(context.Background(), admin.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("revoked admin token must fail the identity check first, got %v", err)
	}
}

func TestAuthenticateMetrics(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.Metrics.EnableLatencyHistograms = true })
	sess := env.signup(t, "xia@example.com", "correct-horse", "")

	if _, err := env.engine.Authenticate(context.Background(), sess.Token); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	_, _ = env.engine.Authenticate(context.Background(), "")
	_, _ = env.engine.Authenticate(context.Background(), "junk")

	snap := env.engine.MetricsSnapshot()
	if snap.Counters[MetricAuthSuccess] != 1 || snap.Counters[MetricAuthNoToken] != 1 || snap.Counters[MetricAuthInvalid] != 1 {
		t.Fatalf("unexpected counters: %+v", snap.Counters)
	}

	var observed uint64
	for _, n := range snap.Histograms[MetricAuthenticateLatency] {
		observed += n
	}
	if observed != 3 {
		t.Fatalf("expected 3 latency samples, got %d", observed)
	}
}
