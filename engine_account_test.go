package insureAuth

import (
	"context"
	"errors"
	"testing"
)

func authFor(t *testing.T, env *testEnv, token string) *AuthResult {
	t.Helper()
	auth, err := env.engine.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	return auth
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "yara@example.com", "correct-horse", "")

	got, err := env.engine.Profile(context.Background(), authFor(t, env, sess.Token))
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got.ID != sess.Identity.ID || got.Email != "yara@example.com" || got.Age != 30 || got.Income != 50000 {
		t.Fatalf("unexpected profile %+v", got)
	}
	if got.SecretHash != "" {
		t.Fatal("profile must not carry the secret hash")
	}

	if _, err := env.engine.Profile(context.Background(), nil); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "zed@example.com", "correct-horse", "")
	env.signup(t, "taken@example.com", "correct-horse", "")
	auth := authFor(t, env, sess.Token)

	updated, err := env.engine.UpdateProfile(context.Background(), auth, ProfileUpdate{
		Name: " Zed ", Email: "Zed.New@example.com", Age: 41, Income: 72000,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Zed" || updated.Email != "zed.new@example.com" || updated.Age != 41 || updated.Income != 72000 {
		t.Fatalf("unexpected identity %+v", updated)
	}

	if _, err := env.engine.Login(context.Background(), LoginRequest{Email: "zed.new@example.com", Secret: "correct-horse"}); err != nil {
		t.Fatalf("Login with new email failed: %v", err)
	}

	_, err = env.engine.UpdateProfile(context.Background(), auth, ProfileUpdate{Name: "Zed", Email: "taken@example.com"})
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	_, err = env.engine.UpdateProfile(context.Background(), auth, ProfileUpdate{Name: "", Email: "zed@example.com"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteAccountRevokesPresentedToken(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "abe@example.com", "correct-horse", "")
	auth := authFor(t, env, sess.Token)

	if err := env.engine.DeleteAccount(context.Background(), auth); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if _, err := env.engine.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if _, err := env.engine.Login(context.Background(), LoginRequest{Email: "abe@example.com", Secret: "correct-horse"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}

	// the email is free again
	env.signup(t, "abe@example.com", "correct-horse", "")

	events := env.auditEvents()
	if !hasAuditEvent(events, auditEventAccountDeleted, true) {
		t.Fatalf("missing account_deleted audit event: %+v", events)
	}
}

func TestDeleteAccountFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	sess := env.signup(t, "bea@example.com", "correct-horse", "")
	auth := authFor(t, env, sess.Token)

	if err := env.engine.DeleteAccount(context.Background(), &AuthResult{UserID: auth.UserID}); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken without a token, got %v", err)
	}

	env.users.deleteErr = errBackendDown
	if err := env.engine.DeleteAccount(context.Background(), auth); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := env.engine.Authenticate(context.Background(), sess.Token); err != nil {
		t.Fatalf("failed delete must not revoke, got %v", err)
	}

	env.users.deleteErr = nil
	env.mr.Close()
	if err := env.engine.DeleteAccount(context.Background(), auth); !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
	if _, err := env.users.FindByID(context.Background(), auth.UserID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("identity must stay deleted, got %v", err)
	}
}
