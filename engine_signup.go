package insureAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Signup registers a new identity and returns a session for it.
//
// The email is compared case-insensitively. An empty role selects
// Security.DefaultRole.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	if e == nil || e.users == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Secret == "" {
		return nil, e.signupFailed(ctx, email, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput))
	}

	role := req.Role
	if role == "" {
		role = e.config.Security.DefaultRole
	}
	if !role.Valid() || (role == RoleAdmin && !e.config.Security.AllowAdminSignup) {
		return nil, e.signupFailed(ctx, email, ErrInvalidRole)
	}

	existing, err := e.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, e.signupDuplicate(ctx, email)
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return nil, e.signupFailed(ctx, email, e.storeFailure("find_by_email", err))
	}

	hash, err := e.hasher.Hash(req.Secret)
	if err != nil {
		return nil, e.signupFailed(ctx, email, e.hashFailure(err))
	}

	created, err := e.users.Insert(ctx, Identity{
		Name:       name,
		Email:      email,
		Age:        req.Age,
		Income:     req.Income,
		Role:       role,
		SecretHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			// Lost a race with a concurrent signup for the same email.
			return nil, e.signupDuplicate(ctx, email)
		}
		return nil, e.signupFailed(ctx, email, e.storeFailure("insert", err))
	}

	token, err := e.issueToken(created)
	if err != nil {
		return nil, e.signupFailed(ctx, email, err)
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, created.ID, email, nil, func() map[string]string {
		return map[string]string{"role": string(created.Role)}
	})

	return &Session{
		Identity:  publicIdentity(created),
		Token:     token,
		ExpiresIn: e.tokens.TTL(),
	}, nil
}

func (e *Engine) signupDuplicate(ctx context.Context, email string) error {
	e.metricInc(MetricSignupDuplicate)
	e.emitAudit(ctx, auditEventSignupDuplicate, false, "", email, ErrAccountExists, nil)
	return ErrAccountExists
}

func (e *Engine) signupFailed(ctx context.Context, email string, err error) error {
	e.emitAudit(ctx, auditEventSignupFailure, false, "", email, err, nil)
	return err
}
