package insureAuth

import (
	"context"
	"fmt"
	"strings"
)

// Profile loads the current identity of an authenticated caller.
func (e *Engine) Profile(ctx context.Context, auth *AuthResult) (*Identity, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}
	if auth == nil || auth.UserID == "" {
		return nil, ErrNoToken
	}

	user, err := e.users.FindByID(ctx, auth.UserID)
	if err != nil {
		return nil, e.storeFailure("find_by_id", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	out := publicIdentity(user)
	return &out, nil
}

// UpdateProfile replaces the caller's name, email, age and income. Tokens
// already issued keep their old claims until they expire.
func (e *Engine) UpdateProfile(ctx context.Context, auth *AuthResult, upd ProfileUpdate) (*Identity, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}
	if auth == nil || auth.UserID == "" {
		return nil, ErrNoToken
	}

	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = normalizeEmail(upd.Email)
	if upd.Name == "" || upd.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	user, err := e.users.UpdateProfile(ctx, auth.UserID, upd)
	if err != nil {
		return nil, e.storeFailure("update_profile", err)
	}

	out := publicIdentity(user)
	return &out, nil
}

// DeleteAccount removes the caller's identity and then revokes the token
// they presented. A revocation failure after a successful delete is
// reported; the identity stays deleted.
func (e *Engine) DeleteAccount(ctx context.Context, auth *AuthResult) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if auth == nil || auth.UserID == "" || auth.Token == "" {
		return ErrNoToken
	}

	if err := e.users.Delete(ctx, auth.UserID); err != nil {
		err = e.storeFailure("delete", err)
		e.emitAudit(ctx, auditEventAccountDeleted, false, auth.UserID, "", err, nil)
		return err
	}

	if err := e.Revoke(ctx, auth.Token, RevokedByAccountDeleted); err != nil {
		e.emitAudit(ctx, auditEventAccountDeleted, false, auth.UserID, "", err, func() map[string]string {
			return map[string]string{"stage": "revoke"}
		})
		return err
	}

	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, auth.UserID, "", nil, nil)
	return nil
}
