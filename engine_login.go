package insureAuth

import (
	"context"
)

// Login verifies the secret for email and issues a fresh session token.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if e == nil || e.users == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	email := normalizeEmail(req.Email)
	user, err := e.findByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, err, func() map[string]string {
			return map[string]string{"reason": "lookup"}
		})
		return nil, err
	}

	if req.Secret == "" || !e.hasher.Verify(req.Secret, user.SecretHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, email, ErrIncorrectPassword, func() map[string]string {
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, ErrIncorrectPassword
	}

	if e.config.Password.UpgradeOnLogin && e.hasher.NeedsUpgrade(user.SecretHash) {
		e.upgradeSecret(ctx, user, req.Secret)
	}

	token, err := e.issueToken(user)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, email, nil, nil)

	return &Session{
		Identity:  publicIdentity(user),
		Token:     token,
		ExpiresIn: e.tokens.TTL(),
	}, nil
}

// upgradeSecret re-hashes a verified secret with the primary algorithm. A
// failure here never fails the login.
func (e *Engine) upgradeSecret(ctx context.Context, user *Identity, secret string) {
	hash, err := e.hasher.Hash(secret)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash skipped")
		return
	}
	if err := e.users.UpdateSecret(ctx, user.ID, hash); err != nil {
		e.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash not persisted")
		return
	}
	user.SecretHash = hash
	e.metricInc(MetricPasswordRehash)
}
