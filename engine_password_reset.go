package insureAuth

import (
	"context"
)

// ForgotPassword replaces the secret of the identity registered under email.
//
// It does not require a prior VerifyCode; callers that want that guarantee
// must enforce it at the transport layer.
func (e *Engine) ForgotPassword(ctx context.Context, email, newSecret string) error {
	if e == nil || e.users == nil || e.hasher == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)
	user, err := e.findByEmail(ctx, email)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordReset, false, "", email, err, nil)
		return err
	}

	hash, err := e.hasher.Hash(newSecret)
	if err != nil {
		err = e.hashFailure(err)
		e.emitAudit(ctx, auditEventPasswordReset, false, user.ID, email, err, nil)
		return err
	}

	if err := e.users.UpdateSecret(ctx, user.ID, hash); err != nil {
		err = e.storeFailure("update_secret", err)
		e.emitAudit(ctx, auditEventPasswordReset, false, user.ID, email, err, nil)
		return err
	}

	e.metricInc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, auditEventPasswordReset, true, user.ID, email, nil, nil)
	return nil
}
