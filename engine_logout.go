package insureAuth

import (
	"context"
)

// Logout revokes token. It succeeds for any non-empty token, valid or not;
// only a cache failure is reported.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if token == "" {
		e.emitAudit(ctx, auditEventLogout, false, "", "", ErrNoToken, nil)
		return ErrNoToken
	}

	if err := e.Revoke(ctx, token, RevokedByLogout); err != nil {
		e.emitAudit(ctx, auditEventLogout, false, e.subjectOf(token), "", err, nil)
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, e.subjectOf(token), "", nil, nil)
	return nil
}

// subjectOf returns the user id from a verifiable token, for audit only.
func (e *Engine) subjectOf(token string) string {
	if e.audit == nil {
		return ""
	}
	claims, err := e.tokens.Parse(token)
	if err != nil {
		return ""
	}
	return claims.ID
}
