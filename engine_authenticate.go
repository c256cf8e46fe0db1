package insureAuth

import (
	"context"
	"fmt"
	"time"
)

// Authenticate gates a protected request on token.
//
// The revocation list is consulted before the signature: a revoked token is
// rejected with ErrTokenRevoked even when it would still verify. When the
// revocation lookup fails the token is treated as revoked unless
// Revocation.FailOpen is set.
func (e *Engine) Authenticate(ctx context.Context, token string) (*AuthResult, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricAuthenticateLatency, time.Since(start)) }()
	}

	if token == "" {
		e.metricInc(MetricAuthNoToken)
		return nil, ErrNoToken
	}

	revoked, err := e.IsRevoked(ctx, token)
	if err != nil {
		if !e.config.Revocation.FailOpen {
			e.metricInc(MetricAuthRevoked)
			e.emitAudit(ctx, auditEventRevocationCheckError, false, "", "", err, func() map[string]string {
				return map[string]string{"policy": "fail_closed"}
			})
			return nil, fmt.Errorf("%w: %w", ErrTokenRevoked, err)
		}
		e.logger.Warn().Err(err).Msg("revocation check failed; continuing under fail-open policy")
	}
	if revoked {
		e.metricInc(MetricAuthRevoked)
		return nil, ErrTokenRevoked
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricAuthInvalid)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	e.metricInc(MetricAuthSuccess)
	return &AuthResult{
		UserID: claims.ID,
		Role:   Role(claims.Role),
		Token:  token,
		Claims: claims,
	}, nil
}

// AuthenticateAdmin is Authenticate plus a requirement that the caller holds
// the admin role.
func (e *Engine) AuthenticateAdmin(ctx context.Context, token string) (*AuthResult, error) {
	result, err := e.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !result.IsAdmin() {
		e.metricInc(MetricAdminDenied)
		e.emitAudit(ctx, auditEventAdminDenied, false, result.UserID, "", ErrAdminRequired, func() map[string]string {
			return map[string]string{"role": string(result.Role)}
		})
		return nil, ErrAdminRequired
	}
	return result, nil
}
