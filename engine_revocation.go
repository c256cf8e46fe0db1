package insureAuth

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/insureAuth/internal/stores"
)

// Revoke marks token unusable for Revocation.TTL, independent of its
// signature or expiry.
func (e *Engine) Revoke(ctx context.Context, token string, reason RevocationReason) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return ErrNoToken
	}

	record := stores.RevocationRecord{
		Reason:    revocationReasonCode(reason),
		RevokedAt: e.now().Unix(),
	}

	cctx, cancel := e.cacheCtx(ctx)
	defer cancel()
	if err := e.revocations.Revoke(cctx, token, record, e.config.Revocation.TTL); err != nil {
		return e.cacheFailure("revoke", err)
	}
	return nil
}

// IsRevoked reports whether a revocation entry exists for token.
func (e *Engine) IsRevoked(ctx context.Context, token string) (bool, error) {
	if e == nil || e.revocations == nil {
		return false, ErrEngineNotReady
	}

	cctx, cancel := e.cacheCtx(ctx)
	defer cancel()
	revoked, err := e.revocations.Exists(cctx, token)
	if err != nil {
		return false, e.cacheFailure("revocation_lookup", err)
	}
	return revoked, nil
}

// RevocationDetails returns the entry stored for token, or nil when the
// token is not revoked.
func (e *Engine) RevocationDetails(ctx context.Context, token string) (*RevocationInfo, error) {
	if e == nil || e.revocations == nil {
		return nil, ErrEngineNotReady
	}
	if token == "" {
		return nil, ErrNoToken
	}

	cctx, cancel := e.cacheCtx(ctx)
	defer cancel()
	record, err := e.revocations.Get(cctx, token)
	if errors.Is(err, stores.ErrRevocationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, e.cacheFailure("revocation_get", err)
	}

	info := &RevocationInfo{Reason: revocationReasonName(record.Reason)}
	if record.RevokedAt > 0 {
		info.RevokedAt = time.Unix(record.RevokedAt, 0).UTC()
	}
	return info, nil
}

// AdminRevoke revokes another caller's token on behalf of an admin.
func (e *Engine) AdminRevoke(ctx context.Context, admin *AuthResult, token string) error {
	if !admin.IsAdmin() {
		return ErrAdminRequired
	}
	if err := e.Revoke(ctx, token, RevokedByAdmin); err != nil {
		e.emitAudit(ctx, auditEventAdminRevoke, false, admin.UserID, "", err, nil)
		return err
	}

	e.metricInc(MetricAdminRevoke)
	e.emitAudit(ctx, auditEventAdminRevoke, true, admin.UserID, "", nil, func() map[string]string {
		return map[string]string{"target": e.subjectOf(token)}
	})
	return nil
}

func revocationReasonCode(r RevocationReason) stores.RevocationReason {
	switch r {
	case RevokedByLogout:
		return stores.RevocationLogout
	case RevokedByAccountDeleted:
		return stores.RevocationAccountDeleted
	case RevokedByAdmin:
		return stores.RevocationAdmin
	default:
		return stores.RevocationUnknown
	}
}

func revocationReasonName(r stores.RevocationReason) RevocationReason {
	switch r {
	case stores.RevocationLogout:
		return RevokedByLogout
	case stores.RevocationAccountDeleted:
		return RevokedByAccountDeleted
	case stores.RevocationAdmin:
		return RevokedByAdmin
	default:
		return "unknown"
	}
}
