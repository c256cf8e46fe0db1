package insureAuth

import (
	"context"
	"errors"
)

const (
	auditEventSignupSuccess        = "signup_success"
	auditEventSignupDuplicate      = "signup_duplicate"
	auditEventSignupFailure        = "signup_failure"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventOTPSent              = "otp_sent"
	auditEventOTPVerified          = "otp_verified"
	auditEventOTPRejected          = "otp_rejected"
	auditEventOTPRateLimited       = "otp_rate_limited"
	auditEventPasswordReset        = "password_reset"
	auditEventLogout               = "logout"
	auditEventAccountDeleted       = "account_deleted"
	auditEventAdminDenied          = "admin_denied"
	auditEventAdminRevoke          = "admin_revoke"
	auditEventRevocationCheckError = "revocation_check_error"
)

// AuditErrorCode is the machine-readable failure reason stored on audit events.
type AuditErrorCode string

const (
	auditErrInvalidInput      AuditErrorCode = "invalid_input"
	auditErrDuplicate         AuditErrorCode = "duplicate"
	auditErrUserNotFound      AuditErrorCode = "user_not_found"
	auditErrIncorrectPassword AuditErrorCode = "incorrect_password"
	auditErrWrongCode         AuditErrorCode = "wrong_code"
	auditErrRateLimited       AuditErrorCode = "rate_limited"
	auditErrTokenRevoked      AuditErrorCode = "token_revoked"
	auditErrTokenInvalid      AuditErrorCode = "invalid_token"
	auditErrForbidden         AuditErrorCode = "forbidden"
	auditErrUnavailable       AuditErrorCode = "backend_unavailable"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRole):
		return auditErrInvalidInput
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrIncorrectPassword):
		return auditErrIncorrectPassword
	case errors.Is(err, ErrWrongCode):
		return auditErrWrongCode
	case errors.Is(err, ErrOTPRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrNoToken):
		return auditErrTokenInvalid
	case errors.Is(err, ErrAdminRequired):
		return auditErrForbidden
	case errors.Is(err, ErrCacheUnavailable), errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrCodeDelivery):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
