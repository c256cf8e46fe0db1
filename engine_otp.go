package insureAuth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/insureAuth/internal"
	"github.com/MrEthical07/insureAuth/internal/limiters"
	"github.com/MrEthical07/insureAuth/internal/stores"
)

// SendCode stages a fresh six-digit code for a registered email. The code is
// returned when OTP.ReturnCodeInResponse is set and handed to the configured
// CodeSender, if any.
func (e *Engine) SendCode(ctx context.Context, email string) (*SendCodeResult, error) {
	if e == nil || e.otps == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	user, err := e.findByEmail(ctx, email)
	if err != nil {
		e.emitAudit(ctx, auditEventOTPSent, false, "", email, err, nil)
		return nil, err
	}

	if err := e.checkOTPThrottle(ctx, email, e.otpLimiter.CheckSend); err != nil {
		return nil, err
	}

	code, err := internal.NewOTP()
	if err != nil {
		e.logger.Error().Err(err).Msg("otp generation failed")
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	cctx, cancel := e.cacheCtx(ctx)
	err = e.otps.Stage(cctx, e.otpKey(email, code), code, e.config.OTP.TTL)
	cancel()
	if err != nil {
		err = e.cacheFailure("otp_stage", err)
		e.emitAudit(ctx, auditEventOTPSent, false, user.ID, email, err, nil)
		return nil, err
	}

	if e.codeSender != nil {
		if err := e.codeSender.SendCode(ctx, email, code); err != nil {
			e.logger.Error().Err(err).Str("user_id", user.ID).Msg("otp delivery failed")
			err = fmt.Errorf("%w: %v", ErrCodeDelivery, err)
			e.emitAudit(ctx, auditEventOTPSent, false, user.ID, email, err, nil)
			return nil, err
		}
	}

	e.metricInc(MetricOTPSent)
	e.emitAudit(ctx, auditEventOTPSent, true, user.ID, email, nil, nil)

	result := &SendCodeResult{}
	if e.config.OTP.ReturnCodeInResponse {
		result.Code = code
	}
	return result, nil
}

// VerifyCode checks code against the staged entry. An expired or unknown code
// is ErrWrongCode. Codes stay staged until their TTL elapses unless
// OTP.ConsumeOnVerify is set.
func (e *Engine) VerifyCode(ctx context.Context, email, code string) error {
	if e == nil || e.otps == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)
	user, err := e.findByEmail(ctx, email)
	if err != nil {
		e.emitAudit(ctx, auditEventOTPRejected, false, "", email, err, nil)
		return err
	}

	if err := e.checkOTPThrottle(ctx, email, e.otpLimiter.CheckVerify); err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	ok, err := e.matchCode(ctx, email, code)
	if err != nil {
		e.emitAudit(ctx, auditEventOTPRejected, false, user.ID, email, err, nil)
		return err
	}
	if !ok {
		e.metricInc(MetricOTPVerifyFailure)
		e.emitAudit(ctx, auditEventOTPRejected, false, user.ID, email, ErrWrongCode, nil)
		return ErrWrongCode
	}

	if e.config.OTP.ConsumeOnVerify {
		cctx, cancel := e.cacheCtx(ctx)
		err := e.otps.Discard(cctx, e.otpKey(email, code))
		cancel()
		if err != nil {
			// The code matched; a failed delete only leaves it live until its TTL.
			e.logger.Warn().Err(err).Str("user_id", user.ID).Msg("otp discard failed")
		}
	}

	e.metricInc(MetricOTPVerifySuccess)
	e.emitAudit(ctx, auditEventOTPVerified, true, user.ID, email, nil, nil)
	return nil
}

func (e *Engine) matchCode(ctx context.Context, email, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	cctx, cancel := e.cacheCtx(ctx)
	defer cancel()

	staged, err := e.otps.Lookup(cctx, e.otpKey(email, code))
	if errors.Is(err, stores.ErrOTPNotFound) {
		return false, nil
	}
	if err != nil {
		return false, e.cacheFailure("otp_lookup", err)
	}

	return subtle.ConstantTimeCompare([]byte(staged), []byte(code)) == 1, nil
}

func (e *Engine) otpKey(email, code string) string {
	if e.config.OTP.KeyMode == OTPKeyByEmail {
		return email
	}
	return code
}

func (e *Engine) checkOTPThrottle(ctx context.Context, email string, check func(context.Context, string) error) error {
	if e.otpLimiter == nil {
		return nil
	}

	cctx, cancel := e.cacheCtx(ctx)
	err := check(cctx, email)
	cancel()

	switch {
	case err == nil:
		return nil
	case errors.Is(err, limiters.ErrOTPRateLimited):
		e.metricInc(MetricOTPRateLimited)
		e.emitAudit(ctx, auditEventOTPRateLimited, false, "", email, ErrOTPRateLimited, func() map[string]string {
			return map[string]string{"window": e.otpLimiter.Window().String()}
		})
		return ErrOTPRateLimited
	default:
		return e.cacheFailure("otp_throttle", err)
	}
}
