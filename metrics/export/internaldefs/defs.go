package internaldefs

import (
	insureAuth "github.com/MrEthical07/insureAuth"
)

type CounterDef struct {
	ID   insureAuth.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   insureAuth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exporters add for dispatcher drops.
const AuditDroppedName = "insureauth_audit_dropped_total"

var CounterDefs = []CounterDef{
	{ID: insureAuth.MetricSignupSuccess, Name: "insureauth_signup_success_total", Help: "Successful signups."},
	{ID: insureAuth.MetricSignupDuplicate, Name: "insureauth_signup_duplicate_total", Help: "Signups rejected because the email is registered."},
	{ID: insureAuth.MetricLoginSuccess, Name: "insureauth_login_success_total", Help: "Successful logins."},
	{ID: insureAuth.MetricLoginFailure, Name: "insureauth_login_failure_total", Help: "Failed logins."},
	{ID: insureAuth.MetricPasswordRehash, Name: "insureauth_password_rehash_total", Help: "Stored secrets re-hashed on login."},
	{ID: insureAuth.MetricOTPSent, Name: "insureauth_otp_sent_total", Help: "One-time codes staged."},
	{ID: insureAuth.MetricOTPVerifySuccess, Name: "insureauth_otp_verify_success_total", Help: "Accepted one-time codes."},
	{ID: insureAuth.MetricOTPVerifyFailure, Name: "insureauth_otp_verify_failure_total", Help: "Rejected one-time codes."},
	{ID: insureAuth.MetricOTPRateLimited, Name: "insureauth_otp_rate_limited_total", Help: "OTP requests denied by the throttle."},
	{ID: insureAuth.MetricPasswordResetSuccess, Name: "insureauth_password_reset_success_total", Help: "Completed password resets."},
	{ID: insureAuth.MetricLogout, Name: "insureauth_logout_total", Help: "Logouts."},
	{ID: insureAuth.MetricAccountDeleted, Name: "insureauth_account_deleted_total", Help: "Deleted accounts."},
	{ID: insureAuth.MetricAuthSuccess, Name: "insureauth_auth_success_total", Help: "Requests admitted by the gate."},
	{ID: insureAuth.MetricAuthNoToken, Name: "insureauth_auth_no_token_total", Help: "Requests rejected without a token."},
	{ID: insureAuth.MetricAuthRevoked, Name: "insureauth_auth_revoked_total", Help: "Requests rejected with a revoked token."},
	{ID: insureAuth.MetricAuthInvalid, Name: "insureauth_auth_invalid_total", Help: "Requests rejected with an invalid or expired token."},
	{ID: insureAuth.MetricAdminDenied, Name: "insureauth_admin_denied_total", Help: "Requests rejected for lacking the admin role."},
	{ID: insureAuth.MetricAdminRevoke, Name: "insureauth_admin_revoke_total", Help: "Tokens revoked by an admin."},
	{ID: insureAuth.MetricCacheFailure, Name: "insureauth_cache_failure_total", Help: "Failed Redis operations."},
	{ID: insureAuth.MetricStoreFailure, Name: "insureauth_store_failure_total", Help: "Failed user store operations."},
}

var HistogramDefs = []HistogramDef{
	{ID: insureAuth.MetricAuthenticateLatency, Name: "insureauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the Prometheus "le" labels of the engine buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix names each bucket for instruments that cannot carry labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
