package insureAuth

import "errors"

// Sentinel errors returned by Engine methods. Their messages are the stable
// strings shown to API clients; wrap them with %w to add detail.
var (
	ErrInvalidInput      = errors.New("invalid request")
	ErrInvalidRole       = errors.New("invalid role")
	ErrAccountExists     = errors.New("user already exists")
	ErrUserNotFound      = errors.New("User Not Found")
	ErrIncorrectPassword = errors.New("Incorrect password")
	ErrWrongCode         = errors.New("Wrong Otp Entered")
	ErrNoToken           = errors.New("Access denied. No token provided.")
	ErrTokenRevoked      = errors.New("Token is expired")
	ErrTokenInvalid      = errors.New("Invalid or expired token.")
	ErrAdminRequired     = errors.New("You can't perform this action")
	ErrOTPRateLimited    = errors.New("Too many OTP requests")

	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrStoreUnavailable = errors.New("credential store unavailable")
	ErrCodeDelivery     = errors.New("otp delivery failed")
	ErrEngineNotReady   = errors.New("engine not initialized")
)

// Kind classifies an error for the transport boundary.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidInput, KindValidation},
	{ErrInvalidRole, KindValidation},
	{ErrWrongCode, KindValidation},
	{ErrAccountExists, KindConflict},
	{ErrUserNotFound, KindNotFound},
	{ErrIncorrectPassword, KindUnauthorized},
	{ErrNoToken, KindUnauthorized},
	{ErrTokenRevoked, KindUnauthorized},
	{ErrTokenInvalid, KindForbidden},
	{ErrAdminRequired, KindForbidden},
	{ErrOTPRateLimited, KindRateLimited},
}

// KindOf resolves err to its Kind. Unknown errors, including every store and
// cache failure, are KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// PublicMessage returns the client-safe message for err. Internal failures
// collapse to a generic message so no backend detail leaks.
func PublicMessage(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return "Something went wrong"
}
