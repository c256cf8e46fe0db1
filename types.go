package insureAuth

import (
	"context"
	"strings"
	"time"

	"github.com/MrEthical07/insureAuth/jwt"
)

// Role is the coarse authorization level of an Identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is a registered account. SecretHash never leaves the engine in
// API responses.
type Identity struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Age        int     `json:"age"`
	Income     float64 `json:"income"`
	Role       Role    `json:"role"`
	SecretHash string  `json:"-"`
}

// UserStore persists identities. Implementations must be safe for
// concurrent use, return ErrUserNotFound on a miss and ErrAccountExists on a
// unique-email violation. Any other error is treated as a backend failure.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	// Insert stores u and returns it with its assigned ID.
	Insert(ctx context.Context, u Identity) (*Identity, error)
	// UpdateSecret overwrites the secret hash in a single write.
	UpdateSecret(ctx context.Context, id, secretHash string) error
	// UpdateProfile overwrites the descriptive fields and returns the result.
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*Identity, error)
	Delete(ctx context.Context, id string) error
}

// CodeSender delivers a one-time code out of band, e.g. by email.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// CodeSenderFunc adapts a function to CodeSender.
type CodeSenderFunc func(ctx context.Context, email, code string) error

func (f CodeSenderFunc) SendCode(ctx context.Context, email, code string) error {
	return f(ctx, email, code)
}

type SignupRequest struct {
	Name   string
	Email  string
	Age    int
	Income float64
	Secret string
	Role   Role
}

type LoginRequest struct {
	Email  string
	Secret string
}

// ProfileUpdate replaces the descriptive fields of an identity. Role and
// secret are changed through their own flows.
type ProfileUpdate struct {
	Name   string
	Email  string
	Age    int
	Income float64
}

// Session is returned by signup and login.
type Session struct {
	Identity  Identity
	Token     string
	ExpiresIn time.Duration
}

// SendCodeResult carries the staged code when OTP.ReturnCodeInResponse is set.
type SendCodeResult struct {
	Code string
}

// AuthResult is produced by Authenticate for a live, unrevoked token.
type AuthResult struct {
	UserID string
	Role   Role
	Token  string
	Claims *jwt.Claims
}

// IsAdmin reports whether the caller carries the admin role.
func (r *AuthResult) IsAdmin() bool {
	return r != nil && r.Role == RoleAdmin
}

// RevocationReason records why a token was revoked.
type RevocationReason string

const (
	RevokedByLogout         RevocationReason = "logout"
	RevokedByAccountDeleted RevocationReason = "account_deleted"
	RevokedByAdmin          RevocationReason = "admin"
)

// RevocationInfo describes an existing revocation entry.
type RevocationInfo struct {
	Reason    RevocationReason `json:"reason"`
	RevokedAt time.Time        `json:"revokedAt"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
