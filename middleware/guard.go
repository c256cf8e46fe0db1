package middleware

import (
	"context"
	"net/http"
	"strings"

	insureAuth "github.com/MrEthical07/insureAuth"
)

// TokenCookie is the cookie the login route sets.
const TokenCookie = "token"

// Mode selects the check a Guard applies.
type Mode uint8

const (
	ModeUser Mode = iota
	ModeAdmin
)

type authResultContextKey struct{}

func AuthResultFromContext(ctx context.Context) (*insureAuth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*insureAuth.AuthResult)
	return res, ok && res != nil
}

// WithAuthResult returns a copy of ctx carrying res.
func WithAuthResult(ctx context.Context, res *insureAuth.AuthResult) context.Context {
	return context.WithValue(ctx, authResultContextKey{}, res)
}

func Guard(engine *insureAuth.Engine, mode Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				WriteError(w, insureAuth.ErrEngineNotReady)
				return
			}

			token := TokenFromRequest(r)

			var (
				res *insureAuth.AuthResult
				err error
			)
			if mode == ModeAdmin {
				res, err = engine.AuthenticateAdmin(r.Context(), token)
			} else {
				res, err = engine.Authenticate(r.Context(), token)
			}
			if err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthResult(r.Context(), res)))
		})
	}
}

// RequireUser admits any authenticated caller.
func RequireUser(engine *insureAuth.Engine) func(http.Handler) http.Handler {
	return Guard(engine, ModeUser)
}

// RequireAdmin admits only callers holding the admin role.
func RequireAdmin(engine *insureAuth.Engine) func(http.Handler) http.Handler {
	return Guard(engine, ModeAdmin)
}

// TokenFromRequest returns the session token from the cookie, or from a
// Bearer Authorization header when no cookie is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token, _ := bearerToken(r.Header.Get("Authorization"))
	return token
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
