package httpapi

import (
	"net/http"
	"time"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/middleware"
	"github.com/rs/zerolog"
)

// Options configures the transport around the engine.
type Options struct {
	// CORSOrigin is the browser origin allowed to call the API with
	// credentials. Empty disables CORS headers.
	CORSOrigin string
	// CookieSecure marks the token cookie Secure.
	CookieSecure bool
	// Metrics is mounted on GET /metrics when non-nil.
	Metrics http.Handler
	Logger  zerolog.Logger
	// MaxBodyBytes caps request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Server routes API requests to the engine.
type Server struct {
	engine  *insureAuth.Engine
	opts    Options
	logger  zerolog.Logger
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
}

func New(engine *insureAuth.Engine, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		engine: engine,
		opts:   opts,
		logger: opts.Logger,
		mux:    http.NewServeMux(),
	}
	s.initRoutes()

	s.handler = chain(s.mux,
		s.recoverMiddleware,
		s.loggingMiddleware,
		s.corsMiddleware,
		clientIPMiddleware,
	)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	out := make([]string, len(s.routes))
	copy(out, s.routes)
	return out
}

func (s *Server) initRoutes() {
	user := middleware.RequireUser(s.engine)
	admin := middleware.RequireAdmin(s.engine)

	s.handle("POST /auth/signup", http.HandlerFunc(s.handleSignup))
	s.handle("POST /auth/login", http.HandlerFunc(s.handleLogin))
	s.handle("POST /auth/send-otp", http.HandlerFunc(s.handleSendOTP))
	s.handle("POST /auth/verify-otp", http.HandlerFunc(s.handleVerifyOTP))
	s.handle("POST /auth/forgot-password", http.HandlerFunc(s.handleForgotPassword))
	s.handle("POST /auth/logout", user(http.HandlerFunc(s.handleLogout)))

	s.handle("GET /user", user(http.HandlerFunc(s.handleGetUser)))
	s.handle("PUT /user", user(http.HandlerFunc(s.handleUpdateUser)))
	s.handle("DELETE /user", user(http.HandlerFunc(s.handleDeleteUser)))

	s.handle("POST /admin/revoke", admin(http.HandlerFunc(s.handleAdminRevoke)))
	s.handle("POST /admin/revocation", admin(http.HandlerFunc(s.handleRevocationStatus)))

	s.handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	if s.opts.Metrics != nil {
		s.handle("GET /metrics", s.opts.Metrics)
	}
}

func (s *Server) handle(pattern string, h http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, h)
}

// setTokenCookie mirrors the token lifetime so the browser drops the cookie
// when the token expires.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
