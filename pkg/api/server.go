package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/gatehouse/pkg/auth"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/middleware"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// maxBodyBytes caps credential request bodies
const maxBodyBytes = 1 << 20

// Options configures the API server
type Options struct {
	Logger  *observability.Logger
	Metrics *observability.Metrics
	Users   users.Store
	Manager *sessions.Manager
	Hasher  auth.PasswordHasher

	// MinPasswordLength is the registration password policy
	MinPasswordLength int

	// Verbose lets error responses carry internal detail outside production
	Verbose bool

	// LoginRateLimit overrides the default login throttle when set
	LoginRateLimit *middleware.RateLimitConfig

	// AllowedOrigins enables CORS for credentialed browser clients
	AllowedOrigins []string
}

// Server represents our API server
type Server struct {
	router       *mux.Router
	logger       *observability.Logger
	metrics      *observability.Metrics
	authHandlers *AuthHandlers
	userHandlers *UserHandlers
	sessionMW    *middleware.SessionMiddleware
	rateLimiter  *middleware.LoginRateLimiter
	origins      []string
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = auth.MinPasswordLength
	}

	s := &Server{
		router:      mux.NewRouter(),
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		sessionMW:   middleware.NewSessionMiddleware(opts.Manager, opts.Logger, opts.Verbose),
		rateLimiter: middleware.NewLoginRateLimiter(opts.LoginRateLimit),
		origins:     opts.AllowedOrigins,
	}

	s.authHandlers = NewAuthHandlers(opts.Users, opts.Manager, opts.Hasher, opts.Logger, opts.Metrics, opts.MinPasswordLength, opts.Verbose)
	s.userHandlers = NewUserHandlers(opts.Users, opts.Logger, opts.Verbose)

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.Use(
		httputil.RecoveryMiddleware(s.logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger, s.metrics),
	)
	if len(s.origins) > 0 {
		s.router.Use(httputil.CORSMiddleware(s.origins))
	}
	s.router.Use(
		httputil.MaxBytesMiddleware(maxBodyBytes),
		s.sessionMW.Handler,
	)

	// Unauthenticated liveness surface
	s.router.HandleFunc("/", s.root).Methods("GET")

	// Credential routes
	s.router.HandleFunc("/api/auth/register", s.authHandlers.register).Methods("POST")
	s.router.Handle("/api/auth/login",
		s.rateLimiter.Handler(http.HandlerFunc(s.authHandlers.login))).Methods("POST")
	s.router.HandleFunc("/api/auth/logout", s.authHandlers.logout).Methods("GET")

	// Session-protected routes
	s.router.Handle("/api/users",
		s.sessionMW.RequireSession(http.HandlerFunc(s.userHandlers.list))).Methods("GET")

	// Unknown paths get the same message body shape as every other response
	s.router.NotFoundHandler = s.withCommonMiddleware(http.HandlerFunc(s.notFound))
}

// withCommonMiddleware applies the router-level chain to handlers that
// bypass route matching, such as the NotFoundHandler.
func (s *Server) withCommonMiddleware(h http.Handler) http.Handler {
	return httputil.Chain(
		httputil.RecoveryMiddleware(s.logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger, s.metrics),
	)(h)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// root handles GET /
func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, RootResponse{API: "up"})
}

// notFound handles every unmatched path
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, "Not found!")
}
