package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"finview/internal/assistant"
	"finview/internal/auth"
	applog "finview/internal/log"
	"finview/internal/middleware/cors"
	"finview/internal/middleware/ratelimit"
	"finview/internal/middleware/recovery"
	"finview/internal/middleware/security"
	"finview/internal/middleware/trace"
	"finview/internal/services"
)

// ChatResponder answers one chat message.
type ChatResponder interface {
	Chat(ctx context.Context, req services.ChatRequest) (assistant.Reply, error)
}

// Options configures NewServer. Chat is required; everything else has a
// default.
type Options struct {
	Addr string
	Chat ChatResponder
	// Identity resolves the effective user id; nil trusts the body userId.
	Identity *auth.Resolver
	// Ready reports backend health for /readyz; nil means always ready.
	Ready func(ctx context.Context) error
	// CacheSize reports cached snapshot entries for /metrics and /readyz.
	CacheSize          func() int
	RateLimitPerMinute int
	MaxBodyBytes       int64
	Logger             *applog.Logger
}

type appMetrics struct {
	started      time.Time
	chatReplies  int64
	chatRejected int64
	chatFailures int64
}

// Server serves the chat API.
type Server struct {
	http.Server

	chat         ChatResponder
	identity     *auth.Resolver
	ready        func(ctx context.Context) error
	cacheSize    func() int
	maxBodyBytes int64
	logger       *applog.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	identity := opts.Identity
	if identity == nil {
		identity, _ = auth.NewResolver(auth.ClientIdentity, nil)
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	detector := security.NewDetector()
	s := &Server{
		chat:             opts.Chat,
		identity:         identity,
		ready:            opts.Ready,
		cacheSize:        opts.CacheSize,
		maxBodyBytes:     maxBody,
		logger:           logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		appMetrics:       appMetrics{started: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/test", s.handleTest)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/", s.handleNotFound)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// middleware builds the chain; the first entry below runs first.
func (s *Server) middleware(h http.Handler, logger *applog.Logger) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
			applog.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	}
	onPanic := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.appMetrics.chatFailures, 1)
		ChatFailureError().Write(w)
	}

	chain := []func(http.Handler) http.Handler{
		applog.Middleware(logger),
		s.traceMiddleware.Middleware,
		applog.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) }),
		recovery.Middleware(onPanic),
		cors.Middleware(cors.DefaultConfig()),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		s.securityDetector.Middleware,
		s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, onLimit, http.MethodPost),
	}
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Shutdown stops background work and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
