// Package server exposes crossbar wiring plans over HTTP.
//
// # Routes
//
//	GET /healthz                               liveness and build info
//	GET /v1/crossbar/{n}                       plan summary with the block table
//	GET /v1/crossbar/{n}/connections           full plan (?format=json|jsonl, ?refresh=1)
//	GET /v1/crossbar/{n}/verify                verification report
//
// Plans are served through a [pipeline.Runner], so responses share the
// runner's cache. Connection responses carry an ETag and honour
// If-None-Match.
//
// Errors are JSON objects of the form
//
//	{"error": {"code": "OUT_OF_RANGE", "message": "..."}, "request_id": "..."}
//
// with the status derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matzehuels/xbar/pkg/pipeline"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultMaxTerminals    = 512
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// MaxTerminals caps n on every route. Zero means DefaultMaxTerminals,
	// negative disables the cap.
	MaxTerminals int

	// Rate is the sustained request rate in requests per second across all
	// clients; Burst is the bucket size. Rate <= 0 disables limiting.
	Rate  float64
	Burst int

	// CacheTTL is how long generated plans stay in the runner's cache. Zero
	// means pipeline.DefaultCacheTTL.
	CacheTTL time.Duration

	ShutdownTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxTerminals == 0 {
		c.MaxTerminals = DefaultMaxTerminals
	}
	if c.Burst <= 0 {
		c.Burst = max(1, int(c.Rate))
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// limit returns the terminal cap in the form pkg/errors expects.
func (c Config) limit() int {
	if c.MaxTerminals < 0 {
		return 0
	}
	return c.MaxTerminals
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// New builds a server around runner. A nil runner gets an uncached one and
// a nil logger falls back to log.Default().
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
	if cfg.Rate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/crossbar/{n}", func(r chi.Router) {
		r.Use(s.terminalGuard)
		r.Get("/", s.handleSummary)
		r.Get("/connections", s.handleConnections)
		r.Get("/verify", s.handleVerify)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(r, "METHOD_NOT_ALLOWED", r.Method+" not allowed"))
	})
	return r
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to cfg.ShutdownTimeout to finish. A clean
// shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String(), "max_terminals", s.cfg.MaxTerminals)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
