package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/insights"
	"fintrack/internal/log"
)

// Ledger is the part of the engine the HTTP shell drives.
type Ledger interface {
	RecordTransaction(ctx context.Context, tx core.Transaction) (engine.Result, error)
	Snapshot() *core.Snapshot
	Chart(period string) ([]core.ChartDataPoint, error)
	Export() ([]byte, error)
	Import(ctx context.Context, doc []byte) error
	Reset(ctx context.Context) error
}

// Advisor serves cached insights and refreshes them on demand.
type Advisor interface {
	Get(ctx context.Context, force bool) ([]core.Insight, error)
	RefreshAsync(ctx context.Context, force bool) <-chan insights.Outcome
}

// appMetrics holds application level counters.
type appMetrics struct {
	uptime            time.Time
	transactionsTotal int64
	persistFailures   int64
}

type Server struct {
	http.Server
	ledger      Ledger
	advisor     Advisor
	books       Bookkeeper
	logger      *log.Logger
	now         func() time.Time
	rateLimiter *rateLimiter
	metrics     securityMetrics
	appMetrics  appMetrics

	shutdownOnce sync.Once
}

// Option configures optional server behaviour.
type Option func(*Server)

// WithClock overrides the clock used for default transaction ids and dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithRateLimit sets how many mutating requests a client may issue per window.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimiter.limit = limit
		s.rateLimiter.window = window
	}
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, advisor Advisor, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      ledger,
		advisor:     advisor,
		logger:      logger.WithComponent(log.ComponentHTTP),
		now:         time.Now,
		rateLimiter: newRateLimiter(defaultRateLimit, defaultRateWindow),
		appMetrics:  appMetrics{uptime: time.Now()},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger, middleware.GetReqID))
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/transactions", s.handleRecordTransaction)
		r.Get("/charts/{period}", s.handleChart)
		r.Get("/insights", s.handleInsights)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/reset", s.handleReset)
		r.Route("/statements", s.statementRoutes)
	})

	return r
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
