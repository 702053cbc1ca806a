package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/exchange"
	"fintrack/internal/insights"
	"fintrack/internal/log"
)

// RecordResponse is returned by POST /api/transactions.
type RecordResponse struct {
	Transaction      core.Transaction `json:"transaction"`
	MilestoneCrossed bool             `json:"milestoneCrossed"`
	Snapshot         *core.Snapshot   `json:"snapshot"`
}

// InsightsResponse is returned by GET /api/insights. Stale is set when a
// refresh failed and the previous entries are served instead.
type InsightsResponse struct {
	Insights []core.Insight `json:"insights"`
	Stale    bool           `json:"stale"`
	Error    string         `json:"error,omitempty"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the engine and advisor are wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]string{"engine": "ok", "insights": "ok"}
	if s.ledger == nil {
		checks["engine"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.advisor == nil {
		checks["insights"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	NewJSONResponse().Status(code).JSON(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}

// handleMetrics provides application and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	write := func(name, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n\n", name, help, name, name, value)
	}
	write("transactions_recorded_total", "Total number of transactions recorded",
		atomic.LoadInt64(&s.appMetrics.transactionsTotal))
	write("snapshot_persist_failures_total", "Snapshot saves that failed after an update",
		atomic.LoadInt64(&s.appMetrics.persistFailures))
	write("rate_limit_hits_total", "Requests rejected by the rate limiter",
		atomic.LoadInt64(&s.metrics.rateLimitHits))
	write("suspicious_requests_total", "Requests matching scanner patterns",
		atomic.LoadInt64(&s.metrics.suspiciousRequests))
	fmt.Fprintf(w, "# HELP rate_limiter_active_clients Tracked client addresses\n# TYPE rate_limiter_active_clients gauge\nrate_limiter_active_clients %d\n",
		s.rateLimiter.ActiveClients())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.ledger.Snapshot()).Write(w)
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	tx, err := ParseTransaction(NewRequestBodyParser(r), s.now())
	if err != nil {
		logger.WarnContext(ctx, "Rejected transaction", log.FieldError, err)
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	res, err := s.ledger.RecordTransaction(ctx, tx)
	switch {
	case errors.Is(err, engine.ErrPersist):
		atomic.AddInt64(&s.appMetrics.persistFailures, 1)
		logger.ErrorContext(ctx, "Transaction applied but not saved",
			log.NewFields().WithTransaction(tx).WithError(err).ToSlice()...)
		InternalServerError("transaction applied but could not be saved").Write(w)
		return
	case err != nil:
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	atomic.AddInt64(&s.appMetrics.transactionsTotal, 1)

	if s.advisor != nil {
		s.refreshInBackground(ctx)
	}

	NewJSONResponse().Status(http.StatusCreated).JSON(RecordResponse{
		Transaction:      tx,
		MilestoneCrossed: res.MilestoneCrossed,
		Snapshot:         res.Snapshot,
	}).Write(w)
}

// refreshInBackground regenerates stale insights without holding up the
// response. The refresh outlives the request.
func (s *Server) refreshInBackground(ctx context.Context) {
	logger := log.FromContext(ctx)
	done := s.advisor.RefreshAsync(context.WithoutCancel(ctx), false)
	go func() {
		if out, ok := <-done; ok && out.Err != nil {
			logger.Warn("Background insights refresh failed", log.FieldError, out.Err)
		}
	}()
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	series, err := s.ledger.Chart(period)
	if errors.Is(err, core.ErrUnknownPeriod) {
		NotFoundError(err.Error()).Write(w)
		return
	}
	if err != nil {
		InternalServerError("failed to read chart").Write(w)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"period": period,
		"points": series,
	}).Write(w)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		ServiceUnavailableError("insights are not configured").Write(w)
		return
	}
	ctx := r.Context()
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	entries, err := s.advisor.Get(ctx, force)
	resp := InsightsResponse{Insights: entries}
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Serving cached insights after refresh failure",
			log.FieldError, err)
		resp.Stale = true
		resp.Error = "insights refresh failed"
		if !errors.Is(err, insights.ErrGenerate) {
			resp.Error = "insights refreshed but could not be saved"
		}
	}
	NewJSONResponse().JSON(resp).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ledger.Export()
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed", log.FieldError, err)
		InternalServerError("export failed").Write(w)
		return
	}
	NewJSONResponse().
		Header("Content-Disposition", `attachment; filename="fintrack-snapshot.json"`).
		Raw(doc).
		Write(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil || !p.IsJSON() {
		BadRequestError("import expects a JSON document").Write(w)
		return
	}

	err := s.ledger.Import(ctx, p.GetRaw())
	var verr *exchange.ValidationError
	switch {
	case errors.As(err, &verr):
		NewJSONResponse().Status(http.StatusUnprocessableEntity).
			JSON(ErrorBody{Error: verr.Error(), Missing: verr.Missing}).
			Write(w)
		return
	case errors.Is(err, engine.ErrPersist):
		atomic.AddInt64(&s.appMetrics.persistFailures, 1)
		InternalServerError("snapshot imported but could not be saved").Write(w)
		return
	case err != nil:
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Snapshot imported", log.FieldOperation, log.OpImport)
	NewJSONResponse().JSON(s.ledger.Snapshot()).Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.ledger.Reset(ctx); err != nil {
		atomic.AddInt64(&s.appMetrics.persistFailures, 1)
		log.FromContext(ctx).ErrorContext(ctx, "Reset not saved", log.FieldError, err)
		InternalServerError("snapshot reset but could not be saved").Write(w)
		return
	}
	NewJSONResponse().JSON(s.ledger.Snapshot()).Write(w)
}
