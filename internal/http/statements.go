package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/log"
	"fintrack/internal/statements"
)

// Bookkeeper maintains the financial statements.
type Bookkeeper interface {
	BalanceSheet() statements.BalanceSheetReport
	SetBalanceSheetDate(ctx context.Context, date string) (statements.BalanceSheetReport, error)
	AddBalanceItem(ctx context.Context, item core.BalanceItem) (core.BalanceItem, error)
	UpdateBalanceItem(ctx context.Context, item core.BalanceItem) (core.BalanceItem, error)
	DeleteBalanceItem(ctx context.Context, id string) error

	IncomeStatement(ctx context.Context, start, end string) (statements.IncomeStatementReport, error)
	AddIncomeItem(ctx context.Context, kind core.IncomeItemType, item core.IncomeItem) (core.IncomeItem, error)
	UpdateIncomeItem(ctx context.Context, kind core.IncomeItemType, item core.IncomeItem) (core.IncomeItem, error)
	DeleteIncomeItem(ctx context.Context, kind core.IncomeItemType, id string) error

	CashFlow(ctx context.Context, start, end string) (statements.CashFlowReport, error)
	SetStartingBalance(ctx context.Context, amount decimal.Decimal) (statements.CashFlowReport, error)
	AddCashFlowItem(ctx context.Context, item core.CashFlowItem) (statements.CashFlowReport, error)
	UpdateCashFlowItem(ctx context.Context, item core.CashFlowItem) (statements.CashFlowReport, error)
	DeleteCashFlowItem(ctx context.Context, id string) (statements.CashFlowReport, error)
}

// WithStatements enables the /api/statements routes.
func WithStatements(b Bookkeeper) Option {
	return func(s *Server) { s.books = b }
}

func (s *Server) statementRoutes(r chi.Router) {
	r.Use(s.requireBooks)

	r.Get("/balance-sheet", s.handleBalanceSheet)
	r.Put("/balance-sheet", s.handleBalanceSheetDate)
	r.Post("/balance-sheet/items", s.handleAddBalanceItem)
	r.Put("/balance-sheet/items/{id}", s.handleUpdateBalanceItem)
	r.Delete("/balance-sheet/items/{id}", s.handleDeleteBalanceItem)

	r.Get("/income", s.handleIncomeStatement)
	r.Post("/income/{kind}", s.handleAddIncomeItem)
	r.Put("/income/{kind}/{id}", s.handleUpdateIncomeItem)
	r.Delete("/income/{kind}/{id}", s.handleDeleteIncomeItem)

	r.Get("/cash-flow", s.handleCashFlow)
	r.Put("/cash-flow", s.handleStartingBalance)
	r.Post("/cash-flow/items", s.handleAddCashFlowItem)
	r.Put("/cash-flow/items/{id}", s.handleUpdateCashFlowItem)
	r.Delete("/cash-flow/items/{id}", s.handleDeleteCashFlowItem)
}

func (s *Server) requireBooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.books == nil {
			ServiceUnavailableError("statements are not configured").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeStatementError maps service errors onto status codes.
func (s *Server) writeStatementError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, engine.ErrPersist):
		atomic.AddInt64(&s.appMetrics.persistFailures, 1)
		log.FromContext(ctx).ErrorContext(ctx, "Statement updated but not saved", log.FieldError, err)
		InternalServerError("statement updated but could not be saved").Write(w)
	case errors.Is(err, core.ErrItemNotFound):
		NotFoundError(err.Error()).Write(w)
	case errors.Is(err, core.ErrDuplicateItem):
		ErrorResponse(http.StatusConflict, err.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidItem), errors.Is(err, core.ErrUnknownItemType),
		errors.Is(err, core.ErrInvalidPeriod), errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		log.FromContext(ctx).ErrorContext(ctx, "Statement request failed", log.FieldError, err)
		InternalServerError("statement request failed").Write(w)
	}
}

// parseStatementAmount accepts what ParseAmount accepts, plus zero.
func parseStatementAmount(v string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(v)
	if errors.Is(err, core.ErrInvalidAmount) {
		z, zerr := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v), ",", "."))
		if zerr == nil && z.Round(2).IsZero() {
			return decimal.Zero, nil
		}
	}
	return d, err
}

func parseBalanceItem(r *http.Request, id string) (core.BalanceItem, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return core.BalanceItem{}, fmt.Errorf("%w: malformed request body", core.ErrInvalidItem)
	}
	amount, err := parseStatementAmount(p.Get("amount"))
	if err != nil {
		return core.BalanceItem{}, err
	}
	if id == "" {
		id = p.Get("id")
	}
	return core.BalanceItem{
		ID:     id,
		Name:   p.Get("name"),
		Amount: amount,
		Type:   core.BalanceItemType(p.Get("type")),
	}, nil
}

func parseIncomeItem(r *http.Request, id string) (core.IncomeItem, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return core.IncomeItem{}, fmt.Errorf("%w: malformed request body", core.ErrInvalidItem)
	}
	amount, err := parseStatementAmount(p.Get("amount"))
	if err != nil {
		return core.IncomeItem{}, err
	}
	if id == "" {
		id = p.Get("id")
	}
	return core.IncomeItem{
		ID:       id,
		Name:     p.Get("name"),
		Amount:   amount,
		Category: p.Get("category"),
	}, nil
}

func parseCashFlowItem(r *http.Request, id string) (core.CashFlowItem, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return core.CashFlowItem{}, fmt.Errorf("%w: malformed request body", core.ErrInvalidItem)
	}
	amount, err := parseStatementAmount(p.Get("amount"))
	if err != nil {
		return core.CashFlowItem{}, err
	}
	if id == "" {
		id = p.Get("id")
	}
	return core.CashFlowItem{
		ID:       id,
		Name:     p.Get("name"),
		Amount:   amount,
		Category: core.CashFlowCategory(p.Get("category")),
	}, nil
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.books.BalanceSheet()).Write(w)
}

func (s *Server) handleBalanceSheetDate(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	report, err := s.books.SetBalanceSheetDate(r.Context(), p.Get("date"))
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleAddBalanceItem(w http.ResponseWriter, r *http.Request) {
	item, err := parseBalanceItem(r, "")
	if err == nil {
		item, err = s.books.AddBalanceItem(r.Context(), item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(item).Write(w)
}

func (s *Server) handleUpdateBalanceItem(w http.ResponseWriter, r *http.Request) {
	item, err := parseBalanceItem(r, chi.URLParam(r, "id"))
	if err == nil {
		item, err = s.books.UpdateBalanceItem(r.Context(), item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(item).Write(w)
}

func (s *Server) handleDeleteBalanceItem(w http.ResponseWriter, r *http.Request) {
	if err := s.books.DeleteBalanceItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(s.books.BalanceSheet()).Write(w)
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := s.books.IncomeStatement(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleAddIncomeItem(w http.ResponseWriter, r *http.Request) {
	kind := core.IncomeItemType(chi.URLParam(r, "kind"))
	item, err := parseIncomeItem(r, "")
	if err == nil {
		item, err = s.books.AddIncomeItem(r.Context(), kind, item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(item).Write(w)
}

func (s *Server) handleUpdateIncomeItem(w http.ResponseWriter, r *http.Request) {
	kind := core.IncomeItemType(chi.URLParam(r, "kind"))
	item, err := parseIncomeItem(r, chi.URLParam(r, "id"))
	if err == nil {
		item, err = s.books.UpdateIncomeItem(r.Context(), kind, item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(item).Write(w)
}

func (s *Server) handleDeleteIncomeItem(w http.ResponseWriter, r *http.Request) {
	kind := core.IncomeItemType(chi.URLParam(r, "kind"))
	if err := s.books.DeleteIncomeItem(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	report, err := s.books.IncomeStatement(r.Context(), "", "")
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := s.books.CashFlow(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleStartingBalance(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	amount, err := parseStatementAmount(p.Get("startingBalance"))
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	report, err := s.books.SetStartingBalance(r.Context(), amount)
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleAddCashFlowItem(w http.ResponseWriter, r *http.Request) {
	item, err := parseCashFlowItem(r, "")
	var report statements.CashFlowReport
	if err == nil {
		report, err = s.books.AddCashFlowItem(r.Context(), item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(report).Write(w)
}

func (s *Server) handleUpdateCashFlowItem(w http.ResponseWriter, r *http.Request) {
	item, err := parseCashFlowItem(r, chi.URLParam(r, "id"))
	var report statements.CashFlowReport
	if err == nil {
		report, err = s.books.UpdateCashFlowItem(r.Context(), item)
	}
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleDeleteCashFlowItem(w http.ResponseWriter, r *http.Request) {
	report, err := s.books.DeleteCashFlowItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStatementError(w, r, err)
		return
	}
	NewJSONResponse().JSON(report).Write(w)
}
