// Package engine applies transactions to the financial snapshot.
//
// The Engine owns the only live copy of the snapshot. Each recorded
// transaction updates the profile, the matching budget or goal and the
// chart series in memory, then the whole snapshot is saved once.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/exchange"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// ErrPersist wraps gateway failures. The in-memory snapshot keeps the
// update and the next successful save carries it.
var ErrPersist = errors.New("persist snapshot")

// Publisher announces recorded transactions to downstream consumers.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, tx core.Transaction, milestone bool) error
}

// Result is what a caller gets back from RecordTransaction.
type Result struct {
	Snapshot         *core.Snapshot
	MilestoneCrossed bool
}

type Engine struct {
	mu        sync.RWMutex
	snap      *core.Snapshot
	gateway   storage.Gateway
	publisher Publisher
	now       func() time.Time
	logger    *log.Logger
}

type Option func(*Engine)

// WithClock overrides the clock used for current-month checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l.WithComponent(log.ComponentEngine) }
}

// New wraps an already loaded snapshot.
func New(snap *core.Snapshot, gw storage.Gateway, opts ...Option) *Engine {
	e := &Engine{
		snap:    snap,
		gateway: gw,
		now:     time.Now,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.snap.Categories.CategoryMappings == nil {
		e.snap.Categories.CategoryMappings = map[string]string{}
	}
	if e.snap.Statements.IsZero() {
		e.snap.Statements = core.DefaultStatements(e.now())
	}
	return e
}

// Open loads the snapshot from gw. When nothing is stored yet the default
// sample data is seeded and saved.
func Open(ctx context.Context, gw storage.Gateway, opts ...Option) (*Engine, error) {
	snap, err := gw.Load(ctx)
	seeded := false
	switch {
	case errors.Is(err, storage.ErrNotFound):
		snap, seeded = core.DefaultSnapshot(), true
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	e := New(snap, gw, opts...)
	if seeded {
		e.logger.InfoContext(ctx, "No stored snapshot, seeding defaults", log.FieldOperation, log.OpStartup)
		if err := gw.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("%w: seed defaults: %v", ErrPersist, err)
		}
	}
	return e, nil
}

// RecordTransaction applies tx to the snapshot and saves the result.
// Expenses are charged to budgets; income and other positive amounts are
// credited to goals.
//
// Only the category is required. The balance always moves; a date label
// that does not name the current month, or does not parse at all, leaves
// the monthly figures and charts untouched.
//
// On a save failure the returned Result is still populated and the error
// wraps ErrPersist.
func (e *Engine) RecordTransaction(ctx context.Context, tx core.Transaction) (Result, error) {
	if strings.TrimSpace(tx.Category) == "" {
		return Result{}, fmt.Errorf("record transaction: %w", core.ErrEmptyCategory)
	}

	e.mu.Lock()
	currentMonth := core.MonthOf(e.now())
	snap := e.snap

	snap.Transactions = append([]core.Transaction{tx}, snap.Transactions...)
	ApplyProfile(&snap.Profile, tx, currentMonth)

	var milestone bool
	if tx.Amount.IsNegative() {
		ApplyBudget(snap.Budgets, tx, CategoryMap(snap.Categories.CategoryMappings))
	} else {
		milestone = ApplyGoal(snap.Goals, tx)
	}
	ApplyCharts(&snap.ChartData, tx, currentMonth)

	saveErr := e.gateway.Save(ctx, snap)
	res := Result{Snapshot: snap.Clone(), MilestoneCrossed: milestone}
	e.mu.Unlock()

	fields := log.NewFields().WithTransaction(tx).WithOperation(log.OpRecord)
	fields[log.FieldMilestone] = milestone
	if saveErr != nil {
		e.logger.ErrorContext(ctx, "Transaction applied but not persisted", fields.WithError(saveErr).ToSlice()...)
		return res, fmt.Errorf("%w: %v", ErrPersist, saveErr)
	}
	e.logger.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)

	e.publish(ctx, tx, milestone)
	return res, nil
}

func (e *Engine) publish(ctx context.Context, tx core.Transaction, milestone bool) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishTransactionRecorded(ctx, tx, milestone); err != nil {
		// The transaction is already persisted; downstream mirrors catch up later.
		e.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldTxID, tx.ID, log.FieldOperation, log.OpPublish, log.FieldError, err)
	}
}

// Reset restores the default sample data and saves it.
func (e *Engine) Reset(ctx context.Context) error {
	snap := core.DefaultSnapshot()
	snap.Statements = core.DefaultStatements(e.now())
	return e.replace(ctx, snap, log.OpReset)
}

// Import validates doc and replaces the snapshot with it. Sections that the
// document omits besides the required ones are filled from defaults.
func (e *Engine) Import(ctx context.Context, doc []byte) error {
	snap, err := exchange.Import(doc)
	if err != nil {
		return err
	}
	fillMissing(snap, e.now())
	return e.replace(ctx, snap, log.OpImport)
}

// Export returns the snapshot as a JSON document.
func (e *Engine) Export() ([]byte, error) {
	return exchange.Export(e.Snapshot())
}

func (e *Engine) replace(ctx context.Context, snap *core.Snapshot, op string) error {
	if snap.Categories.CategoryMappings == nil {
		snap.Categories.CategoryMappings = map[string]string{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = snap
	if err := e.gateway.Save(ctx, snap); err != nil {
		e.logger.ErrorContext(ctx, "Snapshot replaced but not persisted", log.FieldOperation, op, log.FieldError, err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	e.logger.InfoContext(ctx, "Snapshot replaced", log.FieldOperation, op)
	return nil
}

func fillMissing(snap *core.Snapshot, now time.Time) {
	defaults := core.DefaultSnapshot()
	c := &snap.Categories
	if len(c.BudgetCategories) == 0 && len(c.ExpenseCategories) == 0 && len(c.IncomeCategories) == 0 && len(c.CategoryMappings) == 0 {
		snap.Categories = defaults.Categories
	}
	chart := &snap.ChartData
	for _, s := range []struct {
		period string
		series *[]core.ChartDataPoint
	}{
		{core.PeriodThisMonth, &chart.ThisMonth},
		{core.PeriodLast3Months, &chart.Last3Months},
		{core.PeriodThisYear, &chart.ThisYear},
	} {
		if len(*s.series) == 0 {
			*s.series, _ = GenerateSeries(s.period, now)
		}
	}
	if len(snap.Insights) == 0 {
		snap.Insights = defaults.Insights
	}
	if snap.Statements.IsZero() {
		snap.Statements = core.DefaultStatements(now)
	}
}

// RollPeriod rebuilds the chart series for the month containing now. Points
// whose names survive keep their values; the rest start at zero. Labels
// carry no year, so a yearly series rolled into January keeps last year's
// "Jan" point.
func (e *Engine) RollPeriod(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	chart := &e.snap.ChartData
	var err error
	if chart.ThisMonth, err = rollSeries(chart.ThisMonth, core.PeriodThisMonth, now); err != nil {
		return err
	}
	if chart.Last3Months, err = rollSeries(chart.Last3Months, core.PeriodLast3Months, now); err != nil {
		return err
	}
	if chart.ThisYear, err = rollSeries(chart.ThisYear, core.PeriodThisYear, now); err != nil {
		return err
	}

	if err := e.gateway.Save(ctx, e.snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	e.logger.InfoContext(ctx, "Chart periods rolled", log.FieldOperation, log.OpRoll, log.FieldMonth, string(core.MonthOf(now)))
	return nil
}

// RollIfStale rolls the chart periods when the stored series do not match
// the month containing now, as after a restart in a new month. It reports
// whether a roll happened.
func (e *Engine) RollIfStale(ctx context.Context, now time.Time) (bool, error) {
	e.mu.RLock()
	stale := seriesStale(&e.snap.ChartData, now)
	e.mu.RUnlock()
	if !stale {
		return false, nil
	}
	return true, e.RollPeriod(ctx, now)
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *core.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Clone()
}

func (e *Engine) Profile() core.Profile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Profile
}

// Transactions returns the ledger, newest first.
func (e *Engine) Transactions() []core.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]core.Transaction(nil), e.snap.Transactions...)
}

func (e *Engine) Budgets() []core.BudgetItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]core.BudgetItem(nil), e.snap.Budgets...)
}

func (e *Engine) Goals() []core.Goal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]core.Goal(nil), e.snap.Goals...)
}

func (e *Engine) Categories() core.Categories {
	return e.Snapshot().Categories
}

// Chart returns the named series.
func (e *Engine) Chart(period string) ([]core.ChartDataPoint, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	series, err := e.snap.ChartData.Series(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, period)
	}
	return append([]core.ChartDataPoint(nil), series...), nil
}

// InsightsState returns the cached advisory entries and their refresh time.
func (e *Engine) InsightsState() core.InsightsState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.InsightsState()
}

// Summary returns the view handed to the advisory generator.
func (e *Engine) Summary(recent int) core.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Summarize(recent)
}

// ReplaceInsights stores freshly generated entries and saves the snapshot.
func (e *Engine) ReplaceInsights(ctx context.Context, entries []core.Insight, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap.Insights = append([]core.Insight(nil), entries...)
	e.snap.InsightsRefreshedAt = at
	if err := e.gateway.Save(ctx, e.snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Statements returns a copy of the financial statements.
func (e *Engine) Statements() core.Statements {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Statements.Clone()
}

// UpdateStatements applies fn to a copy of the statements. When fn fails
// nothing changes. Otherwise the copy replaces the live statements and the
// snapshot is saved; a save failure wraps ErrPersist and keeps the update.
func (e *Engine) UpdateStatements(ctx context.Context, fn func(*core.Statements) error) (core.Statements, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.snap.Statements.Clone()
	if err := fn(&next); err != nil {
		return e.snap.Statements.Clone(), err
	}
	e.snap.Statements = next
	if err := e.gateway.Save(ctx, e.snap); err != nil {
		e.logger.ErrorContext(ctx, "Statements updated but not persisted", log.FieldOperation, log.OpStatements, log.FieldError, err)
		return next.Clone(), fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return next.Clone(), nil
}
