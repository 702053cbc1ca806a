// Package insights keeps the advisory text shown next to the dashboard.
//
// Entries are produced by a Generator and cached on the snapshot together
// with the time they were produced. Reads inside the TTL never reach the
// generator.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long generated entries are served without refreshing.
	DefaultTTL = time.Hour

	// RecentTransactions is how many ledger entries the generator sees.
	RecentTransactions = 10
)

// ErrGenerate wraps generator failures. Cached entries stay in place.
var ErrGenerate = errors.New("generate insights")

// Generator produces advisory entries from a snapshot summary.
type Generator interface {
	Generate(ctx context.Context, summary core.Summary) ([]core.Insight, error)
}

// Store is where the cache reads and writes its state. The engine
// implements it so refreshed entries are persisted with the snapshot.
type Store interface {
	InsightsState() core.InsightsState
	Summary(recent int) core.Summary
	ReplaceInsights(ctx context.Context, entries []core.Insight, at time.Time) error
}

// Outcome is delivered by RefreshAsync.
type Outcome struct {
	Entries []core.Insight
	Err     error
}

type Cache struct {
	store     Store
	generator Generator
	ttl       time.Duration
	now       func() time.Time
	logger    *log.Logger
	group     singleflight.Group
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Cache) { c.logger = l.WithComponent(log.ComponentInsights) }
}

func NewCache(store Store, generator Generator, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		generator: generator,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fresh reports whether st is young enough to be served as is.
func (c *Cache) Fresh(st core.InsightsState) bool {
	if st.LastRefreshedAt.IsZero() {
		return false
	}
	return c.now().Sub(st.LastRefreshedAt) <= c.ttl
}

// Get returns the cached entries, regenerating them when they are stale or
// force is set. On failure the previous entries are returned with the error.
func (c *Cache) Get(ctx context.Context, force bool) ([]core.Insight, error) {
	st := c.store.InsightsState()
	if !force && c.Fresh(st) {
		return st.Entries, nil
	}

	v, err, shared := c.group.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if shared {
		c.logger.DebugContext(ctx, "Joined in-flight insights refresh")
	}
	if err != nil {
		return c.store.InsightsState().Entries, err
	}
	return v.([]core.Insight), nil
}

// RefreshAsync runs Get on its own goroutine. The channel receives exactly
// one Outcome and is then closed.
func (c *Cache) RefreshAsync(ctx context.Context, force bool) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		entries, err := c.Get(ctx, force)
		out <- Outcome{Entries: entries, Err: err}
	}()
	return out
}

func (c *Cache) refresh(ctx context.Context) ([]core.Insight, error) {
	start := c.now()
	raw, err := c.generator.Generate(ctx, c.store.Summary(RecentTransactions))
	if err != nil {
		c.logger.WarnContext(ctx, "Insights generation failed, keeping cached entries",
			log.FieldOperation, log.OpRefresh, log.FieldError, err)
		return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	entries := Normalize(raw)
	if err := c.store.ReplaceInsights(ctx, entries, c.now()); err != nil {
		c.logger.ErrorContext(ctx, "Insights refreshed but not persisted",
			log.FieldOperation, log.OpRefresh, log.FieldError, err)
		return nil, err
	}

	c.logger.InfoContext(ctx, "Insights refreshed",
		log.FieldOperation, log.OpRefresh,
		log.FieldInsights, len(entries),
		log.FieldDuration, c.now().Sub(start).Milliseconds())
	return entries, nil
}
