package schema

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/woxQAQ/esql-lsp/internal/metrics"
)

// DefaultInterval is the delay between refreshes when none is configured.
const DefaultInterval = 60 * time.Second

// Refresher keeps a Cache up to date by fetching on a fixed delay. At most
// one refresh loop runs at a time.
type Refresher struct {
	cache      *Cache
	clock      clock.Clock
	newFetcher func(Source) Fetcher
	metrics    *metrics.Metrics
	logger     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithClock sets the clock driving the refresh delay.
func WithClock(c clock.Clock) RefresherOption {
	return func(r *Refresher) { r.clock = c }
}

// WithFetcherFactory sets how a Fetcher is built for a source.
func WithFetcherFactory(f func(Source) Fetcher) RefresherOption {
	return func(r *Refresher) { r.newFetcher = f }
}

// WithMetrics records refresh outcomes.
func WithMetrics(m *metrics.Metrics) RefresherOption {
	return func(r *Refresher) { r.metrics = m }
}

// WithLogger sets the refresher logger.
func WithLogger(logger *zap.Logger) RefresherOption {
	return func(r *Refresher) { r.logger = logger }
}

// NewRefresher creates an idle refresher writing into cache.
func NewRefresher(cache *Cache, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		cache:      cache,
		clock:      clock.New(),
		newFetcher: func(s Source) Fetcher { return NewClient(s) },
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "schema-refresher"))
	return r
}

// Reconfigure stops the running loop, waits for it to exit, and starts a new
// one for source. A source without URL or API key leaves the refresher idle
// and the cache disabled and empty.
func (r *Refresher) Reconfigure(source Source, interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.cache.Clear()
	r.cache.SetEnabled(source.Enabled())
	if !source.Enabled() {
		r.logger.Info("Schema refresh disabled")
		return
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done = cancel, done

	r.logger.Info("Schema refresh started",
		zap.String("url", source.URL),
		zap.Duration("interval", interval),
	)
	go r.loop(ctx, r.newFetcher(source), interval, done)
}

// Stop ends the running loop, if any, and waits for it.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Refresher) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}

// loop refreshes immediately and then after every interval. A failed cycle
// is reported and the next tick retries.
func (r *Refresher) loop(ctx context.Context, f Fetcher, interval time.Duration, done chan struct{}) {
	defer close(done)
	for {
		if err := r.Refresh(ctx, f); err != nil && ctx.Err() == nil {
			r.logger.Error("Schema refresh failed", zap.Error(err))
		}

		timer := r.clock.Timer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Refresh runs one cycle with f and stores the result. On failure the
// previous snapshot stays in place.
func (r *Refresher) Refresh(ctx context.Context, f Fetcher) error {
	snap, err := f.Fetch(ctx)
	if err != nil {
		r.metrics.ObserveSchemaRefresh(metrics.RefreshError, 0)
		return multierr.Append(err, ctx.Err())
	}
	r.cache.Store(snap)
	r.metrics.ObserveSchemaRefresh(metrics.RefreshOK, len(snap.Fields))
	r.logger.Debug("Schema refreshed", zap.Int("indices", len(snap.Fields)))
	return nil
}
