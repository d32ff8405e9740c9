package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/next-to-go-service/internal/domain/races"
	"github.com/preston-bernstein/next-to-go-service/internal/logging"
	"github.com/preston-bernstein/next-to-go-service/internal/metrics"
	"github.com/preston-bernstein/next-to-go-service/internal/providers"
)

const (
	defaultInterval     = 30 * time.Second
	defaultFetchTimeout = 10 * time.Second
	refreshKey          = "refresh"
	readyFailureLimit   = 3
)

// FeedWriter receives each successfully fetched feed.
type FeedWriter interface {
	ReplaceRaces(list []races.Race)
}

// Config tunes the refresh loop.
type Config struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

// Poller drives the provider on an interval and replaces the feed on every successful fetch.
// A failed fetch leaves the feed untouched. Start and Stop may be called any number of times;
// at most one refresh loop is armed at once.
type Poller struct {
	provider providers.RaceProvider
	feed     FeedWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	current    time.Duration

	flight singleflight.Group

	statusMu sync.RWMutex
	status   Status
}

// Status describes the scheduler state and the recent health of refreshes.
type Status struct {
	Running             bool          `json:"running"`
	Interval            time.Duration `json:"-"`
	IntervalMS          int64         `json:"intervalMs"`
	Fetching            bool          `json:"fetching"`
	ConsecutiveFailures int           `json:"consecutiveFailures"`
	LastError           string        `json:"lastError,omitempty"`
	LastAttempt         time.Time     `json:"lastAttempt"`
	LastSuccess         time.Time     `json:"lastSuccess"`
}

// IsReady reports whether the poller has had a success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureLimit
}

// New constructs a Poller; non-positive durations fall back to defaults.
func New(provider providers.RaceProvider, feed FeedWriter, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &Poller{
		provider: provider,
		feed:     feed,
		logger:   logger,
		metrics:  recorder,
		interval: cfg.Interval,
		timeout:  cfg.FetchTimeout,
		now:      time.Now,
	}
}

// Start arms the refresh loop with interval (the configured default when <= 0).
// A loop that is already running is cancelled before the new one is armed.
// The loop also ends when ctx is cancelled.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.interval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	restarted := p.cancel != nil
	if restarted {
		p.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.generation++
	p.current = interval

	go p.loop(loopCtx, p.generation, time.NewTicker(interval))

	logging.Info(p.logger, "poller started",
		slog.Int64(logging.FieldIntervalMS, interval.Milliseconds()),
		slog.Bool("restarted", restarted),
	)
}

// Stop cancels the refresh loop. It is a no-op when stopped.
// A fetch already in flight is not aborted and still writes its result.
func (p *Poller) Stop(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return nil
	}
	p.cancel()
	p.cancel = nil
	p.current = 0
	logging.Info(p.logger, "poller stopped")
	return nil
}

// Running reports whether a refresh loop is armed.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Interval returns the interval of the armed loop, or zero when stopped.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Poller) loop(ctx context.Context, generation uint64, ticker *time.Ticker) {
	defer ticker.Stop()
	defer p.loopExited(generation)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick racing with cancellation must not start a new fetch.
			if ctx.Err() != nil {
				return
			}
			_, _ = p.Refresh(ctx)
		}
	}
}

// loopExited clears running state when the parent context ended the current loop.
func (p *Poller) loopExited(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == generation && p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.current = 0
	}
}

// Refresh fetches once and replaces the feed on success. Concurrent callers share a single
// upstream call. The fetch runs under its own timeout and outlives ctx; ctx only bounds how
// long this caller waits for the result.
func (p *Poller) Refresh(ctx context.Context) ([]races.Race, error) {
	ch := p.flight.DoChan(refreshKey, func() (any, error) {
		return p.fetchOnce(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		list, _ := res.Val.([]races.Race)
		return list, nil
	}
}

func (p *Poller) fetchOnce(ctx context.Context) ([]races.Race, error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	start := p.now()
	p.recordAttempt(start)
	list, err := p.provider.FetchRaces(fetchCtx)
	elapsed := p.now().Sub(start)
	p.metrics.RecordPollerCycle(elapsed, err)
	if err != nil {
		logging.Error(p.logger, "poller fetch failed", err, slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()))
		p.recordFailure(err, start)
		return nil, err
	}

	if p.feed != nil {
		p.feed.ReplaceRaces(list)
	}
	p.metrics.RecordFeedSize(len(list))
	p.recordSuccess(start)
	logging.Info(p.logger, "poller refreshed races",
		slog.Int(logging.FieldCount, len(list)),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	return list, nil
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
	p.status.Fetching = true
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.Fetching = false
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.Fetching = false
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the scheduler state and recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	status := p.status
	p.statusMu.RUnlock()

	p.mu.Lock()
	status.Running = p.cancel != nil
	status.Interval = p.current
	p.mu.Unlock()
	status.IntervalMS = status.Interval.Milliseconds()
	return status
}
