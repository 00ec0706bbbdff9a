package deck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/storage"
)

const (
	logCacheTTL = 10 * time.Second
	logCacheKey = "kiosk:deck:logs"
)

// Querier is an interface for querying dashboard data.
// This allows for mock implementations in testing and sandboxes.
type Querier interface {
	Dashboard(ctx context.Context, filters Filters) (*Dashboard, error)
	CurrentLogs(ctx context.Context, filters Filters) ([]chatlog.ChatLog, error)
}

// LogCache shares the loaded lookback window between processes, e.g. several
// API replicas behind one kiosk.
type LogCache interface {
	Get(ctx context.Context, key string) ([]chatlog.ChatLog, bool, error)
	Set(ctx context.Context, key string, logs []chatlog.ChatLog, ttl time.Duration) error
}

type Query struct {
	driver       storage.Driver
	keywords     *KeywordExtractor
	lookbackDays int
	cacheTTL     time.Duration
	shared       LogCache
	now          func() time.Time
	logger       *slog.Logger
	cache        logCache
}

// Ensure Query implements Querier
var _ Querier = (*Query)(nil)

type QueryOption func(*Query)

func WithClock(now func() time.Time) QueryOption {
	return func(q *Query) { q.now = now }
}

func WithLookbackDays(days int) QueryOption {
	return func(q *Query) { q.lookbackDays = days }
}

// WithCacheTTL sets how long a loaded window is reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) QueryOption {
	return func(q *Query) { q.cacheTTL = ttl }
}

func WithLogCache(cache LogCache) QueryOption {
	return func(q *Query) { q.shared = cache }
}

func WithKeywords(extractor *KeywordExtractor) QueryOption {
	return func(q *Query) { q.keywords = extractor }
}

func WithLogger(logger *slog.Logger) QueryOption {
	return func(q *Query) { q.logger = logger }
}

// NewQuery builds a Query reading chat logs from driver.
func NewQuery(driver storage.Driver, opts ...QueryOption) *Query {
	q := &Query{
		driver:       driver,
		keywords:     NewKeywordExtractor(nil),
		lookbackDays: DefaultLookbackDays,
		cacheTTL:     logCacheTTL,
		now:          time.Now,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

type logCache struct {
	mu       sync.RWMutex
	logs     []chatlog.ChatLog
	loadedAt time.Time
}

// Dashboard builds the dashboard for filters from the lookback window.
func (q *Query) Dashboard(ctx context.Context, filters Filters) (*Dashboard, error) {
	logs, err := q.loadLogs(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(logs, filters, q.now(), q.keywords), nil
}

// CurrentLogs returns the logs inside the current period of filters,
// newest first.
func (q *Query) CurrentLogs(ctx context.Context, filters Filters) ([]chatlog.ChatLog, error) {
	logs, err := q.loadLogs(ctx)
	if err != nil {
		return nil, err
	}

	period, ok := ResolvePeriod(filters.Range, q.now(), filters.CustomStart, filters.CustomEnd)
	if !ok {
		return []chatlog.ChatLog{}, nil
	}
	current, _ := Partition(logs, period)
	return current, nil
}

// Invalidate drops the in-process cache so the next call reloads.
func (q *Query) Invalidate() {
	q.cache.mu.Lock()
	defer q.cache.mu.Unlock()
	q.cache.logs = nil
	q.cache.loadedAt = time.Time{}
}

// BuildDashboard assembles a Dashboard from the loaded logs.
func BuildDashboard(logs []chatlog.ChatLog, filters Filters, now time.Time, keywords *KeywordExtractor) *Dashboard {
	if filters.Range == "" {
		filters.Range = Range7Days
	}
	if keywords == nil {
		keywords = NewKeywordExtractor(nil)
	}

	dashboard := &Dashboard{
		Range:       filters.Range,
		GeneratedAt: now,
	}

	var current, previous []chatlog.ChatLog
	period, ok := ResolvePeriod(filters.Range, now, filters.CustomStart, filters.CustomEnd)
	if ok {
		dashboard.Period = period
		current, previous = Partition(logs, period)
	}

	dashboard.MainStats = ComputeMainStats(current, previous)
	dashboard.Series = ActivitySeries(current, filters.Range, now, filters.CustomStart, filters.CustomEnd)
	dashboard.Services = ServiceBreakdown(current)
	dashboard.Keywords = keywords.TopKeywords(current, previous, DefaultTopKeywords)
	dashboard.Failures = RecentFailures(current, DefaultTopFailures)
	dashboard.CurrentCount = len(current)

	return dashboard
}

func (q *Query) loadLogs(ctx context.Context) ([]chatlog.ChatLog, error) {
	if cached := q.cachedLogs(); cached != nil {
		return cached, nil
	}

	if q.shared != nil && q.cacheTTL > 0 {
		logs, ok, err := q.shared.Get(ctx, logCacheKey)
		if err != nil {
			q.logger.Warn("shared dashboard cache read failed", "error", err)
		} else if ok {
			q.storeLogs(logs)
			return copyLogs(logs), nil
		}
	}

	logs, err := storage.FetchRecent(ctx, q.driver, q.lookbackDays, q.now())
	if err != nil {
		return nil, fmt.Errorf("fetch chat logs: %w", err)
	}
	q.logger.Debug("loaded chat logs", "count", len(logs), "lookback_days", q.lookbackDays)

	if q.shared != nil && q.cacheTTL > 0 {
		if err := q.shared.Set(ctx, logCacheKey, logs, q.cacheTTL); err != nil {
			q.logger.Warn("shared dashboard cache write failed", "error", err)
		}
	}

	q.storeLogs(logs)
	return copyLogs(logs), nil
}

func (q *Query) cachedLogs() []chatlog.ChatLog {
	if q.cacheTTL <= 0 {
		return nil
	}

	q.cache.mu.RLock()
	defer q.cache.mu.RUnlock()

	if q.cache.loadedAt.IsZero() {
		return nil
	}
	if q.now().Sub(q.cache.loadedAt) > q.cacheTTL {
		return nil
	}

	return copyLogs(q.cache.logs)
}

func (q *Query) storeLogs(logs []chatlog.ChatLog) {
	if q.cacheTTL <= 0 {
		return
	}

	q.cache.mu.Lock()
	defer q.cache.mu.Unlock()
	q.cache.logs = copyLogs(logs)
	q.cache.loadedAt = q.now()
}

func copyLogs(logs []chatlog.ChatLog) []chatlog.ChatLog {
	copied := make([]chatlog.ChatLog, len(logs))
	copy(copied, logs)
	return copied
}
