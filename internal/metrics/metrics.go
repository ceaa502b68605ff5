// Package metrics keeps process-wide counters and timings for the service
package metrics

import (
	"sync"
	"time"
)

// Metrics is a set of mutex-guarded counters
type Metrics struct {
	mu sync.RWMutex

	// Counters
	Predictions        int64
	PredictionErrors   int64
	CacheHits          int64
	CacheMisses        int64
	Reviews            int64
	ReviewErrors       int64
	FeedRefreshes      int64
	FeedFailures       int64
	ArticlesClassified int64
	NotificationsSent  int64
	NotifyFailures     int64

	// Timings
	LastRefreshDuration    time.Duration
	AverageRefreshDuration time.Duration
	totalRefreshDuration   time.Duration

	// Status
	StartedAt     time.Time
	LastRefreshAt time.Time
	LastErrorAt   time.Time
	LastError     string
}

// New returns metrics with the start time set
func New() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) add(counter *int64, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter += n
}

// RecordPrediction counts one prediction and whether it failed
func (m *Metrics) RecordPrediction(failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Predictions++
	if failed {
		m.PredictionErrors++
	}
}

// IncrementCacheHits counts a cache hit
func (m *Metrics) IncrementCacheHits() { m.add(&m.CacheHits, 1) }

// IncrementCacheMisses counts a cache miss
func (m *Metrics) IncrementCacheMisses() { m.add(&m.CacheMisses, 1) }

// RecordReview counts one LLM review and whether it failed
func (m *Metrics) RecordReview(failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reviews++
	if failed {
		m.ReviewErrors++
	}
}

// AddArticlesClassified counts classified feed articles
func (m *Metrics) AddArticlesClassified(n int) { m.add(&m.ArticlesClassified, int64(n)) }

// RecordNotification counts an alert delivery attempt
func (m *Metrics) RecordNotification(err error) {
	if err != nil {
		m.add(&m.NotifyFailures, 1)
		m.SetError(err.Error())
		return
	}
	m.add(&m.NotificationsSent, 1)
}

// RecordRefresh records a completed feed refresh
func (m *Metrics) RecordRefresh(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FeedRefreshes++
	m.LastRefreshAt = time.Now()
	m.LastRefreshDuration = duration
	m.totalRefreshDuration += duration
	m.AverageRefreshDuration = m.totalRefreshDuration / time.Duration(m.FeedRefreshes)
}

// RecordRefreshFailure records a failed feed refresh
func (m *Metrics) RecordRefreshFailure(err error) {
	m.add(&m.FeedFailures, 1)
	m.SetError(err.Error())
}

// SetError remembers the most recent error
func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorAt = time.Now()
}

// GetStats returns a JSON friendly snapshot
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"predictions":                 m.Predictions,
		"prediction_errors":           m.PredictionErrors,
		"cache_hits":                  m.CacheHits,
		"cache_misses":                m.CacheMisses,
		"reviews":                     m.Reviews,
		"review_errors":               m.ReviewErrors,
		"feed_refreshes":              m.FeedRefreshes,
		"feed_failures":               m.FeedFailures,
		"articles_classified":         m.ArticlesClassified,
		"notifications_sent":          m.NotificationsSent,
		"notification_failures":       m.NotifyFailures,
		"last_refresh_duration_ms":    m.LastRefreshDuration.Milliseconds(),
		"average_refresh_duration_ms": m.AverageRefreshDuration.Milliseconds(),
		"uptime_seconds":              int64(time.Since(m.StartedAt).Seconds()),
		"last_refresh_at":             formatTime(m.LastRefreshAt),
		"last_error_at":               formatTime(m.LastErrorAt),
		"last_error":                  m.LastError,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
