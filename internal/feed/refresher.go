package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/metrics"
	"go.uber.org/zap"
)

// ArticleFetcher returns the newest articles first and never fails
type ArticleFetcher interface {
	FetchLatest(ctx context.Context) []core.Article
}

// Analyzer classifies articles and optionally reviews headlines
type Analyzer interface {
	ClassifyArticles(ctx context.Context, articles []core.Article) []core.AnalyzedArticle
	ReviewEnabled() bool
	Review(ctx context.Context, headline string) (*core.Review, error)
}

// Config controls the refresh loop
type Config struct {
	Interval     time.Duration
	Size         int
	LiveSize     int
	FetchTimeout time.Duration
	// NotifyThreshold is the minimum Fake confidence, in percent, that triggers an alert
	NotifyThreshold float64
	// ReviewSuspicious asks the LLM reviewer about every Fake item
	ReviewSuspicious bool
}

// Refresher rebuilds the feed snapshot on a timer
type Refresher struct {
	store    *Store
	fetcher  ArticleFetcher
	analyzer Analyzer
	notifier core.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time

	// refresh serializes Refresh calls and guards seen, the alert keys of
	// the previous snapshot
	refresh sync.Mutex
	seen    map[string]struct{}

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRefresher creates a new feed refresher. The notifier may be nil.
func NewRefresher(
	store *Store,
	fetcher ArticleFetcher,
	analyzer Analyzer,
	notifier core.Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg Config,
) *Refresher {
	if m == nil {
		m = metrics.New()
	}
	return &Refresher{
		store:    store,
		fetcher:  fetcher,
		analyzer: analyzer,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		seen:     make(map[string]struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Store returns the store the refresher writes to
func (r *Refresher) Store() *Store {
	return r.store
}

// Start refreshes once right away and then on every interval tick until
// Stop is called or ctx is done
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.refreshLogged(ctx)

		if r.cfg.Interval <= 0 {
			return
		}
		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.refreshLogged(ctx)
			}
		}
	}()

	r.logger.Info("Started feed refresher",
		zap.Duration("interval", r.cfg.Interval),
		zap.Int("size", r.cfg.Size))
}

// Stop ends the refresh loop and waits for an in-flight refresh to finish
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Refresher) refreshLogged(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("Error updating news feed", zap.Error(err))
	}
}

// Refresh fetches, classifies and publishes a new snapshot. On failure the
// previous snapshot stays in place.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.refresh.Lock()
	defer r.refresh.Unlock()

	start := r.now()
	items, err := r.analyze(ctx, r.cfg.Size)
	if err != nil {
		r.metrics.RecordRefreshFailure(err)
		return nil, err
	}

	if r.cfg.ReviewSuspicious && r.analyzer.ReviewEnabled() {
		r.reviewSuspicious(ctx, items)
	}

	snapshot := r.store.Replace(items, r.now())
	r.metrics.RecordRefresh(time.Since(start))
	r.logger.Info("Updated news feed",
		zap.String("snapshot_id", snapshot.ID),
		zap.Int("items", len(snapshot.Items)))

	r.notify(ctx, snapshot.Items)
	return snapshot, nil
}

// AnalyzeLive fetches and classifies articles without touching the snapshot
func (r *Refresher) AnalyzeLive(ctx context.Context) ([]core.AnalyzedArticle, error) {
	return r.analyze(ctx, r.cfg.LiveSize)
}

func (r *Refresher) analyze(ctx context.Context, limit int) ([]core.AnalyzedArticle, error) {
	fetchCtx := ctx
	if r.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.cfg.FetchTimeout)
		defer cancel()
	}

	articles := r.fetcher.FetchLatest(fetchCtx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return r.analyzer.ClassifyArticles(ctx, articles), nil
}

func (r *Refresher) reviewSuspicious(ctx context.Context, items []core.AnalyzedArticle) {
	for i := range items {
		if items[i].Prediction != core.PredictionFake {
			continue
		}
		review, err := r.analyzer.Review(ctx, items[i].Title)
		if err != nil {
			if errors.Is(err, core.ErrReviewDisabled) {
				return
			}
			continue
		}
		items[i].Review = review
	}
}

// notify alerts on suspicious items that were not in the previous snapshot
func (r *Refresher) notify(ctx context.Context, items []core.AnalyzedArticle) {
	current := make(map[string]struct{}, len(items))
	var fresh []core.AnalyzedArticle

	for _, item := range items {
		key := item.URL + "|" + item.Title
		current[key] = struct{}{}
		if _, ok := r.seen[key]; ok {
			continue
		}
		if r.isSuspicious(item) {
			fresh = append(fresh, item)
		}
	}
	r.seen = current

	if r.notifier == nil || len(fresh) == 0 {
		return
	}

	err := r.notifier.NotifySuspicious(ctx, fresh)
	r.metrics.RecordNotification(err)
	if err != nil {
		r.logger.Error("Failed to send suspicious headline alert", zap.Error(err))
		return
	}
	r.logger.Info("Sent suspicious headline alert", zap.Int("count", len(fresh)))
}

func (r *Refresher) isSuspicious(item core.AnalyzedArticle) bool {
	return item.Prediction == core.PredictionFake &&
		!item.TrustedSource &&
		item.Confidence >= r.cfg.NotifyThreshold
}
