package factory

import (
	"github.com/mikey/fakenews-detector/internal/adapters/news"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/feed"
	"github.com/mikey/fakenews-detector/internal/whitelist"
	"go.uber.org/zap"
)

// FeedFactory creates the trusted source checker and the feed refresher
type FeedFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFeedFactory creates a new feed factory
func NewFeedFactory(cfg *config.Config, logger *zap.Logger) *FeedFactory {
	return &FeedFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTrustChecker creates a checker for feed.trusted_domains
func (f *FeedFactory) CreateTrustChecker() *whitelist.Checker {
	domains := f.cfg.GetFeed().TrustedDomains
	if len(domains) > 0 {
		f.logger.Info("Loaded trusted domains", zap.Strings("domains", domains))
	}
	return whitelist.NewChecker(domains, f.logger.Named("whitelist"))
}

// CreateRefresher creates the background feed refresher
func (f *FeedFactory) CreateRefresher(
	fetcher *news.Fetcher,
	service *core.HeadlineService,
	notifier core.Notifier,
) *feed.Refresher {
	feedCfg := f.cfg.GetFeed()
	return feed.NewRefresher(
		feed.NewStore(),
		fetcher,
		service,
		notifier,
		service.Metrics(),
		f.logger.Named("feed"),
		feed.Config{
			Interval:         feedCfg.RefreshInterval,
			Size:             feedCfg.Size,
			LiveSize:         feedCfg.LiveSize,
			FetchTimeout:     feedCfg.FetchTimeout,
			NotifyThreshold:  f.cfg.GetNotify().Threshold,
			ReviewSuspicious: f.cfg.GetReview().Feed,
		},
	)
}
