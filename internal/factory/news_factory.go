package factory

import (
	"fmt"

	"github.com/mikey/fakenews-detector/internal/adapters/news"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/retry"
	"github.com/mikey/fakenews-detector/internal/utils"
	"go.uber.org/zap"
)

// NewsFactory creates the news fetcher and its sources
type NewsFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNewsFactory creates a new news factory
func NewNewsFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *NewsFactory {
	return &NewsFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateFetcher creates a fetcher trying NewsAPI, then RSS, then the sample set
func (f *NewsFactory) CreateFetcher() (*news.Fetcher, error) {
	logger := f.logger.Named("news")
	var sources []core.NewsSource

	newsAPICfg := f.cfg.GetNewsAPI()
	if newsAPICfg.Enabled && newsAPICfg.APIKey != "" {
		retryCfg := f.cfg.GetRetry()
		sources = append(sources, news.NewNewsAPISource(
			newsAPICfg.URL,
			newsAPICfg.APIKey,
			newsAPICfg.Country,
			newsAPICfg.PageSize,
			newsAPICfg.Timeout,
			retry.Config{
				MaxAttempts: retryCfg.MaxAttempts,
				Delay:       retryCfg.Delay,
				Backoff:     retryCfg.Backoff,
			},
			logger,
		))
	} else if newsAPICfg.Enabled {
		logger.Warn("NewsAPI is enabled but no API key is set, skipping")
	}

	rssCfg := f.cfg.GetRSS()
	if rssCfg.Enabled {
		feeds := rssCfg.Feeds
		if rssCfg.FeedsFile != "" {
			loaded, err := news.LoadFeeds(rssCfg.FeedsFile)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
			}
			feeds = loaded
		}
		if len(feeds) > 0 {
			sources = append(sources, news.NewRSSSource(
				feeds,
				rssCfg.PerFeed,
				rssCfg.Delay,
				rssCfg.Timeout,
				f.textProcessor,
				logger,
			))
		}
	}

	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = source.Name()
	}
	logger.Info("Configured news sources", zap.Strings("sources", names))

	return news.NewFetcher(sources, news.NewStaticSource(), logger), nil
}
