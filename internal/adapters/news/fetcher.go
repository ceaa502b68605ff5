// Package news retrieves headline records from newsapi.org, RSS feeds and a
// built-in sample set
package news

import (
	"context"
	"sort"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

// Fetcher asks each source in order and keeps the first non-empty answer,
// falling back to the sample articles
type Fetcher struct {
	sources  []core.NewsSource
	fallback *StaticSource
	logger   *zap.Logger
}

// NewFetcher creates a new fetcher over the given sources
func NewFetcher(sources []core.NewsSource, fallback *StaticSource, logger *zap.Logger) *Fetcher {
	if fallback == nil {
		fallback = NewStaticSource()
	}
	return &Fetcher{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchLatest returns the newest articles first. It never fails: when every
// live source errors or comes back empty the sample articles are used.
func (f *Fetcher) FetchLatest(ctx context.Context) []core.Article {
	var articles []core.Article

	for _, source := range f.sources {
		fetched, err := source.FetchArticles(ctx)
		if err != nil {
			f.logger.Warn("News source failed", zap.String("source", source.Name()), zap.Error(err))
		}
		if len(fetched) > 0 {
			articles = fetched
			break
		}
	}

	if len(articles) == 0 {
		f.logger.Info("Using sample news data")
		articles = f.fallback.Articles()
	}

	SortByPublished(articles)
	f.logger.Debug("Fetched articles", zap.Int("count", len(articles)))
	return articles
}

// Search matches query against the sample article titles
func (f *Fetcher) Search(query string) []core.Article {
	return f.fallback.Search(query)
}

// SortByPublished orders articles by published_at, newest first. Articles
// without an RFC 3339 timestamp go last in their original order.
func SortByPublished(articles []core.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, okI := parsePublished(articles[i].PublishedAt)
		tj, okJ := parsePublished(articles[j].PublishedAt)
		if okI != okJ {
			return okI
		}
		return okI && ti.After(tj)
	})
}

func parsePublished(value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, value)
	return t, err == nil
}
