package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// RSSSource reads the newest items of a list of RSS or Atom feeds
type RSSSource struct {
	feeds         []string
	perFeed       int
	delay         time.Duration
	client        *http.Client
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

var _ core.NewsSource = (*RSSSource)(nil)

// NewRSSSource creates a new RSS source
func NewRSSSource(
	feeds []string,
	perFeed int,
	delay time.Duration,
	timeout time.Duration,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *RSSSource {
	if perFeed < 0 {
		logger.Warn("Negative rss.per_feed, reading every item", zap.Int("per_feed", perFeed))
		perFeed = 0
	}
	return &RSSSource{
		feeds:         feeds,
		perFeed:       perFeed,
		delay:         delay,
		client:        &http.Client{Timeout: timeout},
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Name returns the source name
func (s *RSSSource) Name() string {
	return "rss"
}

// FetchArticles reads every feed in turn, pausing between feeds.
// A feed that fails is logged and skipped.
func (s *RSSSource) FetchArticles(ctx context.Context) ([]core.Article, error) {
	// gofeed parsers keep per-parse state, so each fetch gets its own
	parser := gofeed.NewParser()
	parser.Client = s.client

	var articles []core.Article
	successCount := 0

	for i, feedURL := range s.feeds {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return articles, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.logger.Error("Error parsing RSS feed", zap.String("url", feedURL), zap.Error(err))
			continue
		}
		successCount++

		items := s.articlesFromFeed(feed)
		articles = append(articles, items...)
		s.logger.Debug("Loaded RSS feed", zap.String("url", feedURL), zap.Int("count", len(items)))
	}

	s.logger.Info("Fetched articles from RSS feeds",
		zap.Int("count", len(articles)),
		zap.Int("feeds_ok", successCount),
		zap.Int("feeds_total", len(s.feeds)))

	if successCount == 0 && len(s.feeds) > 0 {
		return nil, fmt.Errorf("all %d rss feeds failed", len(s.feeds))
	}
	return articles, nil
}

func (s *RSSSource) articlesFromFeed(feed *gofeed.Feed) []core.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "RSS Feed"
	}

	articles := make([]core.Article, 0, s.perFeed)
	for _, item := range feed.Items {
		if s.perFeed > 0 && len(articles) >= s.perFeed {
			break
		}
		title := s.cleanTitle(item.Title)
		if title == "" {
			continue
		}
		articles = append(articles, core.Article{
			Title:       title,
			URL:         item.Link,
			Source:      source,
			PublishedAt: publishedAt(item),
		})
	}
	return articles
}

// cleanTitle drops any markup a feed left in the title
func (s *RSSSource) cleanTitle(title string) string {
	if strings.ContainsAny(title, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(title))
		if err == nil {
			title = doc.Text()
		}
	}
	return s.textProcessor.CleanTitle(title)
}

func publishedAt(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		// gofeed could not parse the raw date, so it cannot be ordered
		return ""
	}
}
