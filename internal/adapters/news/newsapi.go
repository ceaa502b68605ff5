package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/retry"
	"go.uber.org/zap"
)

// removedTitle marks articles newsapi.org has withdrawn
const removedTitle = "[Removed]"

// NewsAPISource fetches top headlines from newsapi.org
type NewsAPISource struct {
	endpoint string
	apiKey   string
	country  string
	pageSize int
	client   *http.Client
	retry    retry.Config
	logger   *zap.Logger
}

var _ core.NewsSource = (*NewsAPISource)(nil)

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// NewNewsAPISource creates a new newsapi.org source
func NewNewsAPISource(
	endpoint string,
	apiKey string,
	country string,
	pageSize int,
	timeout time.Duration,
	retryCfg retry.Config,
	logger *zap.Logger,
) *NewsAPISource {
	return &NewsAPISource{
		endpoint: endpoint,
		apiKey:   apiKey,
		country:  country,
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
		retry:    retryCfg,
		logger:   logger,
	}
}

// Name returns the source name
func (s *NewsAPISource) Name() string {
	return "newsapi"
}

// FetchArticles requests the current top headlines
func (s *NewsAPISource) FetchArticles(ctx context.Context) ([]core.Article, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w: api key is not set", core.ErrConfiguration)
	}

	var body []byte
	err := retry.Do(ctx, s.retry, func() error {
		var err error
		body, err = s.get(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}

	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned %s: %s", resp.Code, resp.Message)
	}

	articles := make([]core.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		title := strings.TrimSpace(item.Title)
		if title == "" || title == removedTitle {
			continue
		}
		source := item.Source.Name
		if source == "" {
			source = "Unknown"
		}
		articles = append(articles, core.Article{
			Title:       title,
			URL:         item.URL,
			Source:      source,
			PublishedAt: item.PublishedAt,
		})
	}

	s.logger.Info("Fetched articles from NewsAPI", zap.Int("count", len(articles)))
	return articles, nil
}

func (s *NewsAPISource) get(ctx context.Context) ([]byte, error) {
	params := url.Values{}
	params.Set("country", s.country)
	params.Set("pageSize", strconv.Itoa(s.pageSize))
	params.Set("sortBy", "publishedAt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, retry.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return body, nil
}
