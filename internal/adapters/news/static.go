package news

import (
	"context"
	"strings"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
)

// sampleHeadlines is the demo set served when no live source returns anything
var sampleHeadlines = []struct {
	title  string
	url    string
	source string
}{
	{"Local Government Announces New Infrastructure Development Plan", "https://example.com/news1", "City News"},
	{"SHOCKING: Miracle Weight Loss Secret Doctors Don't Want You to Know!", "https://example.com/news2", "Health Blog"},
	{"Study Shows Benefits of Regular Exercise on Mental Health", "https://example.com/news3", "Medical Journal"},
	{"BREAKING: Celebrity Spotted with Secret Twin Nobody Knew About!", "https://example.com/news4", "Entertainment Weekly"},
	{"Economic Report Shows Steady Growth in Technology Sector", "https://example.com/news5", "Financial Times"},
	{"You Won't Believe This One Weird Trick to Make Money Fast!", "https://example.com/news6", "Money Tips"},
	{"Research Team Publishes Findings on Climate Change Impact", "https://example.com/news7", "Science Daily"},
	{"EXCLUSIVE: Government Cover-up Exposed by Whistleblower!", "https://example.com/news8", "Truth Seekers"},
	{"University Announces New Scholarship Program for Students", "https://example.com/news9", "Education News"},
	{"AMAZING Discovery: Ancient Aliens Built the Pyramids!", "https://example.com/news10", "Mystery Blog"},
}

// StaticSource serves the built-in sample articles, one hour apart starting now
type StaticSource struct {
	now func() time.Time
}

var _ core.NewsSource = (*StaticSource)(nil)

// NewStaticSource creates a new sample article source
func NewStaticSource() *StaticSource {
	return &StaticSource{now: time.Now}
}

// Name returns the source name
func (s *StaticSource) Name() string {
	return "static"
}

// FetchArticles returns a fresh copy of the sample articles
func (s *StaticSource) FetchArticles(ctx context.Context) ([]core.Article, error) {
	return s.Articles(), nil
}

// Articles returns the sample articles stamped relative to the current time
func (s *StaticSource) Articles() []core.Article {
	now := s.now().UTC()
	articles := make([]core.Article, len(sampleHeadlines))
	for i, sample := range sampleHeadlines {
		articles[i] = core.Article{
			Title:       sample.title,
			URL:         sample.url,
			Source:      sample.source,
			PublishedAt: now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		}
	}
	return articles
}

// Search returns the sample articles whose title contains query, ignoring case
func (s *StaticSource) Search(query string) []core.Article {
	return FilterByTitle(s.Articles(), query)
}

// FilterByTitle keeps the articles whose title contains query, ignoring case
func FilterByTitle(articles []core.Article, query string) []core.Article {
	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]core.Article, 0)
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Title), needle) {
			matches = append(matches, article)
		}
	}
	return matches
}
