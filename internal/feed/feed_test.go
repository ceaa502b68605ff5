package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type listFetcher struct {
	mu       sync.Mutex
	articles []core.Article
}

func (f *listFetcher) set(articles []core.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articles = articles
}

func (f *listFetcher) FetchLatest(ctx context.Context) []core.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Article, len(f.articles))
	copy(out, f.articles)
	return out
}

// keywordAnalyzer calls every headline containing "aliens" Fake at 95%
type keywordAnalyzer struct {
	reviewer bool
	reviews  int
}

func (a *keywordAnalyzer) ClassifyArticles(ctx context.Context, articles []core.Article) []core.AnalyzedArticle {
	out := make([]core.AnalyzedArticle, 0, len(articles))
	for _, article := range articles {
		label, probs := core.LabelReal, [2]float64{0.2, 0.8}
		if strings.Contains(article.Title, "aliens") {
			label, probs = core.LabelFake, [2]float64{0.95, 0.05}
		}
		out = append(out, core.AnalyzedArticle{
			Article:          article,
			PredictionResult: core.NewPredictionResult(article.Title, label, probs),
			TrustedSource:    strings.Contains(article.URL, "trusted"),
		})
	}
	return out
}

func (a *keywordAnalyzer) ReviewEnabled() bool { return a.reviewer }

func (a *keywordAnalyzer) Review(ctx context.Context, headline string) (*core.Review, error) {
	a.reviews++
	return &core.Review{Verdict: core.PredictionFake, ModelUsed: "stub"}, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]core.AnalyzedArticle
	err     error
}

func (n *recordingNotifier) NotifySuspicious(ctx context.Context, items []core.AnalyzedArticle) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, items)
	return n.err
}

func articles(titles ...string) []core.Article {
	out := make([]core.Article, len(titles))
	for i, title := range titles {
		out[i] = core.Article{
			Title:       title,
			URL:         fmt.Sprintf("https://news.example.com/%d", i),
			Source:      "Example",
			PublishedAt: time.Date(2024, 5, 1, 12-i, 0, 0, 0, time.UTC).Format(time.RFC3339),
		}
	}
	return out
}

func TestStore(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.Current().Items)
	assert.Empty(t, store.Recent(10))

	items := []core.AnalyzedArticle{
		{Article: core.Article{Title: "Ancient Aliens built it"}},
		{Article: core.Article{Title: "Budget approved"}},
		{Article: core.Article{Title: "More aliens news"}},
	}
	first := store.Replace(items, time.Unix(1700000000, 0))
	require.NotEmpty(t, first.ID)

	// the published snapshot does not alias the caller's slice
	items[0].Title = "changed"
	assert.Equal(t, "Ancient Aliens built it", store.Current().Items[0].Title)

	assert.Len(t, store.Recent(2), 2)
	assert.Len(t, store.Recent(0), 3)

	matches := store.Search("ALIENS")
	require.Len(t, matches, 2)
	assert.Equal(t, "More aliens news", matches[1].Title)

	second := store.Replace(nil, time.Unix(1700000300, 0))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, store.Recent(10))
}

func TestRefreshKeepsConfiguredSize(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("one", "two", "three", "four"))

	r := NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, nil, metrics.New(), zap.NewNop(), Config{Size: 3, LiveSize: 2})

	snapshot, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 3)
	assert.Equal(t, "one", snapshot.Items[0].Title)
	assert.Equal(t, "one", snapshot.Items[0].Headline)
	assert.Equal(t, core.PredictionReal, snapshot.Items[0].Prediction)
	assert.Same(t, snapshot, r.Store().Current())

	live, err := r.AnalyzeLive(context.Background())
	require.NoError(t, err)
	assert.Len(t, live, 2)
	assert.Same(t, snapshot, r.Store().Current())
}

func TestRefreshNotifiesOnlyNewSuspiciousItems(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("aliens land", "budget passes"))
	notifier := &recordingNotifier{}
	m := metrics.New()

	r := NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, notifier, m, zap.NewNop(), Config{Size: 10, NotifyThreshold: 80})

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.batches, 1)
	require.Len(t, notifier.batches[0], 1)
	assert.Equal(t, "aliens land", notifier.batches[0][0].Title)

	// same items again: nothing new to report
	_, err = r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.batches, 1)

	fetcher.set(append(articles("aliens land", "budget passes"), core.Article{
		Title: "aliens on trusted wire", URL: "https://trusted.example.com/x",
	}, core.Article{
		Title: "aliens everywhere", URL: "https://blog.example.com/y",
	}))
	_, err = r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.batches, 2)
	require.Len(t, notifier.batches[1], 1)
	assert.Equal(t, "aliens everywhere", notifier.batches[1][0].Title)

	assert.Equal(t, int64(2), m.GetStats()["notifications_sent"])
	assert.Equal(t, int64(3), m.GetStats()["feed_refreshes"])
}

func TestRefreshNotificationThreshold(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("aliens land"))
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	m := metrics.New()

	r := NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, notifier, m, zap.NewNop(), Config{Size: 10, NotifyThreshold: 99})
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.batches)

	r = NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, notifier, m, zap.NewNop(), Config{Size: 10, NotifyThreshold: 50})
	_, err = r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.batches, 1)
	assert.Equal(t, int64(1), m.GetStats()["notification_failures"])
}

func TestRefreshReviewsSuspiciousItems(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("aliens land", "budget passes"))
	analyzer := &keywordAnalyzer{reviewer: true}

	r := NewRefresher(NewStore(), fetcher, analyzer, nil, nil, zap.NewNop(), Config{Size: 10, ReviewSuspicious: true})
	snapshot, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.reviews)
	require.NotNil(t, snapshot.Items[0].Review)
	assert.Nil(t, snapshot.Items[1].Review)
}

func TestRefreshCancelledKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("one"))
	m := metrics.New()
	r := NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, nil, m, zap.NewNop(), Config{Size: 10})

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, first, r.Store().Current())
	assert.Equal(t, int64(1), m.GetStats()["feed_failures"])
}

func TestStartAndStop(t *testing.T) {
	fetcher := &listFetcher{}
	fetcher.set(articles("one", "two"))
	r := NewRefresher(NewStore(), fetcher, &keywordAnalyzer{}, nil, nil, zap.NewNop(), Config{Size: 10, Interval: time.Hour})

	r.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(r.Store().Current().Items) == 2
	}, 2*time.Second, 10*time.Millisecond)

	r.Stop()
	r.Stop()
}
