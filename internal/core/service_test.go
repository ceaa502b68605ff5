package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/fakenews-detector/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePredictor struct {
	calls int
}

func (p *fakePredictor) Predict(headline string) PredictionResult {
	p.calls++
	if strings.Contains(headline, "panic") {
		return NewErrorResult(headline, ErrPipeline)
	}
	if strings.Contains(headline, "aliens") {
		return NewPredictionResult(headline, LabelFake, [2]float64{0.9, 0.1})
	}
	return NewPredictionResult(headline, LabelReal, [2]float64{0.3, 0.7})
}

func (p *fakePredictor) Info() ModelInfo {
	return ModelInfo{Mode: ModeDemo, PairID: "pair-1", Dimension: 3}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]CacheEntry{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return &entry, nil
}

func (c *mapCache) Set(ctx context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = *entry
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error { return nil }

func (c *mapCache) Cleanup(ctx context.Context) error { return nil }

type fakeReviewer struct {
	err error
}

func (r *fakeReviewer) ReviewHeadline(ctx context.Context, headline string) (*Review, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &Review{Verdict: PredictionFake, Confidence: 70, ModelUsed: "fake-llm"}, nil
}

type suffixTrust string

func (s suffixTrust) IsTrusted(articleURL string) bool {
	return strings.Contains(articleURL, string(s))
}

func TestClassifyUsesCache(t *testing.T) {
	predictor := &fakePredictor{}
	cache := newMapCache()
	m := metrics.New()
	svc := NewHeadlineService(predictor, cache, nil, nil, m, zap.NewNop(), true, time.Hour)

	first := svc.Classify(context.Background(), "Scientists find aliens")
	second := svc.Classify(context.Background(), "Scientists find aliens")

	assert.Equal(t, first, second)
	assert.Equal(t, PredictionFake, second.Prediction)
	assert.Equal(t, 90.0, second.Confidence)
	assert.Equal(t, 1, predictor.calls)

	entry, err := cache.Get(context.Background(), CacheKey("pair-1", "Scientists find aliens"))
	require.NoError(t, err)
	assert.Equal(t, "pair-1", entry.ModelID)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["predictions"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
}

func TestClassifyDoesNotCacheErrors(t *testing.T) {
	predictor := &fakePredictor{}
	cache := newMapCache()
	svc := NewHeadlineService(predictor, cache, nil, nil, nil, zap.NewNop(), true, time.Hour)

	result := svc.Classify(context.Background(), "panic now")
	assert.True(t, result.IsError())
	assert.Empty(t, cache.entries)

	svc.Classify(context.Background(), "panic now")
	assert.Equal(t, 2, predictor.calls)
}

func TestClassifyEmptyHeadline(t *testing.T) {
	predictor := &fakePredictor{}
	svc := NewHeadlineService(predictor, nil, nil, nil, nil, zap.NewNop(), true, time.Hour)

	for _, headline := range []string{"", "   ", "\t\n"} {
		result := svc.Classify(context.Background(), headline)
		assert.Equal(t, PredictionError, result.Prediction)
		assert.Equal(t, ErrInput.Error(), result.Error)
		assert.Zero(t, result.Confidence)
		assert.False(t, result.IsReal)
	}
	assert.Zero(t, predictor.calls)
}

func TestClassifyArticles(t *testing.T) {
	svc := NewHeadlineService(&fakePredictor{}, nil, nil, suffixTrust("trusted.example"), nil, zap.NewNop(), false, 0)

	articles := []Article{
		{Title: "Ancient aliens again", URL: "https://blog.example/1", Source: "Blog", PublishedAt: "2024-05-01T10:00:00Z"},
		{Title: "Parliament passes budget", URL: "https://trusted.example/2", Source: "Wire"},
	}
	analyzed := svc.ClassifyArticles(context.Background(), articles)

	require.Len(t, analyzed, 2)
	assert.Equal(t, articles[0], analyzed[0].Article)
	assert.Equal(t, PredictionFake, analyzed[0].Prediction)
	assert.Equal(t, "Ancient aliens again", analyzed[0].Headline)
	assert.False(t, analyzed[0].TrustedSource)
	assert.True(t, analyzed[1].IsReal)
	assert.True(t, analyzed[1].TrustedSource)
	assert.Equal(t, int64(2), svc.Metrics().GetStats()["articles_classified"])
}

func TestReview(t *testing.T) {
	disabled := NewHeadlineService(&fakePredictor{}, nil, nil, nil, nil, zap.NewNop(), false, 0)
	assert.False(t, disabled.ReviewEnabled())
	_, err := disabled.Review(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrReviewDisabled)

	svc := NewHeadlineService(&fakePredictor{}, nil, &fakeReviewer{}, nil, nil, zap.NewNop(), false, 0)
	assert.True(t, svc.ReviewEnabled())
	review, err := svc.Review(context.Background(), "Scientists find aliens")
	require.NoError(t, err)
	assert.Equal(t, "fake-llm", review.ModelUsed)

	_, err = svc.Review(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInput)

	failing := NewHeadlineService(&fakePredictor{}, nil, &fakeReviewer{err: errors.New("quota")}, nil, nil, zap.NewNop(), false, 0)
	_, err = failing.Review(context.Background(), "headline")
	assert.Error(t, err)
	assert.Equal(t, int64(1), failing.Metrics().GetStats()["review_errors"])
}
