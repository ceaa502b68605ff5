package core

import (
	"context"
)

// Predictor classifies a single headline
type Predictor interface {
	// Predict never fails; problems are reported inside the result
	Predict(headline string) PredictionResult

	// Info describes the loaded or bootstrapped model
	Info() ModelInfo
}

// HeadlineReviewer asks an LLM for a second opinion on a headline
type HeadlineReviewer interface {
	ReviewHeadline(ctx context.Context, headline string) (*Review, error)
}

// CacheRepository defines the interface for caching predictions
type CacheRepository interface {
	// Get retrieves a cached entry by key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// NewsSource supplies article records
type NewsSource interface {
	Name() string
	FetchArticles(ctx context.Context) ([]Article, error)
}

// Notifier delivers alerts about suspicious headlines
type Notifier interface {
	NotifySuspicious(ctx context.Context, items []AnalyzedArticle) error
}

// TrustChecker decides whether an article URL belongs to a trusted outlet
type TrustChecker interface {
	IsTrusted(articleURL string) bool
}
