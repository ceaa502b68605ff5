package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mikey/fakenews-detector/internal/metrics"
	"go.uber.org/zap"
)

// HeadlineService is the core service for headline classification
type HeadlineService struct {
	predictor    Predictor
	cache        CacheRepository
	reviewer     HeadlineReviewer
	trust        TrustChecker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	now          func() time.Time
}

// NewHeadlineService creates a new headline service. The reviewer and trust
// checker may be nil.
func NewHeadlineService(
	predictor Predictor,
	cache CacheRepository,
	reviewer HeadlineReviewer,
	trust TrustChecker,
	m *metrics.Metrics,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *HeadlineService {
	if m == nil {
		m = metrics.New()
	}
	return &HeadlineService{
		predictor:    predictor,
		cache:        cache,
		reviewer:     reviewer,
		trust:        trust,
		metrics:      m,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

// CacheKey identifies a headline under a specific trained model
func CacheKey(pairID, headline string) string {
	sum := sha256.Sum256([]byte(pairID + "|" + headline))
	return hex.EncodeToString(sum[:])
}

// Classify predicts a single headline, consulting the cache first
func (s *HeadlineService) Classify(ctx context.Context, headline string) PredictionResult {
	if strings.TrimSpace(headline) == "" {
		s.metrics.RecordPrediction(true)
		return NewErrorResult(headline, ErrInput)
	}

	var key string
	if s.cacheEnabled {
		key = CacheKey(s.predictor.Info().PairID, headline)
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.metrics.IncrementCacheHits()
			s.metrics.RecordPrediction(false)
			s.logger.Debug("Cache hit for headline", zap.String("headline", headline))
			return PredictionResult{
				Prediction: entry.Prediction,
				Confidence: entry.Confidence,
				IsReal:     entry.IsReal,
				Headline:   headline,
			}
		}
		s.metrics.IncrementCacheMisses()
	}

	result := s.predictor.Predict(headline)
	s.metrics.RecordPrediction(result.IsError())
	if result.IsError() {
		s.logger.Warn("Prediction failed",
			zap.String("headline", headline),
			zap.String("error", result.Error))
		return result
	}

	if s.cacheEnabled {
		now := s.now()
		entry := &CacheEntry{
			Key:        key,
			ModelID:    s.predictor.Info().PairID,
			Prediction: result.Prediction,
			Confidence: result.Confidence,
			IsReal:     result.IsReal,
			LastSeen:   now,
			ExpiresAt:  now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return result
}

// ClassifyArticles classifies each article title and merges the result with
// the article record
func (s *HeadlineService) ClassifyArticles(ctx context.Context, articles []Article) []AnalyzedArticle {
	analyzed := make([]AnalyzedArticle, 0, len(articles))
	for _, article := range articles {
		item := AnalyzedArticle{
			Article:          article,
			PredictionResult: s.Classify(ctx, article.Title),
		}
		if s.trust != nil {
			item.TrustedSource = s.trust.IsTrusted(article.URL)
		}
		analyzed = append(analyzed, item)
	}
	s.metrics.AddArticlesClassified(len(analyzed))
	return analyzed
}

// ReviewEnabled reports whether an LLM reviewer is configured
func (s *HeadlineService) ReviewEnabled() bool {
	return s.reviewer != nil
}

// Review asks the LLM reviewer for a second opinion on a headline
func (s *HeadlineService) Review(ctx context.Context, headline string) (*Review, error) {
	if s.reviewer == nil {
		return nil, ErrReviewDisabled
	}
	if strings.TrimSpace(headline) == "" {
		return nil, ErrInput
	}

	review, err := s.reviewer.ReviewHeadline(ctx, headline)
	s.metrics.RecordReview(err != nil)
	if err != nil {
		s.logger.Error("Headline review failed", zap.String("headline", headline), zap.Error(err))
		return nil, err
	}
	return review, nil
}

// ModelInfo describes the model behind the service
func (s *HeadlineService) ModelInfo() ModelInfo {
	return s.predictor.Info()
}

// Metrics returns the service counters
func (s *HeadlineService) Metrics() *metrics.Metrics {
	return s.metrics
}
