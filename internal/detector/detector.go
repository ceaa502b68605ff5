// Package detector composes the normalizer, vectorizer and classifier behind
// a single Predict call.
package detector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/fakenews-detector/internal/artifact"
	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/pipeline"
	"github.com/mikey/fakenews-detector/internal/textnorm"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"go.uber.org/zap"
)

// normalize is replaced in tests to exercise panic recovery
var normalize = textnorm.Normalize

// Detector serves predictions from an immutable artifact pair.
// Predict is safe for concurrent use without locking.
type Detector struct {
	vec    *vectorizer.State
	clf    *classifier.State
	info   core.ModelInfo
	logger *zap.Logger
}

// New loads the pair from the store or, when no artifacts exist, bootstraps a
// demo model from the seed corpus.
//
// Missing files lead to bootstrap. Unreadable or incompatible files lead to
// bootstrap unless strict is set. Pair and dimension mismatches always fail.
func New(store *artifact.Store, cfg pipeline.Config, strict bool, logger *zap.Logger) (*Detector, error) {
	pair, err := store.Load()
	switch {
	case err == nil:
		return NewFromPair(pair, core.ModeLoaded, logger)

	case errors.Is(err, artifact.ErrMissing):
		logger.Warn("No trained model found, serving a demo model trained on the seed corpus",
			zap.String("model_dir", store.Dir()),
			zap.String("reason", err.Error()))
		return Bootstrap(cfg, logger)

	case errors.Is(err, core.ErrArtifactMismatch), errors.Is(err, core.ErrDimensionMismatch):
		return nil, fmt.Errorf("refusing to serve mismatched model artifacts: %w", err)

	case errors.Is(err, core.ErrArtifactIO):
		if strict {
			return nil, fmt.Errorf("failed to load model artifacts: %w", err)
		}
		logger.Error("Model artifacts are unusable, serving a demo model trained on the seed corpus",
			zap.String("model_dir", store.Dir()),
			zap.Error(err))
		return Bootstrap(cfg, logger)

	default:
		return nil, fmt.Errorf("failed to load model artifacts: %w", err)
	}
}

// Bootstrap fits a demo model on the seed corpus
func Bootstrap(cfg pipeline.Config, logger *zap.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headlines, labels := SeedCorpus()
	pair, err := pipeline.Fit(textnorm.NormalizeAll(headlines), labels, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap demo model: %w", err)
	}
	return NewFromPair(pair, core.ModeDemo, logger)
}

// NewFromPair serves an already validated pair
func NewFromPair(pair *artifact.Pair, mode string, logger *zap.Logger) (*Detector, error) {
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		vec: pair.Vectorizer,
		clf: pair.Classifier,
		info: core.ModelInfo{
			Mode:       mode,
			PairID:     pair.PairID,
			Dimension:  pair.Vectorizer.Dimension(),
			TrainedAt:  pair.TrainedAt,
			NGramRange: pair.Vectorizer.NGramRange(),
		},
		logger: logger,
	}

	logger.Info("Detector ready",
		zap.String("mode", mode),
		zap.String("pair_id", pair.PairID),
		zap.Int("dimension", d.info.Dimension))
	return d, nil
}

// Info describes the model being served
func (d *Detector) Info() core.ModelInfo {
	return d.info
}

// Predict classifies a headline. It never returns an error; failures are
// reported as a result with Prediction "Error".
func (d *Detector) Predict(headline string) (result core.PredictionResult) {
	if strings.TrimSpace(headline) == "" {
		return core.NewErrorResult(headline, core.ErrInput)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", core.ErrPipeline, r)
			d.logger.Error("Prediction panicked", zap.String("headline", headline), zap.Error(err))
			result = core.NewErrorResult(headline, err)
		}
	}()

	normalized := normalize(headline)
	vec, err := d.vec.Transform(normalized)
	if err != nil {
		return core.NewErrorResult(headline, fmt.Errorf("failed to vectorize headline: %w", err))
	}

	label, probs, err := d.clf.Predict(vec)
	if err != nil {
		return core.NewErrorResult(headline, fmt.Errorf("failed to classify headline: %w", err))
	}

	return core.NewPredictionResult(headline, label, probs)
}
