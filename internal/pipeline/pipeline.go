// Package pipeline holds the feature and model configuration shared by the
// trainer and the detector bootstrap.
package pipeline

import (
	"fmt"
	"time"

	"github.com/mikey/fakenews-detector/internal/artifact"
	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
)

// Config is the single algorithm configuration used for every fit
type Config struct {
	Vectorizer vectorizer.Config
	Classifier classifier.Config
}

// DefaultConfig returns TF-IDF over 1-2 grams with 5000 features and L2 logistic regression
func DefaultConfig() Config {
	return Config{
		Vectorizer: vectorizer.DefaultConfig(),
		Classifier: classifier.DefaultConfig(),
	}
}

// Validate checks both halves of the configuration
func (c Config) Validate() error {
	if err := c.Vectorizer.Validate(); err != nil {
		return err
	}
	return c.Classifier.Validate()
}

// Fit trains a vectorizer and classifier together on normalized text
func Fit(normalized []string, labels []core.Label, cfg Config) (*artifact.Pair, error) {
	if len(normalized) != len(labels) {
		return nil, fmt.Errorf("%w: %d documents but %d labels", core.ErrConfiguration, len(normalized), len(labels))
	}

	vec, err := vectorizer.Fit(normalized, cfg.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	vectors, err := vec.TransformAll(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize corpus: %w", err)
	}
	clf, err := classifier.Fit(vectors, labels, cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	return &artifact.Pair{
		PairID:     artifact.NewPairID(),
		TrainedAt:  time.Now().UTC(),
		Vectorizer: vec,
		Classifier: clf,
	}, nil
}
