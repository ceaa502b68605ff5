// Package trainer fits a vectorizer and classifier on a labeled headline
// dataset, evaluates them on a held-out split and publishes the pair.
package trainer

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/mikey/fakenews-detector/internal/artifact"
	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/pipeline"
	"github.com/mikey/fakenews-detector/internal/textnorm"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"go.uber.org/zap"
)

// Config holds the training run settings
type Config struct {
	Pipeline  pipeline.Config
	MinWords  int
	TestRatio float64
	Seed      int64
	TopTerms  int
}

// DefaultConfig returns the trainer defaults
func DefaultConfig() Config {
	return Config{
		Pipeline:  pipeline.DefaultConfig(),
		MinWords:  3,
		TestRatio: 0.2,
		Seed:      42,
		TopTerms:  10,
	}
}

// Trainer runs the offline training pipeline
type Trainer struct {
	store  *artifact.Store
	cfg    Config
	logger *zap.Logger
}

// NewTrainer creates a new trainer
func NewTrainer(store *artifact.Store, cfg Config, logger *zap.Logger) *Trainer {
	return &Trainer{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Run trains on the given samples and saves the resulting pair.
// Nothing is written unless every step succeeds.
func (t *Trainer) Run(samples []Sample) (*Report, error) {
	if err := t.cfg.Pipeline.Validate(); err != nil {
		return nil, err
	}
	if t.cfg.TestRatio < 0 || t.cfg.TestRatio >= 1 {
		return nil, fmt.Errorf("%w: test ratio must be in [0, 1), got %g", core.ErrConfiguration, t.cfg.TestRatio)
	}

	report := &Report{Loaded: len(samples)}
	kept := FilterShort(samples, t.cfg.MinWords)
	report.Dropped = len(samples) - len(kept)
	t.logger.Info("Loaded dataset",
		zap.Int("samples", len(samples)),
		zap.Int("dropped_short", report.Dropped))
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no headlines with at least %d words", core.ErrConfiguration, t.cfg.MinWords)
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })

	texts := make([]string, len(kept))
	labels := make([]core.Label, len(kept))
	for i, s := range kept {
		texts[i] = textnorm.Normalize(s.Text)
		labels[i] = s.Label
	}

	vec, err := vectorizer.Fit(texts, t.cfg.Pipeline.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	vectors, err := vec.TransformAll(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize dataset: %w", err)
	}

	trainIdx, testIdx := StratifiedSplit(labels, t.cfg.TestRatio, rng)
	if len(trainIdx) == 0 {
		return nil, fmt.Errorf("%w: training split is empty", core.ErrConfiguration)
	}
	report.TrainSize, report.TestSize = len(trainIdx), len(testIdx)

	clf, err := classifier.Fit(pick(vectors, trainIdx), pick(labels, trainIdx), t.cfg.Pipeline.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	report.Dimension = vec.Dimension()
	report.Iterations = clf.Iterations
	t.logger.Info("Fitted model",
		zap.Int("dimension", vec.Dimension()),
		zap.Int("train", len(trainIdx)),
		zap.Int("iterations", clf.Iterations))

	predicted := make([]core.Label, len(testIdx))
	for i, idx := range testIdx {
		label, _, err := clf.Predict(vectors[idx])
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate classifier: %w", err)
		}
		predicted[i] = label
	}
	report.Evaluation = Evaluate(pick(labels, testIdx), predicted)
	report.TopRealTerms, report.TopFakeTerms = topTerms(vec, clf, t.cfg.TopTerms)

	pair := &artifact.Pair{Vectorizer: vec, Classifier: clf}
	path, err := t.store.Save(pair)
	if err != nil {
		return nil, fmt.Errorf("failed to save model artifacts: %w", err)
	}
	report.PairID = pair.PairID
	report.ReleasePath = path

	t.logger.Info("Training complete",
		zap.String("pair_id", pair.PairID),
		zap.Float64("accuracy", report.Evaluation.Accuracy))
	return report, nil
}

// FilterShort drops samples with fewer than minWords whitespace separated words
func FilterShort(samples []Sample, minWords int) []Sample {
	kept := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if len(strings.Fields(s.Text)) >= minWords {
			kept = append(kept, s)
		}
	}
	return kept
}

// StratifiedSplit assigns round(ratio * n_class) samples of each class to the
// test split, keeping every class represented in training when possible
func StratifiedSplit(labels []core.Label, ratio float64, rng *rand.Rand) (train, test []int) {
	var byClass [2][]int
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}

	for _, idx := range byClass {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(math.Round(ratio * float64(len(idx))))
		if n >= len(idx) && len(idx) > 0 {
			n = len(idx) - 1
		}
		test = append(test, idx[:n]...)
		train = append(train, idx[n:]...)
	}
	return train, test
}

func pick[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

func topTerms(vec *vectorizer.State, clf *classifier.State, n int) (realTerms, fakeTerms []WeightedTerm) {
	positive, negative := clf.TopFeatures(n)
	for _, f := range positive {
		realTerms = append(realTerms, WeightedTerm{Term: vec.Term(f.Index), Weight: f.Weight})
	}
	for _, f := range negative {
		fakeTerms = append(fakeTerms, WeightedTerm{Term: vec.Term(f.Index), Weight: f.Weight})
	}
	return realTerms, fakeTerms
}
