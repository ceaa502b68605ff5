// Package classifier implements an L2-regularized binary logistic regression
// over sparse TF-IDF vectors.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
)

// Config holds the optimizer settings
type Config struct {
	// C is the inverse regularization strength
	C            float64
	LearningRate float64
	MaxIter      int
	Tolerance    float64
}

// DefaultConfig returns the settings used by both the trainer and bootstrap
func DefaultConfig() Config {
	return Config{C: 1.0, LearningRate: 2.0, MaxIter: 2000, Tolerance: 1e-6}
}

// Validate checks the optimizer settings
func (c Config) Validate() error {
	if c.C <= 0 {
		return fmt.Errorf("%w: C must be positive, got %g", core.ErrConfiguration, c.C)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %g", core.ErrConfiguration, c.LearningRate)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter must be positive, got %d", core.ErrConfiguration, c.MaxIter)
	}
	return nil
}

// State holds the learned weights. It is never mutated after Fit.
type State struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	// Iterations is the number of gradient steps Fit performed
	Iterations int `json:"iterations"`
}

// Fit trains a model by full-batch gradient descent from zero weights,
// minimizing mean log loss plus ||w||^2 / (2*C*n). The bias is not penalized.
func Fit(vectors []vectorizer.SparseVector, labels []core.Label, cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no training samples", core.ErrConfiguration)
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%w: %d vectors but %d labels", core.ErrConfiguration, len(vectors), len(labels))
	}

	dim := vectors[0].Dim
	for _, v := range vectors {
		if v.Dim != dim {
			return nil, &core.DimensionMismatchError{Expected: dim, Actual: v.Dim}
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimension feature space", core.ErrConfiguration)
	}

	n := float64(len(vectors))
	weights := make([]float64, dim)
	grad := make([]float64, dim)
	var bias float64

	iter := 0
	for iter < cfg.MaxIter {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64

		for i, v := range vectors {
			residual := sigmoid(dot(weights, v)+bias) - float64(labels[i])
			for k, idx := range v.Indices {
				grad[idx] += residual * v.Values[k]
			}
			gradBias += residual
		}

		maxGrad := math.Abs(gradBias / n)
		for j := range grad {
			grad[j] = grad[j]/n + weights[j]/(cfg.C*n)
			maxGrad = math.Max(maxGrad, math.Abs(grad[j]))
		}
		if maxGrad < cfg.Tolerance {
			break
		}

		for j := range weights {
			weights[j] -= cfg.LearningRate * grad[j]
		}
		bias -= cfg.LearningRate * gradBias / n
		iter++
	}

	return &State{Weights: weights, Bias: bias, Iterations: iter}, nil
}

// Dimension returns the feature dimension the model was trained on
func (s *State) Dimension() int {
	if s == nil {
		return 0
	}
	return len(s.Weights)
}

// Predict returns the label and the (Fake, Real) probabilities for a vector
func (s *State) Predict(v vectorizer.SparseVector) (core.Label, [2]float64, error) {
	if s == nil || len(s.Weights) == 0 {
		return core.LabelFake, [2]float64{}, core.ErrNotFitted
	}
	if v.Dim != len(s.Weights) {
		return core.LabelFake, [2]float64{}, &core.DimensionMismatchError{Expected: len(s.Weights), Actual: v.Dim}
	}

	pReal := sigmoid(dot(s.Weights, v) + s.Bias)
	probs := [2]float64{1 - pReal, pReal}
	if pReal > 0.5 {
		return core.LabelReal, probs, nil
	}
	return core.LabelFake, probs, nil
}

// WeightedFeature is a feature index paired with its learned weight
type WeightedFeature struct {
	Index  int
	Weight float64
}

// TopFeatures returns the n most positive (Real) and n most negative (Fake) weights
func (s *State) TopFeatures(n int) (positive, negative []WeightedFeature) {
	all := make([]WeightedFeature, len(s.Weights))
	for i, w := range s.Weights {
		all[i] = WeightedFeature{Index: i, Weight: w}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Weight > all[j].Weight
	})

	if n > len(all) {
		n = len(all)
	}
	for i := 0; i < n && all[i].Weight > 0; i++ {
		positive = append(positive, all[i])
	}
	for i := len(all) - 1; i >= len(all)-n && all[i].Weight < 0; i-- {
		negative = append(negative, all[i])
	}
	return positive, negative
}

// UnmarshalJSON decodes and validates persisted weights
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Weights) == 0 {
		return fmt.Errorf("classifier state has no weights")
	}
	for i, w := range raw.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("classifier weight %d is not finite", i)
		}
	}
	*s = State(raw)
	return nil
}

func dot(weights []float64, v vectorizer.SparseVector) float64 {
	var sum float64
	for k, idx := range v.Indices {
		sum += weights[idx] * v.Values[k]
	}
	return sum
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
