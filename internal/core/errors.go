package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the prediction pipeline
var (
	// ErrInput is returned for empty or whitespace-only headlines
	ErrInput = errors.New("input error: headline is empty")
	// ErrNotFitted is returned when a vectorizer or classifier is used before fitting
	ErrNotFitted = errors.New("model component is not fitted")
	// ErrDimensionMismatch is matched by every DimensionMismatchError
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	// ErrPipeline is returned when normalization or vectorization fails on unexpected input
	ErrPipeline = errors.New("pipeline runtime error")
	// ErrArtifactIO is returned for missing, unreadable or incompatible artifact files
	ErrArtifactIO = errors.New("artifact io error")
	// ErrArtifactMismatch is returned when the two artifact files belong to different training runs
	ErrArtifactMismatch = errors.New("artifact pair mismatch")
	// ErrConfiguration is returned for unusable configuration or training data
	ErrConfiguration = errors.New("configuration error")
	// ErrReviewDisabled is returned when no LLM reviewer is configured
	ErrReviewDisabled = errors.New("headline review is disabled")
)

// DimensionMismatchError reports a feature vector whose dimension differs
// from the dimension the classifier was trained on.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold for any DimensionMismatchError
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
