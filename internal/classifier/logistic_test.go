package classifier

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onehot(dim, idx int) vectorizer.SparseVector {
	return vectorizer.SparseVector{Dim: dim, Indices: []int{idx}, Values: []float64{1}}
}

// feature 0 marks fake samples, feature 1 marks real ones, feature 2 is noise
func separable() ([]vectorizer.SparseVector, []core.Label) {
	vectors := []vectorizer.SparseVector{
		onehot(3, 0), onehot(3, 0), onehot(3, 0),
		onehot(3, 1), onehot(3, 1), onehot(3, 1),
		{Dim: 3, Indices: []int{0, 2}, Values: []float64{0.8, 0.6}},
		{Dim: 3, Indices: []int{1, 2}, Values: []float64{0.8, 0.6}},
	}
	labels := []core.Label{
		core.LabelFake, core.LabelFake, core.LabelFake,
		core.LabelReal, core.LabelReal, core.LabelReal,
		core.LabelFake, core.LabelReal,
	}
	return vectors, labels
}

func TestFitLearnsSeparableData(t *testing.T) {
	vectors, labels := separable()
	state, err := Fit(vectors, labels, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 3, state.Dimension())

	assert.Less(t, state.Weights[0], 0.0)
	assert.Greater(t, state.Weights[1], 0.0)

	label, probs, err := state.Predict(onehot(3, 1))
	require.NoError(t, err)
	assert.Equal(t, core.LabelReal, label)
	assert.Greater(t, probs[1], 0.5)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-12)

	label, probs, err = state.Predict(onehot(3, 0))
	require.NoError(t, err)
	assert.Equal(t, core.LabelFake, label)
	assert.Greater(t, probs[0], 0.5)
}

func TestFitIsDeterministic(t *testing.T) {
	vectors, labels := separable()
	a, err := Fit(vectors, labels, DefaultConfig())
	require.NoError(t, err)
	b, err := Fit(vectors, labels, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitValidation(t *testing.T) {
	vectors, labels := separable()

	_, err := Fit(nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Fit(vectors, labels[:2], DefaultConfig())
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = Fit(vectors, labels, Config{C: 0, LearningRate: 1, MaxIter: 10})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	mixed := append([]vectorizer.SparseVector{onehot(4, 0)}, vectors[1:]...)
	_, err = Fit(mixed, labels, DefaultConfig())
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestPredictDimensionMismatch(t *testing.T) {
	vectors, labels := separable()
	state, err := Fit(vectors, labels, DefaultConfig())
	require.NoError(t, err)

	_, _, err = state.Predict(onehot(5, 0))
	require.Error(t, err)

	var mismatch *core.DimensionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 5, mismatch.Actual)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestPredictUnfitted(t *testing.T) {
	var state *State
	_, _, err := state.Predict(onehot(3, 0))
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

func TestTopFeatures(t *testing.T) {
	state := &State{Weights: []float64{-2, 1.5, 0.1, -0.3, 0}}

	positive, negative := state.TopFeatures(2)
	require.Len(t, positive, 2)
	require.Len(t, negative, 2)
	assert.Equal(t, 1, positive[0].Index)
	assert.Equal(t, 2, positive[1].Index)
	assert.Equal(t, 0, negative[0].Index)
	assert.Equal(t, 3, negative[1].Index)
}

func TestUnmarshalRejectsBadWeights(t *testing.T) {
	var s State
	assert.Error(t, json.Unmarshal([]byte(`{"weights":[],"bias":0}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"weights":"x"}`), &s))

	require.NoError(t, json.Unmarshal([]byte(`{"weights":[0.5,-0.5],"bias":0.1,"iterations":7}`), &s))
	assert.Equal(t, 2, s.Dimension())
	assert.Equal(t, 7, s.Iterations)
}
