package vectorizer

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"alien living among us",
	"stock market close higher",
	"alien technology hidden",
	"market close lower",
}

func TestFitBuildsLexicalVocabulary(t *testing.T) {
	state, err := Fit(corpus, DefaultConfig())
	require.NoError(t, err)

	// 11 distinct unigrams and 9 distinct bigrams
	require.Equal(t, 20, state.Dimension())
	for i := 1; i < state.Dimension(); i++ {
		assert.Less(t, state.Term(i-1), state.Term(i))
	}
	assert.Equal(t, [2]int{1, 2}, state.NGramRange())
}

func TestFitCapsByDocumentFrequency(t *testing.T) {
	state, err := Fit(corpus, Config{MaxFeatures: 4, NGramMin: 1, NGramMax: 2})
	require.NoError(t, err)

	// df=2: alien, close, market, market close. Everything else has df=1.
	require.Equal(t, 4, state.Dimension())
	assert.Equal(t, "alien", state.Term(0))
	assert.Equal(t, "close", state.Term(1))
	assert.Equal(t, "market", state.Term(2))
	assert.Equal(t, "market close", state.Term(3))
}

func TestFitTieBreakIsLexical(t *testing.T) {
	state, err := Fit([]string{"zebra apple mango"}, Config{MaxFeatures: 2, NGramMin: 1, NGramMax: 1})
	require.NoError(t, err)

	require.Equal(t, 2, state.Dimension())
	assert.Equal(t, "apple", state.Term(0))
	assert.Equal(t, "mango", state.Term(1))
}

func TestFitEmptyVocabulary(t *testing.T) {
	_, err := Fit([]string{"", ""}, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))

	_, err = Fit(corpus, Config{MaxFeatures: 0, NGramMin: 1, NGramMax: 2})
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestTransformBeforeFit(t *testing.T) {
	var state *State
	_, err := state.Transform("alien")
	assert.ErrorIs(t, err, core.ErrNotFitted)

	_, err = (&State{}).Transform("alien")
	assert.ErrorIs(t, err, core.ErrNotFitted)
}

func TestTransformIsNormalizedAndFixedDimension(t *testing.T) {
	state, err := Fit(corpus, DefaultConfig())
	require.NoError(t, err)

	vec, err := state.Transform("alien alien market unknownword")
	require.NoError(t, err)
	assert.Equal(t, state.Dimension(), vec.Dim)
	require.Equal(t, 2, vec.Len())

	var norm float64
	for _, v := range vec.Values {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)

	// the repeated term outweighs the single one with the same idf
	assert.Greater(t, vec.Values[0], vec.Values[1])

	empty, err := state.Transform("nothing known here")
	require.NoError(t, err)
	assert.Equal(t, state.Dimension(), empty.Dim)
	assert.Zero(t, empty.Len())
}

func TestTransformIsDeterministic(t *testing.T) {
	a, err := Fit(corpus, DefaultConfig())
	require.NoError(t, err)
	b, err := Fit(corpus, DefaultConfig())
	require.NoError(t, err)

	va, err := a.Transform("stock market close higher")
	require.NoError(t, err)
	vb, err := b.Transform("stock market close higher")
	require.NoError(t, err)
	assert.Equal(t, va, vb)
}

func TestStateJSONRoundTrip(t *testing.T) {
	state, err := Fit(corpus, DefaultConfig())
	require.NoError(t, err)

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var restored State
	require.NoError(t, json.Unmarshal(data, &restored))

	want, err := state.Transform("alien technology")
	require.NoError(t, err)
	got, err := restored.Transform("alien technology")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshalRejectsInconsistentState(t *testing.T) {
	cases := map[string]string{
		"empty":         `{"terms":[],"idf":[],"ngram_range":[1,2]}`,
		"length":        `{"terms":["a","b"],"idf":[1],"ngram_range":[1,2]}`,
		"unsorted":      `{"terms":["b","a"],"idf":[1,1],"ngram_range":[1,2]}`,
		"ngram range":   `{"terms":["a"],"idf":[1],"ngram_range":[2,1]}`,
		"not an object": `[1,2,3]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var s State
			assert.Error(t, json.Unmarshal([]byte(payload), &s))
		})
	}
}
