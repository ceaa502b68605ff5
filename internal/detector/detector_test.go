package detector

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mikey/fakenews-detector/internal/artifact"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func demoDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := Bootstrap(pipeline.DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return d
}

func TestSeedCorpus(t *testing.T) {
	headlines, labels := SeedCorpus()
	require.Len(t, headlines, 30)
	require.Len(t, labels, 30)
	assert.Equal(t, core.LabelFake, labels[0])
	assert.Equal(t, core.LabelReal, labels[29])
}

func TestBootstrapScenarios(t *testing.T) {
	d := demoDetector(t)
	assert.Equal(t, core.ModeDemo, d.Info().Mode)
	assert.NotEmpty(t, d.Info().PairID)
	assert.Equal(t, [2]int{1, 2}, d.Info().NGramRange)

	fake := d.Predict("Scientists discover aliens living among us")
	assert.Equal(t, core.PredictionFake, fake.Prediction)
	assert.False(t, fake.IsReal)
	assert.Greater(t, fake.Confidence, 50.0)
	assert.Equal(t, "Scientists discover aliens living among us", fake.Headline)

	genuine := d.Predict("Stock market closes higher amid economic recovery")
	assert.Equal(t, core.PredictionReal, genuine.Prediction)
	assert.True(t, genuine.IsReal)
	assert.Greater(t, genuine.Confidence, 50.0)
}

func TestPredictEmptyInput(t *testing.T) {
	d := demoDetector(t)
	for _, in := range []string{"", "   ", "\t\n"} {
		res := d.Predict(in)
		assert.True(t, res.IsError())
		assert.Equal(t, core.ErrInput.Error(), res.Error)
		assert.Zero(t, res.Confidence)
		assert.False(t, res.IsReal)
		assert.Equal(t, in, res.Headline)
	}
}

func TestPredictRecoversFromPipelinePanic(t *testing.T) {
	d := demoDetector(t)

	orig := normalize
	normalize = func(string) string { panic("tokenizer exploded") }
	t.Cleanup(func() { normalize = orig })

	res := d.Predict("Scientists discover aliens living among us")
	assert.Equal(t, core.PredictionError, res.Prediction)
	assert.Zero(t, res.Confidence)
	assert.False(t, res.IsReal)
	assert.Contains(t, res.Error, core.ErrPipeline.Error())
	assert.Contains(t, res.Error, "tokenizer exploded")
	assert.Equal(t, "Scientists discover aliens living among us", res.Headline)
}

func TestPredictConfidenceRange(t *testing.T) {
	d := demoDetector(t)
	inputs := []string{
		"the of and",
		"!!! ??? 123",
		"zzzz qqqq",
		"Government cover-up exposed by whistleblower",
		"University announces new scholarship program for students",
	}
	for _, in := range inputs {
		res := d.Predict(in)
		require.False(t, res.IsError(), "input %q: %s", in, res.Error)
		assert.Contains(t, []string{core.PredictionReal, core.PredictionFake}, res.Prediction)
		assert.GreaterOrEqual(t, res.Confidence, 50.0)
		assert.LessOrEqual(t, res.Confidence, 100.0)
		assert.Equal(t, res.Prediction == core.PredictionReal, res.IsReal)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	a := demoDetector(t)
	b := demoDetector(t)
	headline := "Celebrity spotted with secret twin nobody knew about"
	assert.Equal(t, a.Predict(headline), b.Predict(headline))
	assert.Equal(t, a.Predict(headline), a.Predict(headline))
}

func TestPredictConcurrent(t *testing.T) {
	d := demoDetector(t)
	want := d.Predict("Hospital opens new treatment facility")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, d.Predict("Hospital opens new treatment facility"))
		}()
	}
	wg.Wait()
}

func TestNewLoadsSavedPair(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewStore(dir, 3, zap.NewNop())

	demo := demoDetector(t)
	pair := &artifact.Pair{Vectorizer: demo.vec, Classifier: demo.clf}
	_, err := store.Save(pair)
	require.NoError(t, err)

	d, err := New(store, pipeline.DefaultConfig(), true, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, core.ModeLoaded, d.Info().Mode)
	assert.Equal(t, pair.PairID, d.Info().PairID)

	headline := "Aliens built the pyramids, new evidence suggests"
	assert.Equal(t, demo.Predict(headline), d.Predict(headline))
}

func TestNewMissingArtifactsBootstraps(t *testing.T) {
	store := artifact.NewStore(t.TempDir(), 3, zap.NewNop())
	d, err := New(store, pipeline.DefaultConfig(), true, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, core.ModeDemo, d.Info().Mode)
}

func TestNewCorruptArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.VectorizerFile), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.ClassifierFile), []byte("garbage"), 0o644))
	store := artifact.NewStore(dir, 3, zap.NewNop())

	d, err := New(store, pipeline.DefaultConfig(), false, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, core.ModeDemo, d.Info().Mode)

	_, err = New(store, pipeline.DefaultConfig(), true, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, core.ErrArtifactIO)
}

func TestNewMismatchedDimensionsIsFatal(t *testing.T) {
	demo := demoDetector(t)
	other, err := pipeline.Fit([]string{"alien hoax", "market recovery"}, []core.Label{core.LabelFake, core.LabelReal}, pipeline.DefaultConfig())
	require.NoError(t, err)

	_, err = NewFromPair(&artifact.Pair{Vectorizer: demo.vec, Classifier: other.Classifier}, core.ModeLoaded, zap.NewNop())
	var mismatch *core.DimensionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, demo.vec.Dimension(), mismatch.Actual)
}
