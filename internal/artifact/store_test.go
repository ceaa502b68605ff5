package artifact

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trainedPair(t *testing.T, corpus []string) *Pair {
	t.Helper()

	vec, err := vectorizer.Fit(corpus, vectorizer.DefaultConfig())
	require.NoError(t, err)
	vectors, err := vec.TransformAll(corpus)
	require.NoError(t, err)

	labels := make([]core.Label, len(corpus))
	for i := range labels {
		labels[i] = core.Label(i % 2)
	}
	clf, err := classifier.Fit(vectors, labels, classifier.DefaultConfig())
	require.NoError(t, err)

	return &Pair{Vectorizer: vec, Classifier: clf}
}

var testCorpus = []string{"alien among us", "market close higher", "alien hoax", "market recovery"}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 3, zap.NewNop())

	pair := trainedPair(t, testCorpus)
	target, err := store.Save(pair)
	require.NoError(t, err)
	require.NotEmpty(t, pair.PairID)
	assert.Equal(t, filepath.Join(dir, ReleasesDir, pair.PairID), target)

	current, err := os.ReadFile(filepath.Join(dir, CurrentFile))
	require.NoError(t, err)
	assert.Equal(t, pair.PairID+"\n", string(current))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, pair.PairID, loaded.PairID)
	assert.Equal(t, pair.Vectorizer.Dimension(), loaded.Vectorizer.Dimension())
	assert.Equal(t, pair.Classifier.Weights, loaded.Classifier.Weights)
	assert.Equal(t, pair.Classifier.Bias, loaded.Classifier.Bias)
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), 3, zap.NewNop())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrMissing)

	store = NewStore(filepath.Join(t.TempDir(), "does-not-exist"), 3, zap.NewNop())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoadOnlyOneFilePresent(t *testing.T) {
	dir := t.TempDir()
	pair := trainedPair(t, testCorpus)
	pair.PairID = NewPairID()
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, pair, pair.Vectorizer))

	_, err := NewStore(dir, 3, zap.NewNop()).Load()
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoadFlatLayout(t *testing.T) {
	dir := t.TempDir()
	pair := trainedPair(t, testCorpus)
	pair.PairID = NewPairID()
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, pair, pair.Vectorizer))
	require.NoError(t, writeEnvelope(filepath.Join(dir, ClassifierFile), kindClassifier, pair, pair.Classifier))

	loaded, err := NewStore(dir, 3, zap.NewNop()).Load()
	require.NoError(t, err)
	assert.Equal(t, pair.PairID, loaded.PairID)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	pair := trainedPair(t, testCorpus)
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, pair, pair.Vectorizer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClassifierFile), []byte("{not json"), 0o644))

	_, err := NewStore(dir, 3, zap.NewNop()).Load()
	assert.ErrorIs(t, err, core.ErrArtifactIO)
	assert.False(t, errors.Is(err, ErrMissing))
}

func TestLoadWrongFormatVersion(t *testing.T) {
	dir := t.TempDir()
	pair := trainedPair(t, testCorpus)
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, pair, pair.Vectorizer))
	require.NoError(t, writeEnvelope(filepath.Join(dir, ClassifierFile), kindClassifier, pair, pair.Classifier))

	path := filepath.Join(dir, ClassifierFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["format_version"] = FormatVersion + 1
	data, err = json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = NewStore(dir, 3, zap.NewNop()).Load()
	assert.ErrorIs(t, err, core.ErrArtifactIO)
}

func TestLoadPairIDMismatch(t *testing.T) {
	dir := t.TempDir()
	a := trainedPair(t, testCorpus)
	a.PairID = NewPairID()
	b := trainedPair(t, testCorpus)
	b.PairID = NewPairID()
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, a, a.Vectorizer))
	require.NoError(t, writeEnvelope(filepath.Join(dir, ClassifierFile), kindClassifier, b, b.Classifier))

	_, err := NewStore(dir, 3, zap.NewNop()).Load()
	assert.ErrorIs(t, err, core.ErrArtifactMismatch)
}

func TestLoadDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	small := trainedPair(t, testCorpus)
	large := trainedPair(t, append(testCorpus, "weather forecast rain", "celebrity baby"))
	small.PairID = ""
	large.PairID = ""
	require.NoError(t, writeEnvelope(filepath.Join(dir, VectorizerFile), kindVectorizer, small, small.Vectorizer))
	require.NoError(t, writeEnvelope(filepath.Join(dir, ClassifierFile), kindClassifier, large, large.Classifier))

	_, err := NewStore(dir, 3, zap.NewNop()).Load()
	var mismatch *core.DimensionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, large.Classifier.Dimension(), mismatch.Expected)
	assert.Equal(t, small.Vectorizer.Dimension(), mismatch.Actual)
}

func TestSaveRejectsMismatchedPair(t *testing.T) {
	dir := t.TempDir()
	small := trainedPair(t, testCorpus)
	large := trainedPair(t, append(testCorpus, "weather forecast rain"))

	_, err := NewStore(dir, 3, zap.NewNop()).Save(&Pair{Vectorizer: small.Vectorizer, Classifier: large.Classifier})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = os.Stat(filepath.Join(dir, CurrentFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCurrentPointsToMissingRelease(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CurrentFile), []byte("01HZZZZZZZZZZZZZZZZZZZZZZZ\n"), 0o644))

	_, err := NewStore(dir, 3, zap.NewNop()).Load()
	assert.ErrorIs(t, err, core.ErrArtifactIO)
}

func TestSavePrunesOldReleases(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 2, zap.NewNop())

	var last string
	for i := 0; i < 4; i++ {
		pair := trainedPair(t, testCorpus)
		_, err := store.Save(pair)
		require.NoError(t, err)
		last = pair.PairID
	}

	entries, err := os.ReadDir(filepath.Join(dir, ReleasesDir))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, last, entries[1].Name())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, last, loaded.PairID)
}
