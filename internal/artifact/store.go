// Package artifact persists the vectorizer and classifier states as one
// versioned pair on disk.
package artifact

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mikey/fakenews-detector/internal/classifier"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/vectorizer"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// FormatVersion is the on-disk format written by Save and accepted by Load
const FormatVersion = 1

// File and directory names inside the model directory
const (
	VectorizerFile = "vectorizer.json"
	ClassifierFile = "classifier.json"
	CurrentFile    = "CURRENT"
	ReleasesDir    = "releases"
)

const (
	kindVectorizer = "vectorizer"
	kindClassifier = "classifier"
)

// ErrMissing is returned by Load when one or both artifact files do not exist
var ErrMissing = errors.New("artifact files not found")

// Pair is a vectorizer and classifier trained together
type Pair struct {
	PairID     string
	TrainedAt  time.Time
	Vectorizer *vectorizer.State
	Classifier *classifier.State
}

// Validate checks that both halves are present and share a dimension
func (p *Pair) Validate() error {
	if !p.Vectorizer.Fitted() || p.Classifier.Dimension() == 0 {
		return core.ErrNotFitted
	}
	if p.Vectorizer.Dimension() != p.Classifier.Dimension() {
		return &core.DimensionMismatchError{
			Expected: p.Classifier.Dimension(),
			Actual:   p.Vectorizer.Dimension(),
		}
	}
	return nil
}

type header struct {
	FormatVersion int       `json:"format_version"`
	Kind          string    `json:"kind"`
	PairID        string    `json:"pair_id"`
	TrainedAt     time.Time `json:"trained_at"`
}

type envelope struct {
	header
	State json.RawMessage `json:"state"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewPairID returns a new time-ordered pair identifier
func NewPairID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Store reads and writes artifact pairs under a model directory
type Store struct {
	dir          string
	keepReleases int
	logger       *zap.Logger
}

// NewStore creates a new artifact store
func NewStore(dir string, keepReleases int, logger *zap.Logger) *Store {
	if keepReleases < 1 {
		keepReleases = 1
	}
	return &Store{
		dir:          dir,
		keepReleases: keepReleases,
		logger:       logger,
	}
}

// Dir returns the model directory
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the current pair. The release named by CURRENT wins; otherwise
// the flat layout directly under the model directory is used.
func (s *Store) Load() (*Pair, error) {
	base, err := s.resolveBase()
	if err != nil {
		return nil, err
	}

	vecPath := filepath.Join(base, VectorizerFile)
	clfPath := filepath.Join(base, ClassifierFile)
	for _, p := range []string{vecPath, clfPath} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissing, p)
			}
			return nil, fmt.Errorf("%w: stat %s: %v", core.ErrArtifactIO, p, err)
		}
	}

	var vec vectorizer.State
	vecHeader, err := readEnvelope(vecPath, kindVectorizer, &vec)
	if err != nil {
		return nil, err
	}
	var clf classifier.State
	clfHeader, err := readEnvelope(clfPath, kindClassifier, &clf)
	if err != nil {
		return nil, err
	}

	if vecHeader.PairID != "" && clfHeader.PairID != "" && vecHeader.PairID != clfHeader.PairID {
		return nil, fmt.Errorf("%w: vectorizer %s, classifier %s",
			core.ErrArtifactMismatch, vecHeader.PairID, clfHeader.PairID)
	}

	pair := &Pair{
		PairID:     vecHeader.PairID,
		TrainedAt:  vecHeader.TrainedAt,
		Vectorizer: &vec,
		Classifier: &clf,
	}
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Loaded model artifacts",
		zap.String("path", base),
		zap.String("pair_id", pair.PairID),
		zap.Int("dimension", vec.Dimension()))
	return pair, nil
}

func (s *Store) resolveBase() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, CurrentFile))
	if errors.Is(err, os.ErrNotExist) {
		return s.dir, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", core.ErrArtifactIO, CurrentFile, err)
	}

	release := strings.TrimSpace(string(data))
	if release == "" || strings.ContainsAny(release, `/\`) || release == "." || release == ".." {
		return "", fmt.Errorf("%w: %s holds an invalid release name %q", core.ErrArtifactIO, CurrentFile, release)
	}
	base := filepath.Join(s.dir, ReleasesDir, release)
	if _, err := os.Stat(base); err != nil {
		return "", fmt.Errorf("%w: release %s named by %s: %v", core.ErrArtifactIO, release, CurrentFile, err)
	}
	return base, nil
}

func readEnvelope(path, kind string, state json.Unmarshaler) (header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return header{}, fmt.Errorf("%w: read %s: %v", core.ErrArtifactIO, path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return header{}, fmt.Errorf("%w: decode %s: %v", core.ErrArtifactIO, path, err)
	}
	if env.FormatVersion != FormatVersion {
		return header{}, fmt.Errorf("%w: %s has format version %d, want %d",
			core.ErrArtifactIO, path, env.FormatVersion, FormatVersion)
	}
	if env.Kind != kind {
		return header{}, fmt.Errorf("%w: %s holds a %q artifact, want %q", core.ErrArtifactIO, path, env.Kind, kind)
	}
	if err := state.UnmarshalJSON(env.State); err != nil {
		return header{}, fmt.Errorf("%w: decode %s state: %v", core.ErrArtifactIO, path, err)
	}
	return env.header, nil
}

// Save writes the pair as a new release and then points CURRENT at it.
// Readers see either the previous pair or the new one, never a mix.
func (s *Store) Save(pair *Pair) (string, error) {
	if err := pair.Validate(); err != nil {
		return "", err
	}
	if pair.PairID == "" {
		pair.PairID = NewPairID()
	}
	if pair.TrainedAt.IsZero() {
		pair.TrainedAt = time.Now().UTC()
	}

	releases := filepath.Join(s.dir, ReleasesDir)
	if err := os.MkdirAll(releases, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", core.ErrArtifactIO, releases, err)
	}

	staging, err := os.MkdirTemp(releases, ".staging-")
	if err != nil {
		return "", fmt.Errorf("%w: create staging dir: %v", core.ErrArtifactIO, err)
	}
	defer os.RemoveAll(staging)

	if err := writeEnvelope(filepath.Join(staging, VectorizerFile), kindVectorizer, pair, pair.Vectorizer); err != nil {
		return "", err
	}
	if err := writeEnvelope(filepath.Join(staging, ClassifierFile), kindClassifier, pair, pair.Classifier); err != nil {
		return "", err
	}

	target := filepath.Join(releases, pair.PairID)
	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("%w: publish release %s: %v", core.ErrArtifactIO, pair.PairID, err)
	}

	if err := writeFileAtomic(filepath.Join(s.dir, CurrentFile), []byte(pair.PairID+"\n")); err != nil {
		return "", err
	}

	s.logger.Info("Saved model artifacts",
		zap.String("release", target),
		zap.String("pair_id", pair.PairID))

	if err := s.prune(pair.PairID); err != nil {
		s.logger.Warn("Failed to prune old releases", zap.Error(err))
	}
	return target, nil
}

func writeEnvelope(path, kind string, pair *Pair, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", core.ErrArtifactIO, kind, err)
	}
	env := envelope{
		header: header{
			FormatVersion: FormatVersion,
			Kind:          kind,
			PairID:        pair.PairID,
			TrainedAt:     pair.TrainedAt,
		},
		State: raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: encode %s envelope: %v", core.ErrArtifactIO, kind, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", core.ErrArtifactIO, path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", core.ErrArtifactIO, path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", core.ErrArtifactIO, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", core.ErrArtifactIO, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", core.ErrArtifactIO, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", core.ErrArtifactIO, path, err)
	}
	return nil
}

// prune removes the oldest releases beyond keepReleases, never the current one
func (s *Store) prune(current string) error {
	releasesDir := filepath.Join(s.dir, ReleasesDir)
	entries, err := os.ReadDir(releasesDir)
	if err != nil {
		return err
	}

	var releases []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			releases = append(releases, e.Name())
		}
	}
	// ULIDs sort chronologically
	sort.Strings(releases)

	excess := len(releases) - s.keepReleases
	for i := 0; i < excess; i++ {
		if releases[i] == current {
			continue
		}
		if err := os.RemoveAll(filepath.Join(releasesDir, releases[i])); err != nil {
			return err
		}
		s.logger.Debug("Pruned old release", zap.String("release", releases[i]))
	}
	return nil
}
