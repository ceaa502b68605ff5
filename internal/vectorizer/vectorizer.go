// Package vectorizer learns a TF-IDF vocabulary over normalized headlines and
// maps text into a fixed-dimension sparse vector space.
package vectorizer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mikey/fakenews-detector/internal/core"
)

// Config holds the feature extraction settings shared by training and bootstrap
type Config struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
}

// DefaultConfig returns 5000 features over unigrams and bigrams
func DefaultConfig() Config {
	return Config{MaxFeatures: 5000, NGramMin: 1, NGramMax: 2}
}

// Validate checks that the configuration can produce a vocabulary
func (c Config) Validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("%w: max_features must be positive, got %d", core.ErrConfiguration, c.MaxFeatures)
	}
	if c.NGramMin < 1 || c.NGramMax < c.NGramMin {
		return fmt.Errorf("%w: invalid ngram range [%d, %d]", core.ErrConfiguration, c.NGramMin, c.NGramMax)
	}
	return nil
}

// SparseVector is a feature vector holding only its non-zero entries.
// Indices are strictly increasing.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// State is a fitted vocabulary with its IDF weights. It is immutable once
// built and safe for concurrent Transform calls.
type State struct {
	terms    []string
	index    map[string]int
	idf      []float64
	ngramMin int
	ngramMax int
}

// Fit learns the vocabulary and IDF weights from a corpus of normalized strings
func Fit(corpus []string, cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, gram := range ngrams(doc, cfg.NGramMin, cfg.NGramMax) {
			if _, ok := seen[gram]; ok {
				continue
			}
			seen[gram] = struct{}{}
			df[gram]++
		}
	}
	if len(df) == 0 {
		return nil, fmt.Errorf("%w: corpus of %d documents yields an empty vocabulary", core.ErrConfiguration, len(corpus))
	}

	ranked := make([]string, 0, len(df))
	for gram := range df {
		ranked = append(ranked, gram)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if df[ranked[i]] != df[ranked[j]] {
			return df[ranked[i]] > df[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > cfg.MaxFeatures {
		ranked = ranked[:cfg.MaxFeatures]
	}
	sort.Strings(ranked)

	n := float64(len(corpus))
	idf := make([]float64, len(ranked))
	for i, gram := range ranked {
		idf[i] = math.Log((1+n)/(1+float64(df[gram]))) + 1
	}

	return newState(ranked, idf, cfg.NGramMin, cfg.NGramMax), nil
}

func newState(terms []string, idf []float64, ngramMin, ngramMax int) *State {
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &State{
		terms:    terms,
		index:    index,
		idf:      idf,
		ngramMin: ngramMin,
		ngramMax: ngramMax,
	}
}

// Transform maps a normalized string to an L2-normalized TF-IDF vector.
// Out-of-vocabulary terms are dropped.
func (s *State) Transform(text string) (SparseVector, error) {
	if !s.Fitted() {
		return SparseVector{}, core.ErrNotFitted
	}

	counts := make(map[int]float64)
	for _, gram := range ngrams(text, s.ngramMin, s.ngramMax) {
		if i, ok := s.index[gram]; ok {
			counts[i]++
		}
	}

	vec := SparseVector{
		Dim:     len(s.terms),
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		vec.Indices = append(vec.Indices, i)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, i := range vec.Indices {
		w := counts[i] * s.idf[i]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec, nil
}

// TransformAll transforms every document of a corpus
func (s *State) TransformAll(corpus []string) ([]SparseVector, error) {
	out := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		vec, err := s.Transform(doc)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Fitted reports whether the state holds a vocabulary
func (s *State) Fitted() bool {
	return s != nil && len(s.terms) > 0
}

// Dimension returns the vocabulary size
func (s *State) Dimension() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Term returns the vocabulary entry at index i
func (s *State) Term(i int) string {
	return s.terms[i]
}

// NGramRange returns the inclusive n-gram bounds
func (s *State) NGramRange() [2]int {
	if s == nil {
		return [2]int{}
	}
	return [2]int{s.ngramMin, s.ngramMax}
}

type stateJSON struct {
	Terms      []string  `json:"terms"`
	IDF        []float64 `json:"idf"`
	NGramRange [2]int    `json:"ngram_range"`
}

// MarshalJSON encodes the vocabulary in index order
func (s *State) MarshalJSON() ([]byte, error) {
	if !s.Fitted() {
		return nil, core.ErrNotFitted
	}
	return json.Marshal(stateJSON{
		Terms:      s.terms,
		IDF:        s.idf,
		NGramRange: [2]int{s.ngramMin, s.ngramMax},
	})
}

// UnmarshalJSON decodes and validates a persisted vocabulary
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Terms) == 0 {
		return fmt.Errorf("vectorizer state has an empty vocabulary")
	}
	if len(raw.Terms) != len(raw.IDF) {
		return fmt.Errorf("vectorizer state has %d terms but %d idf weights", len(raw.Terms), len(raw.IDF))
	}
	for i := 1; i < len(raw.Terms); i++ {
		if raw.Terms[i-1] >= raw.Terms[i] {
			return fmt.Errorf("vectorizer terms are not sorted and unique at index %d", i)
		}
	}
	if raw.NGramRange[0] < 1 || raw.NGramRange[1] < raw.NGramRange[0] {
		return fmt.Errorf("vectorizer state has invalid ngram range %v", raw.NGramRange)
	}

	*s = *newState(raw.Terms, raw.IDF, raw.NGramRange[0], raw.NGramRange[1])
	return nil
}

// ngrams returns the contiguous n-grams of a space separated string
func ngrams(text string, minN, maxN int) []string {
	tokens := strings.Fields(text)
	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
