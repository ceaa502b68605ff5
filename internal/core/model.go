package core

import (
	"math"
	"time"
)

// Label is the class produced by the classifier
type Label int

const (
	// LabelFake is numeric class 0
	LabelFake Label = 0
	// LabelReal is numeric class 1
	LabelReal Label = 1
)

// Prediction strings as they appear in PredictionResult
const (
	PredictionReal  = "Real"
	PredictionFake  = "Fake"
	PredictionError = "Error"
)

// String returns "Real" or "Fake"
func (l Label) String() string {
	if l == LabelReal {
		return PredictionReal
	}
	return PredictionFake
}

// Model modes reported by ModelInfo
const (
	ModeLoaded = "loaded"
	ModeDemo   = "demo"
)

// PredictionResult is the output of a single prediction
type PredictionResult struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	IsReal     bool    `json:"is_real"`
	Headline   string  `json:"headline"`
	Error      string  `json:"error,omitempty"`
}

// NewPredictionResult builds a result for a classified headline.
// Confidence is max(probabilities)*100 rounded to two decimals.
func NewPredictionResult(headline string, label Label, probabilities [2]float64) PredictionResult {
	return PredictionResult{
		Prediction: label.String(),
		Confidence: RoundConfidence(math.Max(probabilities[0], probabilities[1])),
		IsReal:     label == LabelReal,
		Headline:   headline,
	}
}

// NewErrorResult builds a result for a headline that could not be classified
func NewErrorResult(headline string, err error) PredictionResult {
	return PredictionResult{
		Prediction: PredictionError,
		Confidence: 0,
		IsReal:     false,
		Headline:   headline,
		Error:      err.Error(),
	}
}

// IsError reports whether the result carries an error
func (r PredictionResult) IsError() bool {
	return r.Prediction == PredictionError
}

// RoundConfidence converts a probability to a percentage with two decimals
func RoundConfidence(p float64) float64 {
	return math.Round(p*100*100) / 100
}

// Article is a news record supplied by a news source
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// AnalyzedArticle is an article merged with its prediction
type AnalyzedArticle struct {
	Article
	PredictionResult
	TrustedSource bool    `json:"trusted_source,omitempty"`
	Review        *Review `json:"review,omitempty"`
}

// Review is a second opinion on a headline produced by an LLM
type Review struct {
	Verdict      string    `json:"verdict"`
	Confidence   float64   `json:"confidence"`
	Explanation  string    `json:"explanation"`
	ReviewedAt   time.Time `json:"reviewed_at"`
	ModelUsed    string    `json:"model_used"`
	ProcessingID string    `json:"processing_id,omitempty"`
}

// ModelInfo describes the artifact a detector is serving
type ModelInfo struct {
	Mode       string    `json:"mode"`
	PairID     string    `json:"pair_id"`
	Dimension  int       `json:"dimension"`
	TrainedAt  time.Time `json:"trained_at"`
	NGramRange [2]int    `json:"ngram_range"`
}

// CacheEntry is a cached prediction keyed by model and headline
type CacheEntry struct {
	Key        string
	ModelID    string
	Prediction string
	Confidence float64
	IsReal     bool
	LastSeen   time.Time
	ExpiresAt  time.Time
}
