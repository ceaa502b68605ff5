package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
)

// MaxReviewHeadlineSize caps the headline bytes sent to an LLM
const MaxReviewHeadlineSize = 1024

// ReviewSystemPrompt is sent as the system message where the provider supports one
const ReviewSystemPrompt = "You are a news fact-checking assistant. Respond only with JSON."

const reviewPromptFormat = `You are a news fact-checking assistant. Judge whether the following news headline is likely real news or fake news.
Respond with a JSON object containing:
- verdict: string, either "real" or "fake"
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (one or two sentences on why)

Headline:
%s

Respond only with the JSON object and nothing else.`

// ReviewResponse is the JSON object the LLM is asked to produce
type ReviewResponse struct {
	Verdict     string  `json:"verdict"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// BuildReviewPrompt cleans the headline and places it in the review prompt
func (tp *TextProcessor) BuildReviewPrompt(headline string) string {
	headline = tp.TruncateText(tp.CleanTitle(headline), MaxReviewHeadlineSize)
	return fmt.Sprintf(reviewPromptFormat, headline)
}

// ParseReviewResponse extracts the JSON object from an LLM reply, which may
// wrap it in prose or a code fence
func ParseReviewResponse(responseText string) (*ReviewResponse, error) {
	var response ReviewResponse
	if err := json.Unmarshal([]byte(responseText), &response); err != nil {
		jsonStart := strings.Index(responseText, "{")
		jsonEnd := strings.LastIndex(responseText, "}")
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &response); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}
	return &response, nil
}

// ToReview converts the parsed reply into a core.Review. Confidence is
// reported in percent like classifier confidence.
func (r *ReviewResponse) ToReview(modelUsed, processingID string) (*core.Review, error) {
	var verdict string
	switch strings.ToLower(strings.TrimSpace(r.Verdict)) {
	case "real", "true", "genuine":
		verdict = core.PredictionReal
	case "fake", "false", "misleading":
		verdict = core.PredictionFake
	default:
		return nil, fmt.Errorf("unrecognized verdict %q in LLM response", r.Verdict)
	}

	confidence := r.Confidence
	if confidence > 1 {
		confidence /= 100
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &core.Review{
		Verdict:      verdict,
		Confidence:   core.RoundConfidence(confidence),
		Explanation:  r.Explanation,
		ReviewedAt:   time.Now(),
		ModelUsed:    modelUsed,
		ProcessingID: processingID,
	}, nil
}
