package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/ports"
	"go.uber.org/zap"
)

// CliFrontend classifies headlines given on the command line and prints the results
type CliFrontend struct {
	service    *core.HeadlineService
	logger     *zap.Logger
	verbose    bool
	jsonOutput bool
	review     bool
	out        io.Writer
}

var _ ports.HeadlineFrontend = (*CliFrontend)(nil)

// cliResult is one line of JSON output
type cliResult struct {
	core.PredictionResult
	Review *core.Review `json:"review,omitempty"`
}

// NewCliFrontend creates a new CLI frontend writing to stdout
func NewCliFrontend(service *core.HeadlineService, logger *zap.Logger, verbose, jsonOutput, review bool) *CliFrontend {
	return &CliFrontend{
		service:    service,
		logger:     logger,
		verbose:    verbose,
		jsonOutput: jsonOutput,
		review:     review,
		out:        os.Stdout,
	}
}

// SetOutput redirects the printed results
func (f *CliFrontend) SetOutput(w io.Writer) {
	f.out = w
}

// ClassifyHeadline classifies a headline and prints the result. An error is
// returned when the result is an Error result.
func (f *CliFrontend) ClassifyHeadline(ctx context.Context, headline string) (core.PredictionResult, error) {
	f.logger.Debug("Classifying headline", zap.String("headline", headline))

	startTime := time.Now()
	result := f.service.Classify(ctx, headline)
	duration := time.Since(startTime)

	var review *core.Review
	if f.review && !result.IsError() {
		var err error
		review, err = f.service.Review(ctx, headline)
		if err != nil {
			f.logger.Warn("Review unavailable", zap.Error(err))
		}
	}

	if f.jsonOutput {
		if err := json.NewEncoder(f.out).Encode(cliResult{PredictionResult: result, Review: review}); err != nil {
			return result, fmt.Errorf("failed to write result: %w", err)
		}
	} else {
		f.printResult(result, review, duration)
	}

	if result.IsError() {
		return result, fmt.Errorf("classification failed: %s", result.Error)
	}
	return result, nil
}

func (f *CliFrontend) printResult(result core.PredictionResult, review *core.Review, duration time.Duration) {
	fmt.Fprintf(f.out, "\n=== Headline ===\n%s\n", result.Headline)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Prediction: %s\n", result.Prediction)
	if result.IsError() {
		fmt.Fprintf(f.out, "Error: %s\n", result.Error)
	} else {
		fmt.Fprintf(f.out, "Confidence: %.2f%%\n", result.Confidence)
	}

	if review != nil {
		fmt.Fprintf(f.out, "\n=== LLM Review ===\n")
		fmt.Fprintf(f.out, "Verdict: %s\n", review.Verdict)
		fmt.Fprintf(f.out, "Confidence: %.2f%%\n", review.Confidence)
		fmt.Fprintf(f.out, "Explanation: %s\n", review.Explanation)
		fmt.Fprintf(f.out, "Model used: %s\n", review.ModelUsed)
	}

	if f.verbose {
		info := f.service.ModelInfo()
		fmt.Fprintf(f.out, "\n=== Model ===\n")
		fmt.Fprintf(f.out, "Mode: %s\n", info.Mode)
		fmt.Fprintf(f.out, "Pair ID: %s\n", info.PairID)
		fmt.Fprintf(f.out, "Vocabulary size: %d\n", info.Dimension)
		fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	}
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}
