package factory

import (
	"fmt"

	"github.com/mikey/fakenews-detector/internal/adapters/bedrock"
	"github.com/mikey/fakenews-detector/internal/adapters/gemini"
	"github.com/mikey/fakenews-detector/internal/adapters/openai"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"go.uber.org/zap"
)

// ReviewerFactory creates LLM headline reviewers
type ReviewerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewerFactory creates a new reviewer factory
func NewReviewerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ReviewerFactory {
	return &ReviewerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateReviewer creates the configured reviewer. It returns nil without an
// error when review.provider is "none".
func (f *ReviewerFactory) CreateReviewer() (core.HeadlineReviewer, error) {
	provider := f.cfg.GetReview().Provider
	logger := f.logger.Named("review")

	switch provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return bedrock.NewFactory(f.cfg, logger, f.textProcessor).CreateReviewer()
	case "gemini":
		return gemini.NewFactory(f.cfg, logger, f.textProcessor).CreateReviewer()
	case "openai":
		return openai.NewFactory(f.cfg, logger, f.textProcessor).CreateReviewer()
	default:
		return nil, fmt.Errorf("%w: unsupported review provider: %s", core.ErrConfiguration, provider)
	}
}
