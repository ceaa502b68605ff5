package gemini

import (
	"context"
	"fmt"

	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiReviewer
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiReviewer instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateReviewer creates a new GeminiReviewer
func (f *Factory) CreateReviewer() (core.HeadlineReviewer, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w: api key is not set", core.ErrConfiguration)
	}

	return NewGeminiReviewer(
		context.Background(),
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
		f.textProcessor,
	)
}
