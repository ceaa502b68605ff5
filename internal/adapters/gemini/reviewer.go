package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiReviewer is an implementation of the HeadlineReviewer interface using Google Gemini
type GeminiReviewer struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

var _ core.HeadlineReviewer = (*GeminiReviewer)(nil)

// NewGeminiReviewer creates a new Gemini reviewer
func NewGeminiReviewer(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	opts ...option.ClientOption,
) (*GeminiReviewer, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(utils.ReviewSystemPrompt)}}

	return &GeminiReviewer{
		client:        client,
		model:         model,
		modelName:     modelName,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiReviewer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ReviewHeadline asks Gemini whether a headline looks real or fake
func (c *GeminiReviewer) ReviewHeadline(ctx context.Context, headline string) (*core.Review, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(c.textProcessor.BuildReviewPrompt(headline)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	responseText := responseText(resp)
	if responseText == "" {
		return nil, errors.New("empty response from Gemini")
	}

	parsed, err := utils.ParseReviewResponse(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Received Gemini review",
		zap.String("headline", headline),
		zap.String("verdict", parsed.Verdict))

	return parsed.ToReview(c.modelName, "")
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
