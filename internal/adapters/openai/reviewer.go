package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIReviewer is an implementation of the HeadlineReviewer interface using OpenAI
type OpenAIReviewer struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

var _ core.HeadlineReviewer = (*OpenAIReviewer)(nil)

// NewOpenAIReviewer creates a new OpenAI reviewer
func NewOpenAIReviewer(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIReviewer {
	return &OpenAIReviewer{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ReviewHeadline asks the chat model whether a headline looks real or fake
func (c *OpenAIReviewer) ReviewHeadline(ctx context.Context, headline string) (*core.Review, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: utils.ReviewSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.textProcessor.BuildReviewPrompt(headline),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	parsed, err := utils.ParseReviewResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Received OpenAI review",
		zap.String("headline", headline),
		zap.String("verdict", parsed.Verdict),
		zap.String("request_id", resp.ID))

	return parsed.ToReview(c.modelName, resp.ID)
}
