package bedrock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewer(modelID string, client *bedrockruntime.Client) *BedrockReviewer {
	logger := zap.NewNop()
	return NewBedrockReviewer(client, modelID, 200, 0.1, 0.9, logger, utils.NewTextProcessor(logger))
}

func TestRequestPayload(t *testing.T) {
	tests := []struct {
		modelID string
		key     string
	}{
		{"anthropic.claude-3-haiku-20240307-v1:0", "messages"},
		{"anthropic.claude-v2", "max_tokens_to_sample"},
		{"amazon.titan-text-express-v1", "textGenerationConfig"},
		{"meta.llama3-8b-instruct-v1:0", "max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			payload, err := newReviewer(tt.modelID, nil).requestPayload("prompt text")
			require.NoError(t, err)

			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal(payload, &decoded))
			assert.Contains(t, decoded, tt.key)
		})
	}

	payload, err := newReviewer("anthropic.claude-v2", nil).requestPayload("prompt text")
	require.NoError(t, err)
	assert.Contains(t, string(payload), `\n\nHuman: prompt text\n\nAssistant:`)
}

func TestResponseText(t *testing.T) {
	text, err := newReviewer("anthropic.claude-3-sonnet", nil).responseText(
		[]byte(`{"content":[{"type":"text","text":"{\"verdict\":\"fake\"}"}]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"fake"}`, text)

	text, err = newReviewer("amazon.titan-text-lite-v1", nil).responseText(
		[]byte(`{"results":[{"outputText":"hello"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = newReviewer("amazon.titan-text-lite-v1", nil).responseText([]byte(`{"results":[]}`))
	assert.Error(t, err)

	text, err = newReviewer("mistral.mistral-7b", nil).responseText([]byte(`{"output":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}

func TestReviewHeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/model/"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Aliens built the pyramids")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"completion":" {\"verdict\":\"fake\",\"confidence\":0.75,\"explanation\":\"unsupported claim\"}"}`)
	}))
	defer server.Close()

	client := bedrockruntime.NewFromConfig(aws.Config{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
	})

	review, err := newReviewer("anthropic.claude-v2", client).ReviewHeadline(context.Background(), "Aliens built the pyramids")
	require.NoError(t, err)
	assert.Equal(t, core.PredictionFake, review.Verdict)
	assert.Equal(t, 75.0, review.Confidence)
	assert.Equal(t, "anthropic.claude-v2", review.ModelUsed)
}
