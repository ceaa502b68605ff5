package di

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mikey/fakenews-detector/internal/adapters/frontend"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/ports"
	"github.com/mikey/fakenews-detector/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	flags, err := ParseFlags(fs, []string{"-json", "-provider", "openai", "-openai-api-key", "k", "Some", "headline"})
	require.NoError(t, err)

	assert.True(t, flags.JSON)
	assert.Equal(t, "openai", flags.Provider)
	assert.Equal(t, "models", flags.ModelDir)
	assert.Equal(t, []string{"Some", "headline"}, fs.Args())
}

func TestCreateConfigFromFlags(t *testing.T) {
	cfg := createConfigFromFlags(&CLIFlags{
		ModelDir:        "/tmp/models",
		Provider:        "gemini",
		GeminiAPIKey:    "key",
		GeminiModelName: "gemini-pro",
		MaxTokens:       200,
		Verbose:         true,
	})

	assert.Equal(t, "cli", cfg.GetServer().FrontendType)
	assert.Equal(t, "/tmp/models", cfg.GetModel().Dir)
	assert.Equal(t, "gemini", cfg.GetReview().Provider)
	assert.Equal(t, "key", cfg.GetGemini().APIKey)
	assert.Equal(t, 200, cfg.GetGemini().MaxTokens)
	assert.True(t, cfg.GetCLI().Review)
	assert.True(t, cfg.GetCLI().Verbose)

	none := createConfigFromFlags(&CLIFlags{Provider: "none"})
	assert.False(t, none.GetCLI().Review)
}

func TestBuildCLIContainer(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{ModelDir: t.TempDir(), Provider: "none"})
	require.NoError(t, err)

	err = container.Invoke(func(f ports.HeadlineFrontend, reviewer core.HeadlineReviewer, service *core.HeadlineService) {
		assert.Nil(t, reviewer)
		assert.Equal(t, core.ModeDemo, service.ModelInfo().Mode)

		cli, ok := f.(*frontend.CliFrontend)
		require.True(t, ok)
		var buf bytes.Buffer
		cli.SetOutput(&buf)

		result, err := f.ClassifyHeadline(context.Background(), "Scientists discover aliens living among us")
		require.NoError(t, err)
		assert.Equal(t, core.PredictionFake, result.Prediction)
		assert.Contains(t, buf.String(), "Prediction: Fake")
	})
	require.NoError(t, err)
}

func TestBuildTrainerContainer(t *testing.T) {
	modelDir := t.TempDir()
	csvPath := filepath.Join(t.TempDir(), "news.csv")

	container, err := BuildTrainerContainer(&TrainerFlags{CSVPath: csvPath, ModelDir: modelDir})
	require.NoError(t, err)

	err = container.Invoke(func(source trainer.DataSource, tr *trainer.Trainer) {
		assert.Equal(t, csvPath, source.CSVPath)
		assert.Equal(t, "title", source.TextColumn)
		assert.Equal(t, "label", source.LabelColumn)
		assert.NotNil(t, tr)
	})
	require.NoError(t, err)
}
