package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	server := cfg.GetServer()
	assert.Equal(t, ":5000", server.ListenAddress)
	assert.Equal(t, "http", server.FrontendType)

	p := cfg.GetPipeline()
	assert.Equal(t, 5000, p.MaxFeatures)
	assert.Equal(t, 1, p.NGramMin)
	assert.Equal(t, 2, p.NGramMax)
	assert.Equal(t, 1.0, p.C)

	tr := cfg.GetTrainer()
	assert.Equal(t, 3, tr.MinWords)
	assert.Equal(t, int64(42), tr.Seed)
	assert.Equal(t, 0.2, tr.TestRatio)

	feed := cfg.GetFeed()
	assert.Equal(t, 5*time.Minute, feed.RefreshInterval)
	assert.Equal(t, 10, feed.Size)
	assert.Equal(t, 5, feed.LiveSize)

	assert.Equal(t, 3, cfg.GetModel().KeepReleases)
	assert.Len(t, cfg.GetRSS().Feeds, 4)
	assert.Equal(t, 500*time.Millisecond, cfg.GetRSS().Delay)
	assert.Equal(t, "none", cfg.GetReview().Provider)
}

func TestNewFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  dir: /srv/models
  strict: true
feed:
  refresh_interval: 1m
  trusted_domains:
    - reuters.com
    - bbc.co.uk
`), 0o644))
	t.Setenv("FAKENEWS_CACHE_TYPE", "sqlite")

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/models", cfg.GetModel().Dir)
	assert.True(t, cfg.GetModel().Strict)
	assert.Equal(t, time.Minute, cfg.GetFeed().RefreshInterval)
	assert.Equal(t, []string{"reuters.com", "bbc.co.uk"}, cfg.GetFeed().TrustedDomains)
	assert.Equal(t, "sqlite", cfg.GetCache().Type)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())
	d, err := cfg.GetDuration("cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	cfg.Set("cache.ttl", "soon")
	_, err = cfg.GetDuration("cache.ttl")
	assert.Error(t, err)
}
