package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FAKENEWS_MODEL_DIR
const EnvPrefix = "FAKENEWS"

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance from config.yaml and the environment
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration from an explicit file, or from the
// standard search path when path is empty
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/fakenews-detector/")
		v.AddConfigPath("$HOME/.fakenews-detector")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.frontend_type", "http")
	v.SetDefault("server.listen_address", ":5000")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.cors_origin", "*")

	// CLI defaults
	v.SetDefault("cli.verbose", false)
	v.SetDefault("cli.json", false)
	v.SetDefault("cli.review", false)

	// Model defaults
	v.SetDefault("model.dir", "models")
	v.SetDefault("model.strict", false)
	v.SetDefault("model.keep_releases", 3)

	// Pipeline defaults, shared by the trainer and the demo bootstrap
	v.SetDefault("pipeline.max_features", 5000)
	v.SetDefault("pipeline.ngram_min", 1)
	v.SetDefault("pipeline.ngram_max", 2)
	v.SetDefault("pipeline.c", 1.0)
	v.SetDefault("pipeline.learning_rate", 2.0)
	v.SetDefault("pipeline.max_iter", 2000)
	v.SetDefault("pipeline.tolerance", 1e-6)

	// Trainer defaults
	v.SetDefault("trainer.data_dir", "data")
	v.SetDefault("trainer.csv_path", "")
	v.SetDefault("trainer.text_column", "title")
	v.SetDefault("trainer.label_column", "label")
	v.SetDefault("trainer.min_words", 3)
	v.SetDefault("trainer.test_ratio", 0.2)
	v.SetDefault("trainer.seed", 42)
	v.SetDefault("trainer.top_terms", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/prediction_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/fakenews")

	// Feed defaults
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.refresh_interval", "5m")
	v.SetDefault("feed.size", 10)
	v.SetDefault("feed.live_size", 5)
	v.SetDefault("feed.fetch_timeout", "30s")
	v.SetDefault("feed.trusted_domains", []string{})

	// News source defaults
	v.SetDefault("news.newsapi.enabled", false)
	v.SetDefault("news.newsapi.api_key", "")
	v.SetDefault("news.newsapi.url", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("news.newsapi.country", "us")
	v.SetDefault("news.newsapi.page_size", 20)
	v.SetDefault("news.newsapi.timeout", "10s")
	v.SetDefault("news.rss.enabled", true)
	v.SetDefault("news.rss.feeds_file", "")
	v.SetDefault("news.rss.feeds", []string{
		"https://rss.cnn.com/rss/edition.rss",
		"https://feeds.bbci.co.uk/news/rss.xml",
		"https://rss.reuters.com/reuters/topNews",
		"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
	})
	v.SetDefault("news.rss.per_feed", 5)
	v.SetDefault("news.rss.delay", "500ms")
	v.SetDefault("news.rss.timeout", "5s")
	v.SetDefault("news.retry.max_attempts", 3)
	v.SetDefault("news.retry.delay", "1s")
	v.SetDefault("news.retry.backoff", true)

	// Review defaults
	v.SetDefault("review.provider", "none")
	v.SetDefault("review.feed", false)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 300)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 300)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)

	// Notification defaults
	v.SetDefault("notify.type", "none")
	v.SetDefault("notify.threshold", 80.0)

	// SMTP defaults
	v.SetDefault("smtp.address", "localhost:25")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "fakenews-detector@localhost")
	v.SetDefault("smtp.to", []string{})
	v.SetDefault("smtp.subject", "Suspicious headlines detected")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Set overrides a value, used by the CLIs to apply flags
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
