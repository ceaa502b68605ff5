package config

import "time"

// ServerConfig represents the configuration for the inbound frontend
type ServerConfig struct {
	FrontendType  string
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	CORSOrigin    string
}

// CLIConfig represents the output settings of the command line frontend
type CLIConfig struct {
	Verbose bool
	JSON    bool
	Review  bool
}

// ModelConfig represents where artifacts live and how strictly they are loaded
type ModelConfig struct {
	Dir          string
	Strict       bool
	KeepReleases int
}

// PipelineConfig represents the shared feature and optimizer settings
type PipelineConfig struct {
	MaxFeatures  int
	NGramMin     int
	NGramMax     int
	C            float64
	LearningRate float64
	MaxIter      int
	Tolerance    float64
}

// TrainerConfig represents the offline training settings
type TrainerConfig struct {
	DataDir     string
	CSVPath     string
	TextColumn  string
	LabelColumn string
	MinWords    int
	TestRatio   float64
	Seed        int64
	TopTerms    int
}

// CacheConfig represents the prediction cache settings
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// FeedConfig represents the live feed refresher settings
type FeedConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
	Size            int
	LiveSize        int
	FetchTimeout    time.Duration
	TrustedDomains  []string
}

// NewsAPIConfig represents the configuration for newsapi.org
type NewsAPIConfig struct {
	Enabled  bool
	APIKey   string
	URL      string
	Country  string
	PageSize int
	Timeout  time.Duration
}

// RSSConfig represents the configuration for the RSS sources
type RSSConfig struct {
	Enabled   bool
	FeedsFile string
	Feeds     []string
	PerFeed   int
	Delay     time.Duration
	Timeout   time.Duration
}

// RetryConfig represents the retry policy for outbound news requests
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool
}

// ReviewConfig represents the configuration for the LLM reviewer
type ReviewConfig struct {
	Provider string
	Feed     bool
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// NotifyConfig represents the alerting settings
type NotifyConfig struct {
	Type      string
	Threshold float64
}

// SMTPConfig represents the outbound mail settings for alerts
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FrontendType:  c.GetString("server.frontend_type"),
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   c.v.GetDuration("server.read_timeout"),
		WriteTimeout:  c.v.GetDuration("server.write_timeout"),
		CORSOrigin:    c.GetString("server.cors_origin"),
	}
}

// GetCLI returns the command line frontend configuration
func (c *Config) GetCLI() CLIConfig {
	return CLIConfig{
		Verbose: c.GetBool("cli.verbose"),
		JSON:    c.GetBool("cli.json"),
		Review:  c.GetBool("cli.review"),
	}
}

// GetModel returns the model artifact configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Dir:          c.GetString("model.dir"),
		Strict:       c.GetBool("model.strict"),
		KeepReleases: c.GetInt("model.keep_releases"),
	}
}

// GetPipeline returns the pipeline configuration
func (c *Config) GetPipeline() PipelineConfig {
	return PipelineConfig{
		MaxFeatures:  c.GetInt("pipeline.max_features"),
		NGramMin:     c.GetInt("pipeline.ngram_min"),
		NGramMax:     c.GetInt("pipeline.ngram_max"),
		C:            c.GetFloat64("pipeline.c"),
		LearningRate: c.GetFloat64("pipeline.learning_rate"),
		MaxIter:      c.GetInt("pipeline.max_iter"),
		Tolerance:    c.GetFloat64("pipeline.tolerance"),
	}
}

// GetTrainer returns the trainer configuration
func (c *Config) GetTrainer() TrainerConfig {
	return TrainerConfig{
		DataDir:     c.GetString("trainer.data_dir"),
		CSVPath:     c.GetString("trainer.csv_path"),
		TextColumn:  c.GetString("trainer.text_column"),
		LabelColumn: c.GetString("trainer.label_column"),
		MinWords:    c.GetInt("trainer.min_words"),
		TestRatio:   c.GetFloat64("trainer.test_ratio"),
		Seed:        c.GetInt64("trainer.seed"),
		TopTerms:    c.GetInt("trainer.top_terms"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              c.v.GetDuration("cache.ttl"),
		CleanupFrequency: c.v.GetDuration("cache.cleanup_frequency"),
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}
}

// GetFeed returns the feed configuration
func (c *Config) GetFeed() FeedConfig {
	return FeedConfig{
		Enabled:         c.GetBool("feed.enabled"),
		RefreshInterval: c.v.GetDuration("feed.refresh_interval"),
		Size:            c.GetInt("feed.size"),
		LiveSize:        c.GetInt("feed.live_size"),
		FetchTimeout:    c.v.GetDuration("feed.fetch_timeout"),
		TrustedDomains:  c.GetStringSlice("feed.trusted_domains"),
	}
}

// GetNewsAPI returns the NewsAPI configuration
func (c *Config) GetNewsAPI() NewsAPIConfig {
	return NewsAPIConfig{
		Enabled:  c.GetBool("news.newsapi.enabled"),
		APIKey:   c.GetString("news.newsapi.api_key"),
		URL:      c.GetString("news.newsapi.url"),
		Country:  c.GetString("news.newsapi.country"),
		PageSize: c.GetInt("news.newsapi.page_size"),
		Timeout:  c.v.GetDuration("news.newsapi.timeout"),
	}
}

// GetRSS returns the RSS configuration
func (c *Config) GetRSS() RSSConfig {
	return RSSConfig{
		Enabled:   c.GetBool("news.rss.enabled"),
		FeedsFile: c.GetString("news.rss.feeds_file"),
		Feeds:     c.GetStringSlice("news.rss.feeds"),
		PerFeed:   c.GetInt("news.rss.per_feed"),
		Delay:     c.v.GetDuration("news.rss.delay"),
		Timeout:   c.v.GetDuration("news.rss.timeout"),
	}
}

// GetRetry returns the retry policy for news requests
func (c *Config) GetRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: c.GetInt("news.retry.max_attempts"),
		Delay:       c.v.GetDuration("news.retry.delay"),
		Backoff:     c.GetBool("news.retry.backoff"),
	}
}

// GetReview returns the reviewer configuration
func (c *Config) GetReview() ReviewConfig {
	return ReviewConfig{
		Provider: c.GetString("review.provider"),
		Feed:     c.GetBool("review.feed"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetNotify returns the notification configuration
func (c *Config) GetNotify() NotifyConfig {
	return NotifyConfig{
		Type:      c.GetString("notify.type"),
		Threshold: c.GetFloat64("notify.threshold"),
	}
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		To:       c.GetStringSlice("smtp.to"),
		Subject:  c.GetString("smtp.subject"),
	}
}
