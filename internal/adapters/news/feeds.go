package news

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedsConfig is the layout of a feeds file:
//
//	feeds:
//	  - https://feeds.bbci.co.uk/news/rss.xml
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed list from a YAML file
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feeds file: %w", err)
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode feeds file %s: %w", path, err)
	}
	return cfg.Feeds, nil
}
