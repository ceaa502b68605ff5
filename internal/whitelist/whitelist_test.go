package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	c := NewChecker([]string{" Reuters.com ", "www.bbc.co.uk", ""}, zap.NewNop())
	assert.Equal(t, []string{"reuters.com", "bbc.co.uk"}, c.Domains())

	tests := map[string]bool{
		"https://www.reuters.com/world/article-1":  true,
		"https://uk.reuters.com/markets":           true,
		"http://feeds.bbc.co.uk/news/rss.xml":      true,
		"https://notreuters.com/article":           false,
		"https://reuters.com.evil.example/article": false,
		"https://example.com/news1":                false,
		"not a url":                                false,
		"":                                         false,
	}
	for in, want := range tests {
		assert.Equal(t, want, c.IsTrusted(in), in)
	}
}

func TestEmptyChecker(t *testing.T) {
	var nilChecker *Checker
	assert.False(t, nilChecker.IsTrusted("https://reuters.com"))
	assert.False(t, NewChecker(nil, nil).IsTrusted("https://reuters.com"))
}
