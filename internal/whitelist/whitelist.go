package whitelist

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether an article comes from a trusted outlet
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trusted outlet checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Initialized trusted outlet checker", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// IsTrusted reports whether the article URL's host is a trusted domain or a
// subdomain of one
func (c *Checker) IsTrusted(articleURL string) bool {
	if c == nil || len(c.domains) == 0 {
		return false
	}

	host := hostOf(articleURL)
	if host == "" {
		return false
	}

	for _, trusted := range c.domains {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Article is from a trusted outlet",
					zap.String("domain", trusted),
					zap.String("url", articleURL))
			}
			return true
		}
	}

	return false
}

// Domains returns the normalized trusted domains
func (c *Checker) Domains() []string {
	return c.domains
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
