package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/fakenews-detector/internal/adapters/cache"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates the prediction cache from the cache.* keys
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository opens the configured backend. Backends that own a
// cleanup goroutine or a connection expose Stop.
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cacheCfg := f.cfg.GetCache()
	logger := f.logger.Named("cache")

	var (
		repo core.CacheRepository
		err  error
	)
	switch cacheCfg.Type {
	case "memory":
		repo = cache.NewMemoryCache(logger, cacheCfg.CleanupFrequency)
	case "sqlite":
		repo, err = f.openSQLite(cacheCfg.SQLitePath, logger, cacheCfg.CleanupFrequency)
	case "mysql":
		var mysqlCache *cache.MySQLCache
		if mysqlCache, err = cache.NewMySQLCache(cacheCfg.MySQLDSN, logger, cacheCfg.CleanupFrequency); err == nil {
			repo = mysqlCache
		}
	default:
		return nil, fmt.Errorf("%w: unsupported cache type: %s", core.ErrConfiguration, cacheCfg.Type)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Prediction cache ready",
		zap.String("type", cacheCfg.Type),
		zap.Bool("enabled", cacheCfg.Enabled),
		zap.Duration("ttl", cacheCfg.TTL))
	return repo, nil
}

func (f *CacheFactory) openSQLite(path string, logger *zap.Logger, cleanupFreq time.Duration) (core.CacheRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
	}
	c, err := cache.NewSQLiteCache(path, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCacheTTL returns how long a cached prediction stays valid
func (f *CacheFactory) GetCacheTTL() (time.Duration, error) {
	ttl, err := f.cfg.GetDuration("cache.ttl")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("%w: cache.ttl must be positive, got %s", core.ErrConfiguration, ttl)
	}
	return ttl, nil
}

// IsCacheEnabled reports whether predictions are cached at all
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetCache().Enabled
}
