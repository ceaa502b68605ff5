package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

const tableName = "prediction_cache"

var cacheColumns = []string{
	"cache_key", "model_id", "prediction", "confidence", "is_real", "last_seen", "expires_at",
}

// sqlCache holds the query logic shared by the SQLite and MySQL caches.
// Timestamps are stored as unix seconds so both dialects compare them the same way.
type sqlCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

func newSQLCache(db *sql.DB, logger *zap.Logger, cleanupFreq time.Duration) *sqlCache {
	return &sqlCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}
}

// Get retrieves an unexpired cached prediction
func (c *sqlCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	query, args, err := sq.Select(cacheColumns...).
		From(tableName).
		Where(sq.Eq{"cache_key": key}).
		Where(sq.Gt{"expires_at": c.now().Unix()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache query: %w", err)
	}

	var entry core.CacheEntry
	var lastSeen, expiresAt int64
	err = c.db.QueryRowContext(ctx, query, args...).Scan(
		&entry.Key, &entry.ModelID, &entry.Prediction, &entry.Confidence, &entry.IsReal, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry.LastSeen = time.Unix(lastSeen, 0)
	entry.ExpiresAt = time.Unix(expiresAt, 0)
	return &entry, nil
}

// Set stores or replaces a cache entry
func (c *sqlCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	query, args, err := sq.Replace(tableName).
		Columns(cacheColumns...).
		Values(entry.Key, entry.ModelID, entry.Prediction, entry.Confidence, entry.IsReal,
			entry.LastSeen.Unix(), entry.ExpiresAt.Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache insert: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *sqlCache) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(tableName).Where(sq.Eq{"cache_key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache delete: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *sqlCache) Cleanup(ctx context.Context) error {
	query, args, err := sq.Delete(tableName).Where(sq.LtOrEq{"expires_at": c.now().Unix()}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache cleanup: %w", err)
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *sqlCache) startCleanupTask() {
	runCleanupLoop(c.cleanupFreq, c.stopCh, c.Cleanup, c.logger)
}

func (c *sqlCache) close(driver string) {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close cache database", zap.String("driver", driver), zap.Error(err))
		}
	})
}

// runCleanupLoop calls cleanup every freq until stopCh is closed
func runCleanupLoop(freq time.Duration, stopCh <-chan struct{}, cleanup func(context.Context) error, logger *zap.Logger) {
	if freq <= 0 {
		return
	}
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cleanup(context.Background()); err != nil {
				logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}
