// Package notify delivers alerts about headlines classified as likely fake
package notify

import (
	"context"

	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

// LogNotifier writes each suspicious headline to the log
type LogNotifier struct {
	logger *zap.Logger
}

var _ core.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifySuspicious logs every item at warn level
func (n *LogNotifier) NotifySuspicious(ctx context.Context, items []core.AnalyzedArticle) error {
	for _, item := range items {
		n.logger.Warn("Suspicious headline detected",
			zap.String("title", item.Title),
			zap.Float64("confidence", item.Confidence),
			zap.String("source", item.Source),
			zap.String("url", item.URL))
	}
	return nil
}
