package factory

import (
	"fmt"

	"github.com/mikey/fakenews-detector/internal/adapters/notify"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates suspicious headline notifiers
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates the configured notifier. It returns nil without an
// error when notify.type is "none".
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifyType := f.cfg.GetNotify().Type
	logger := f.logger.Named("notify")

	switch notifyType {
	case "", "none":
		return nil, nil
	case "log":
		return notify.NewLogNotifier(logger), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		n, err := notify.NewSMTPNotifier(
			smtpCfg.Address,
			smtpCfg.Username,
			smtpCfg.Password,
			smtpCfg.From,
			smtpCfg.To,
			smtpCfg.Subject,
			logger,
		)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unsupported notifier type: %s", core.ErrConfiguration, notifyType)
	}
}
