// Package di wires the application together with dig
package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/fakenews-detector/internal/adapters/news"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/factory"
	"github.com/mikey/fakenews-detector/internal/feed"
	"github.com/mikey/fakenews-detector/internal/logging"
	"github.com/mikey/fakenews-detector/internal/metrics"
	"github.com/mikey/fakenews-detector/internal/ports"
	"github.com/mikey/fakenews-detector/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the server
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register trusted source checker
	if err := container.Provide(func(f *factory.FeedFactory) core.TrustChecker {
		return f.CreateTrustChecker()
	}); err != nil {
		return nil, err
	}

	// Register headline service
	if err := container.Provide(core.NewHeadlineService); err != nil {
		return nil, err
	}

	// Register news fetcher, notifier and feed refresher
	if err := container.Provide(func(f *factory.NewsFactory) (*news.Fetcher, error) {
		return f.CreateFetcher()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		f *factory.FeedFactory,
		fetcher *news.Fetcher,
		service *core.HeadlineService,
		notifier core.Notifier,
	) *feed.Refresher {
		return f.CreateRefresher(fetcher, service, notifier)
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the factories and components shared by every binary
func provideCore(container *dig.Container) error {
	constructors := []interface{}{
		factory.NewModelFactory,
		factory.NewCacheFactory,
		factory.NewReviewerFactory,
		factory.NewNewsFactory,
		factory.NewNotifierFactory,
		factory.NewFeedFactory,
		metrics.New,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register text processor
	if err := container.Provide(func(logger *zap.Logger) *utils.TextProcessor {
		return utils.NewTextProcessor(logger.Named("text"))
	}); err != nil {
		return err
	}

	// Register predictor
	if err := container.Provide(func(f *factory.ModelFactory) (core.Predictor, error) {
		return f.CreateDetector()
	}); err != nil {
		return err
	}

	// Register reviewer, nil when review.provider is none
	return container.Provide(func(f *factory.ReviewerFactory) (core.HeadlineReviewer, error) {
		return f.CreateReviewer()
	})
}
