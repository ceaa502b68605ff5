package factory

import (
	"fmt"

	"github.com/mikey/fakenews-detector/internal/adapters/frontend"
	"github.com/mikey/fakenews-detector/internal/adapters/news"
	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/feed"
	"github.com/mikey/fakenews-detector/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates frontends
type FrontendFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.HeadlineService
	refresher *feed.Refresher
	fetcher   *news.Fetcher
}

// NewFrontendFactory creates a new frontend factory. The refresher and
// fetcher are only needed by the HTTP frontend and may be nil otherwise.
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.HeadlineService,
	refresher *feed.Refresher,
	fetcher *news.Fetcher,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		refresher: refresher,
		fetcher:   fetcher,
	}
}

// CreateFrontend creates the frontend named by server.frontend_type
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	frontendType := f.cfg.GetServer().FrontendType

	switch frontendType {
	case "http":
		return f.CreateHTTPServer()
	case "cli":
		return f.CreateCliFrontend(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported frontend type: %s", core.ErrConfiguration, frontendType)
	}
}

// CreateHTTPServer creates the HTTP frontend
func (f *FrontendFactory) CreateHTTPServer() (*frontend.HTTPServer, error) {
	if f.refresher == nil {
		return nil, fmt.Errorf("%w: the http frontend needs a feed refresher", core.ErrConfiguration)
	}

	serverCfg := f.cfg.GetServer()
	var searcher frontend.ArticleSearcher
	if f.fetcher != nil {
		searcher = f.fetcher
	}

	return frontend.NewHTTPServer(
		f.service,
		f.refresher,
		searcher,
		f.logger.Named("http"),
		serverCfg.ListenAddress,
		serverCfg.CORSOrigin,
		serverCfg.ReadTimeout,
		serverCfg.WriteTimeout,
	), nil
}

// CreateCliFrontend creates the command line frontend
func (f *FrontendFactory) CreateCliFrontend() *frontend.CliFrontend {
	cliCfg := f.cfg.GetCLI()
	return frontend.NewCliFrontend(f.service, f.logger.Named("cli"), cliCfg.Verbose, cliCfg.JSON, cliCfg.Review)
}
