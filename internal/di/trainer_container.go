package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/fakenews-detector/internal/config"
	"github.com/mikey/fakenews-detector/internal/factory"
	"github.com/mikey/fakenews-detector/internal/logging"
	"github.com/mikey/fakenews-detector/internal/trainer"
)

// TrainerFlags contains the command line flags for the train tool
type TrainerFlags struct {
	DataDir    string
	CSVPath    string
	ModelDir   string
	ConfigFile string
	Verbose    bool
	JSONLog    bool
}

// BuildTrainerContainer creates a dependency injection container for the train tool
func BuildTrainerContainer(flags *TrainerFlags) (*dig.Container, error) {
	container := dig.New()

	// Register logger
	if err := container.Provide(func() (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration, with flags taking precedence over the file
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if flags.DataDir != "" {
			cfg.Set("trainer.data_dir", flags.DataDir)
		}
		if flags.CSVPath != "" {
			cfg.Set("trainer.csv_path", flags.CSVPath)
		}
		if flags.ModelDir != "" {
			cfg.Set("model.dir", flags.ModelDir)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(factory.NewModelFactory); err != nil {
		return nil, err
	}

	// Register trainer and its data source
	if err := container.Provide(func(f *factory.ModelFactory) *trainer.Trainer {
		return f.CreateTrainer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ModelFactory) trainer.DataSource {
		return f.DataSource()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
